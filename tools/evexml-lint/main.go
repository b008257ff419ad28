// evexml-lint is a custom static analyzer for evexml client-usage patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/podside/evexml/tools/evexml-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
