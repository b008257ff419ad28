// Package analyzers provides all custom static analyzers for evexml.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/podside/evexml/tools/evexml-lint/analyzers/logsecret"
	"github.com/podside/evexml/tools/evexml-lint/analyzers/loopfetch"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		logsecret.Analyzer,
		loopfetch.Analyzer,
	}
}
