// Package loopfetch detects API round trips inside loops.
package loopfetch

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects API calls inside loops that multiply round trips.
var Analyzer = &analysis.Analyzer{
	Name:     "loopfetch",
	Doc:      "detects API calls inside loops that multiply round trips",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// fetchMethods are method names that can hit the remote API. Getters on
// lookup-table entities stay off the list; those read a collection that
// loads once.
var fetchMethods = map[string]bool{
	// Dispatcher
	"Call":    true,
	"KeyInfo": true,
	// lazy entity resolution
	"Field": true,
	// per-call session reads
	"AccountStatus":   true,
	"SkillQueue":      true,
	"SkillInTraining": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			methodName := sel.Sel.Name
			if fetchMethods[methodName] {
				pass.Reportf(call.Pos(),
					"potential N+1: %s called inside loop - consider preloading or batching",
					methodName)
			}

			return true
		})
	})

	return nil, nil
}
