// Package logsecret detects credential secrets passed to log calls.
package logsecret

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects the vCode secret reaching structured log calls.
var Analyzer = &analysis.Analyzer{
	Name:     "logsecret",
	Doc:      "detects the vCode credential secret passed to structured log calls",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// logMethods are the zap sugared structured-logging methods. The plain
// and printf variants are excluded; their names collide with fmt and
// the error interface.
var logMethods = map[string]bool{
	"Debugw":  true,
	"Infow":   true,
	"Warnw":   true,
	"Errorw":  true,
	"DPanicw": true,
	"Panicw":  true,
	"Fatalw":  true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return
		}

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}

		if !logMethods[sel.Sel.Name] {
			return
		}

		for _, arg := range call.Args {
			if pos, found := findSecret(arg); found {
				pass.Reportf(pos,
					"vCode passed to %s - credential secrets must never be logged",
					sel.Sel.Name)
			}
		}
	})

	return nil, nil
}

// findSecret walks an argument expression looking for a vCode reference,
// either as an identifier, a field selector, or a structured-log key.
func findSecret(expr ast.Expr) (pos token.Pos, found bool) {
	ast.Inspect(expr, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.Ident:
			if isSecretName(e.Name) {
				pos, found = e.Pos(), true
				return false
			}
		case *ast.SelectorExpr:
			if isSecretName(e.Sel.Name) {
				pos, found = e.Pos(), true
				return false
			}
		case *ast.BasicLit:
			if isSecretName(strings.Trim(e.Value, "`\"")) {
				pos, found = e.Pos(), true
				return false
			}
		}
		return !found
	})
	return pos, found
}

func isSecretName(name string) bool {
	switch strings.ToLower(name) {
	case "vcode", "v_code":
		return true
	}
	return false
}
