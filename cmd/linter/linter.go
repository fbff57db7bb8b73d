// Команда linter содержит анализатор regcheck, который следит за тем,
// чтобы регистрация Prometheus-инструментов выполнялась только внутри
// пакета metrics. Сервис использует один явно созданный реестр,
// и регистрация из произвольных пакетов нарушает этот контракт.
package main

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
)

var Analyzer = &analysis.Analyzer{
	Name: "regcheck",
	Doc:  "проверяет, что регистрация Prometheus-инструментов выполняется только в пакете metrics",
	Run:  run,
}

// metricsPkg — единственный пакет, которому разрешена регистрация инструментов.
const metricsPkg = "metrics"

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() == metricsPkg {
		return nil, nil
	}

	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if isRegisterCall(sel) {
				pass.Reportf(call.Pos(),
					"регистрация Prometheus-инструмента (%s) вне пакета %s",
					sel.Sel.Name, metricsPkg)
			}

			if usesPromauto(sel) {
				pass.Reportf(call.Pos(),
					"использование promauto вне пакета %s", metricsPkg)
			}

			return true
		})
	}

	return nil, nil
}

// isRegisterCall распознаёт вызовы Register/MustRegister на значении
// пакета prometheus или на реестре.
func isRegisterCall(sel *ast.SelectorExpr) bool {
	if sel.Sel.Name != "Register" && sel.Sel.Name != "MustRegister" {
		return false
	}

	switch x := sel.X.(type) {
	case *ast.Ident:
		return x.Name == "prometheus" || x.Name == "registry" || x.Name == "reg"
	case *ast.SelectorExpr:
		return x.Sel.Name == "registry"
	}

	return false
}

// usesPromauto распознаёт вызовы фабрик пакета promauto.
func usesPromauto(sel *ast.SelectorExpr) bool {
	x, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	return x.Name == "promauto"
}

func main() {
	singlechecker.Main(Analyzer)
}
