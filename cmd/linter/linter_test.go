package main

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer(t *testing.T) {
	testdata := t.TempDir()

	// Создаём структуру testdata/src/a
	pkgDir := filepath.Join(testdata, "src", "a")
	err := os.MkdirAll(pkgDir, 0755)
	if err != nil {
		t.Fatal(err)
	}

	badGoCode := `package a

type registerer struct{}

func (registerer) MustRegister(cs ...interface{})  {}
func (registerer) Register(c interface{}) error    { return nil }
func (registerer) NewCounter(name string) struct{} { return struct{}{} }

var prometheus registerer
var registry registerer
var promauto registerer

func BadFunc1() {
	prometheus.MustRegister(nil) // want "регистрация Prometheus-инструмента"
}

func BadFunc2() {
	_ = registry.Register(nil) // want "регистрация Prometheus-инструмента"
}

func BadFunc3() {
	_ = promauto.NewCounter("x") // want "использование promauto"
}

func GoodFunc() {
	var other registerer
	_ = other.NewCounter("x")
}
`

	err = os.WriteFile(filepath.Join(pkgDir, "a.go"), []byte(badGoCode), 0644)
	if err != nil {
		t.Fatal(err)
	}

	analysistest.Run(t, testdata, Analyzer, "a")
}

func TestAnalyzerAllowsMetricsPackage(t *testing.T) {
	testdata := t.TempDir()

	pkgDir := filepath.Join(testdata, "src", "metrics")
	err := os.MkdirAll(pkgDir, 0755)
	if err != nil {
		t.Fatal(err)
	}

	goodGoCode := `package metrics

type registerer struct{}

func (registerer) MustRegister(cs ...interface{}) {}

var prometheus registerer

func Register() {
	prometheus.MustRegister(nil)
}
`

	err = os.WriteFile(filepath.Join(pkgDir, "metrics.go"), []byte(goodGoCode), 0644)
	if err != nil {
		t.Fatal(err)
	}

	analysistest.Run(t, testdata, Analyzer, "metrics")
}
