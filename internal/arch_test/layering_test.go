package arch_test

import (
	"path/filepath"
	"testing"
)

// layers assigns each internal package to a numeric layer. A package at
// layer N may only import packages at layer N or below, which keeps the
// scoring core free of I/O and presentation concerns.
var layers = map[string]int{
	"logging": 0,
	"task":    0,
	"watch":   0,

	"dag":      1,
	"quadrant": 1,
	"ui":       1,

	"priority": 2,

	"engine": 3,

	"batchfile": 4,
	"config":    4,
	"report":    4,
	"server":    4,
}

// TestDependencyLayering verifies that no internal package imports a
// package from a higher layer.
func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		importerLayer, ok := layers[pkg]
		if !ok {
			continue
		}
		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			importedLayer, ok := layers[imp]
			if !ok || importerLayer >= importedLayer {
				continue
			}
			t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)",
				pkg, importerLayer, imp, importedLayer)
		}
	}
}

// TestScoringCoreIsPure keeps file, network, and logging imports out of the
// packages that compute scores.
func TestScoringCoreIsPure(t *testing.T) {
	t.Parallel()

	forbidden := map[string]bool{"batchfile": true, "server": true, "watch": true, "report": true, "ui": true}
	for _, pkg := range []string{"task", "dag", "priority", "quadrant"} {
		for _, imp := range importsOf(t, filepath.Join(internalDirPath(t), pkg)) {
			if forbidden[imp] {
				t.Errorf("%s imports %s", pkg, imp)
			}
		}
	}
}

// TestNoUnknownPackages forces new packages to be placed in the layer map.
func TestNoUnknownPackages(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		if _, ok := layers[pkg]; !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", pkg)
		}
	}
}
