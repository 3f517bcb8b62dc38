package utils

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/funvibe/typeinfer/internal/config"
)

// HasScenarioExt reports whether path ends in a recognized scenario
// extension. The comparison ignores case.
func HasScenarioExt(path string) bool {
	return slices.Contains(config.ScenarioFileExtensions, strings.ToLower(filepath.Ext(path)))
}

// ScenarioName derives a scenario name from a file path.
// It takes the base filename and removes any recognized scenario extension.
func ScenarioName(path string) string {
	name := filepath.Base(path)
	if HasScenarioExt(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// ResolvePath resolves path relative to baseDir when it is not absolute.
// An empty or "." base leaves the path unchanged.
func ResolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" || baseDir == "." {
		return path
	}
	return filepath.Join(baseDir, path)
}
