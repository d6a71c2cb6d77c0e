// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
)

// ManifestName is the application descriptor filename embedview looks for.
const ManifestName = "app.yml"

// ResolveManifest resolves the application manifest path from user input.
// It accepts either a project directory or a direct path to the manifest:
//
//   - "/path/to/project"          -> "/path/to/project/app.yml"
//   - "/path/to/project/app.yml"  -> "/path/to/project/app.yml"
//   - ""                          -> "./app.yml"
//
// The returned path is cleaned but not guaranteed to exist; callers decide
// how to report a missing manifest.
func ResolveManifest(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	// If path already names the manifest file, use it directly
	if filepath.Base(path) == ManifestName {
		return path
	}

	// If path is an existing file (a renamed manifest), trust the caller
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}

	return filepath.Join(path, ManifestName)
}

// AppDir returns the directory containing the manifest. Relative template
// and screen filenames in the manifest resolve against this directory.
func AppDir(manifestPath string) string {
	return filepath.Dir(filepath.Clean(manifestPath))
}
