package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwbennett/prebuild/internal/fetch"
	"github.com/mwbennett/prebuild/internal/generate"
	"github.com/mwbennett/prebuild/internal/manifest"
	"github.com/mwbennett/prebuild/internal/run"
)

// loadManifest reads and validates the dependency manifest.
func loadManifest() (*manifest.Manifest, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// manifestRoot returns the directory containing the manifest file; all
// dependency paths resolve against it.
func manifestRoot() (string, error) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return "", fmt.Errorf("resolving manifest path: %w", err)
	}
	return filepath.Dir(abs), nil
}

// newRunner creates the process runner used for all external tools.
func newRunner() run.Runner {
	return &run.ExecRunner{}
}

// newFetchEngine creates a dependency synchronizer rooted at the manifest's
// directory.
func newFetchEngine(root string) *fetch.Engine {
	return &fetch.Engine{Runner: newRunner(), Root: root}
}

// newGenerateEngine creates a build-file generation engine. The project
// source tree is assumed to sit one level above the manifest's directory
// unless overridden.
func newGenerateEngine(root, source string) *generate.Engine {
	if source == "" {
		source = filepath.Join(root, "..")
	}
	return &generate.Engine{Runner: newRunner(), Source: source, Root: root}
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
