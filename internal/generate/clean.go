package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Clean outcomes.
const (
	StatusRemoved = "removed"
	StatusMissing = "doesn't exist"
)

// CleanAction records the removal of one generated directory.
type CleanAction struct {
	Path   string
	Status string
}

// Clean deletes the CMake output directory and the per-configuration build
// output directories for a pass. Directories that never existed are reported
// rather than treated as errors, so a clean of a clean tree succeeds.
func (e *Engine) Clean(p Params) ([]CleanAction, error) {
	suffix := internalSuffix(p.Internal)
	outputRoot := e.OutputRoot(p)

	targets := []string{e.CMakeOutputDir(p)}
	for _, config := range configs {
		targets = append(targets, filepath.Join(outputRoot, config+suffix))
	}

	var actions []CleanAction
	for _, dir := range targets {
		if _, err := os.Stat(dir); err != nil {
			actions = append(actions, CleanAction{Path: dir, Status: StatusMissing})
			continue
		}

		// A symlinked directory could point anywhere; only ever delete
		// trees that really live under the output root.
		if err := ensureWithin(outputRoot, dir); err != nil {
			return actions, err
		}
		if err := os.RemoveAll(dir); err != nil {
			return actions, fmt.Errorf("failed to delete directory %s: %w", dir, err)
		}
		actions = append(actions, CleanAction{Path: dir, Status: StatusRemoved})
	}
	return actions, nil
}

// ensureWithin verifies that target, with symlinks resolved, is inside root.
func ensureWithin(root, target string) error {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("resolving output root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", target, err)
	}

	prefix := realRoot + string(filepath.Separator)
	if resolved != realRoot && !strings.HasPrefix(resolved, prefix) {
		return fmt.Errorf("refusing to delete %s: resolves to %s outside the output root %s", target, resolved, realRoot)
	}
	return nil
}
