// Package fetch brings every dependency in the manifest to its pinned
// revision: clone when the working copy is missing, refresh and re-checkout
// when an update is requested, leave existing copies alone otherwise.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwbennett/prebuild/internal/manifest"
	"github.com/mwbennett/prebuild/internal/run"
)

// Engine synchronizes dependency working copies.
type Engine struct {
	Runner run.Runner

	// Root is the directory manifest paths are resolved against,
	// normally the directory containing the manifest file.
	Root string
}

// Options configures a synchronization pass.
type Options struct {
	// Update refreshes working copies that already exist. Without it an
	// existing copy is left untouched even if its revision differs from
	// the pin.
	Update bool

	// Internal also fetches dependencies not required for a default
	// build.
	Internal bool
}

// Per-entry outcomes.
const (
	StatusCloned  = "cloned"
	StatusUpdated = "updated"
	StatusFound   = "found, not updated"
	StatusSkipped = "skipped (internal only)"
)

// Action records what happened to one dependency.
type Action struct {
	Source string
	Path   string
	Status string
}

// Result holds the outcome of a synchronization pass.
type Result struct {
	Actions []Action
}

// Sync reconciles each manifest entry with its pinned revision, in manifest
// order. Processing is sequential and fail-fast: the first entry whose git
// step fails aborts the pass, and the partial Result covers only the entries
// handled before the failure. Git invocations can race on lock files, so
// entries are never processed concurrently.
func (e *Engine) Sync(ctx context.Context, m *manifest.Manifest, opts Options) (*Result, error) {
	// Record the git version in the log before touching anything.
	if err := e.Runner.Run(ctx, e.Root, "git", "--version"); err != nil {
		return nil, fmt.Errorf("git is not available: %w", err)
	}

	res := &Result{}
	for _, entry := range m.Entries {
		if !entry.Required && !opts.Internal {
			res.Actions = append(res.Actions, Action{Source: entry.Source, Path: entry.Path, Status: StatusSkipped})
			continue
		}

		action, err := e.syncEntry(ctx, entry, opts.Update)
		if err != nil {
			return res, err
		}
		res.Actions = append(res.Actions, action)
	}
	return res, nil
}

func (e *Engine) syncEntry(ctx context.Context, entry manifest.Entry, update bool) (Action, error) {
	dir := e.depDir(entry)
	action := Action{Source: entry.Source, Path: entry.Path}

	info, statErr := os.Stat(dir)
	exists := statErr == nil && info.IsDir()

	switch {
	case !exists:
		if err := e.Runner.Run(ctx, e.Root, "git", "clone", entry.Source, dir); err != nil {
			return action, &CloneError{Source: entry.Source, ExitCode: run.ExitCode(err), Err: err}
		}
		action.Status = StatusCloned

	case update:
		if err := e.Runner.Run(ctx, dir, "git", "fetch", "--tags"); err != nil {
			return action, &FetchError{Source: entry.Source, ExitCode: run.ExitCode(err), Err: err}
		}
		action.Status = StatusUpdated

	default:
		// Existing copy with no update requested: leave it exactly as
		// found, revision included.
		action.Status = StatusFound
		return action, nil
	}

	if err := e.Runner.Run(ctx, dir, "git", "checkout", entry.Revision); err != nil {
		return action, &CheckoutError{Source: entry.Source, Revision: entry.Revision, ExitCode: run.ExitCode(err), Err: err}
	}

	// A local branch may sit behind the pin after checkout; advance it if
	// and only if no merge is needed.
	if err := e.Runner.Run(ctx, dir, "git", "pull", "--ff-only", entry.Source, entry.Revision); err != nil {
		return action, &FastForwardError{Source: entry.Source, Revision: entry.Revision, ExitCode: run.ExitCode(err), Err: err}
	}

	return action, nil
}

// depDir resolves an entry's path against the engine root.
func (e *Engine) depDir(entry manifest.Entry) string {
	p := filepath.FromSlash(entry.Path)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(e.Root, p))
}
