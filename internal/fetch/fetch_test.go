package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwbennett/prebuild/internal/manifest"
	"github.com/mwbennett/prebuild/internal/run"
)

// call records one external command invocation.
type call struct {
	dir  string
	name string
	args []string
}

func (c call) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// recordingRunner records every invocation and can be told to fail a
// specific command, optionally creating the clone directory on success the
// way git would.
type recordingRunner struct {
	calls      []call
	failOn     func(c call) bool
	exitCode   int
	makeClones bool
}

func (r *recordingRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	c := call{dir: dir, name: name, args: args}
	r.calls = append(r.calls, c)
	if r.failOn != nil && r.failOn(c) {
		return &run.ExitError{Name: name, Args: args, Dir: dir, Code: r.exitCode}
	}
	if r.makeClones && len(args) > 0 && args[0] == "clone" {
		if err := os.MkdirAll(args[2], 0755); err != nil {
			return err
		}
	}
	return nil
}

// entryCalls returns the recorded calls minus the leading version probe.
func (r *recordingRunner) entryCalls() []call {
	var out []call
	for _, c := range r.calls {
		if len(c.args) > 0 && c.args[0] == "--version" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func singleEntryManifest(path string) *manifest.Manifest {
	return &manifest.Manifest{
		Version: 2,
		Entries: []manifest.Entry{
			{Source: "https://example.com/repoA", Path: path, Revision: "v1.0", Required: true},
		},
	}
}

func TestSyncCloneSequence(t *testing.T) {
	root := t.TempDir()
	r := &recordingRunner{makeClones: true}
	eng := &Engine{Runner: r, Root: root}

	result, err := eng.Sync(context.Background(), singleEntryManifest("dep_a"), Options{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	depDir := filepath.Join(root, "dep_a")
	want := []call{
		{dir: root, name: "git", args: []string{"clone", "https://example.com/repoA", depDir}},
		{dir: depDir, name: "git", args: []string{"checkout", "v1.0"}},
		{dir: depDir, name: "git", args: []string{"pull", "--ff-only", "https://example.com/repoA", "v1.0"}},
	}
	got := r.entryCalls()
	if len(got) != len(want) {
		t.Fatalf("got %d calls, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].String() != want[i].String() || got[i].dir != want[i].dir {
			t.Errorf("call %d = %v in %s, want %v in %s", i, got[i], got[i].dir, want[i], want[i].dir)
		}
	}

	if len(result.Actions) != 1 || result.Actions[0].Status != StatusCloned {
		t.Errorf("actions = %+v, want single %q", result.Actions, StatusCloned)
	}
}

func TestSyncExistingNoUpdate(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dep_a"), 0755); err != nil {
		t.Fatal(err)
	}

	r := &recordingRunner{}
	eng := &Engine{Runner: r, Root: root}

	result, err := eng.Sync(context.Background(), singleEntryManifest("dep_a"), Options{Update: false})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if calls := r.entryCalls(); len(calls) != 0 {
		t.Errorf("expected zero commands for an existing copy without --update, got %v", calls)
	}
	if len(result.Actions) != 1 || result.Actions[0].Status != StatusFound {
		t.Errorf("actions = %+v, want single %q", result.Actions, StatusFound)
	}
}

func TestSyncExistingWithUpdate(t *testing.T) {
	root := t.TempDir()
	depDir := filepath.Join(root, "dep_a")
	if err := os.MkdirAll(depDir, 0755); err != nil {
		t.Fatal(err)
	}

	r := &recordingRunner{}
	eng := &Engine{Runner: r, Root: root}

	result, err := eng.Sync(context.Background(), singleEntryManifest("dep_a"), Options{Update: true})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	got := r.entryCalls()
	wantArgs := [][]string{
		{"fetch", "--tags"},
		{"checkout", "v1.0"},
		{"pull", "--ff-only", "https://example.com/repoA", "v1.0"},
	}
	if len(got) != len(wantArgs) {
		t.Fatalf("got %d calls, want %d: %v", len(got), len(wantArgs), got)
	}
	for i, c := range got {
		if c.dir != depDir {
			t.Errorf("call %d ran in %s, want %s", i, c.dir, depDir)
		}
		if strings.Join(c.args, " ") != strings.Join(wantArgs[i], " ") {
			t.Errorf("call %d = %v, want %v", i, c.args, wantArgs[i])
		}
	}
	if result.Actions[0].Status != StatusUpdated {
		t.Errorf("status = %q, want %q", result.Actions[0].Status, StatusUpdated)
	}
}

// Two identical passes: the second must fetch and re-checkout, never clone.
func TestSyncIdempotent(t *testing.T) {
	root := t.TempDir()
	r := &recordingRunner{makeClones: true}
	eng := &Engine{Runner: r, Root: root}
	m := singleEntryManifest("dep_a")

	if _, err := eng.Sync(context.Background(), m, Options{Update: true}); err != nil {
		t.Fatalf("first Sync: %v", err)
	}

	r.calls = nil
	result, err := eng.Sync(context.Background(), m, Options{Update: true})
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	for _, c := range r.entryCalls() {
		if c.args[0] == "clone" {
			t.Errorf("second pass cloned again: %v", c)
		}
	}
	if result.Actions[0].Status != StatusUpdated {
		t.Errorf("second pass status = %q, want %q", result.Actions[0].Status, StatusUpdated)
	}
}

func TestSyncFailFast(t *testing.T) {
	root := t.TempDir()
	m := &manifest.Manifest{
		Version: 2,
		Entries: []manifest.Entry{
			{Source: "https://example.com/one", Path: "dep_one", Revision: "v1.0", Required: true},
			{Source: "https://example.com/two", Path: "dep_two", Revision: "v2.0", Required: true},
			{Source: "https://example.com/three", Path: "dep_three", Revision: "v3.0", Required: true},
		},
	}

	r := &recordingRunner{
		makeClones: true,
		exitCode:   128,
		failOn: func(c call) bool {
			return c.args[0] == "checkout" && c.args[1] == "v2.0"
		},
	}
	eng := &Engine{Runner: r, Root: root}

	result, err := eng.Sync(context.Background(), m, Options{})
	if err == nil {
		t.Fatal("expected an error")
	}

	var ce *CheckoutError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T (%v), want *CheckoutError", err, err)
	}
	if ce.Source != "https://example.com/two" || ce.ExitCode != 128 {
		t.Errorf("CheckoutError = %+v, want source two with exit code 128", ce)
	}

	for _, c := range r.calls {
		for _, arg := range c.args {
			if strings.Contains(arg, "three") {
				t.Errorf("entry after the failure was attempted: %v", c)
			}
		}
	}
	if len(result.Actions) != 1 {
		t.Errorf("result covers %d entries, want only the one completed before the failure", len(result.Actions))
	}
}

func TestSyncOptionalEntries(t *testing.T) {
	root := t.TempDir()
	m := &manifest.Manifest{
		Version: 2,
		Entries: []manifest.Entry{
			{Source: "https://example.com/public", Path: "dep_pub", Revision: "v1.0", Required: true},
			{Source: "https://example.com/extra", Path: "dep_extra", Revision: "v1.0", Required: false},
		},
	}

	r := &recordingRunner{makeClones: true}
	eng := &Engine{Runner: r, Root: root}

	result, err := eng.Sync(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Actions[1].Status != StatusSkipped {
		t.Errorf("optional entry status = %q, want %q", result.Actions[1].Status, StatusSkipped)
	}
	for _, c := range r.calls {
		for _, arg := range c.args {
			if strings.Contains(arg, "extra") {
				t.Errorf("optional entry touched in default run: %v", c)
			}
		}
	}

	r.calls = nil
	result, err = eng.Sync(context.Background(), m, Options{Internal: true})
	if err != nil {
		t.Fatalf("Sync --internal: %v", err)
	}
	if result.Actions[1].Status != StatusCloned {
		t.Errorf("optional entry status with --internal = %q, want %q", result.Actions[1].Status, StatusCloned)
	}
}

func TestSyncGitMissing(t *testing.T) {
	r := &recordingRunner{
		exitCode: -1,
		failOn:   func(c call) bool { return c.args[0] == "--version" },
	}
	eng := &Engine{Runner: r, Root: t.TempDir()}

	_, err := eng.Sync(context.Background(), singleEntryManifest("dep_a"), Options{})
	if err == nil {
		t.Fatal("expected an error when git is unavailable")
	}
	if len(r.calls) != 1 {
		t.Errorf("no dependency should be processed when git is unavailable, got %v", r.calls)
	}
}

func TestCloneErrorCarriesExitCode(t *testing.T) {
	r := &recordingRunner{
		exitCode: 128,
		failOn:   func(c call) bool { return c.args[0] == "clone" },
	}
	eng := &Engine{Runner: r, Root: t.TempDir()}

	_, err := eng.Sync(context.Background(), singleEntryManifest("dep_a"), Options{})

	var ce *CloneError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T (%v), want *CloneError", err, err)
	}
	if ce.Source != "https://example.com/repoA" || ce.ExitCode != 128 {
		t.Errorf("CloneError = %+v, want repoA with exit code 128", ce)
	}
	if run.ExitCode(err) != 128 {
		t.Errorf("run.ExitCode = %d, want 128 through the wrapped chain", run.ExitCode(err))
	}
}
