package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanRemovesGeneratedDirs(t *testing.T) {
	root := t.TempDir()
	outputRoot := filepath.Join(root, "linux")
	for _, d := range []string{
		filepath.Join(outputRoot, "make"),
		filepath.Join(outputRoot, "debug"),
		filepath.Join(outputRoot, "release"),
	} {
		if err := os.MkdirAll(filepath.Join(d, "inner"), 0755); err != nil {
			t.Fatal(err)
		}
	}

	e := &Engine{Root: root, GOOS: "linux"}
	actions, err := e.Clean(Params{})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	if len(actions) != 3 {
		t.Fatalf("got %d actions, want 3: %+v", len(actions), actions)
	}
	for _, a := range actions {
		if a.Status != StatusRemoved {
			t.Errorf("%s status = %q, want %q", a.Path, a.Status, StatusRemoved)
		}
		if _, statErr := os.Stat(a.Path); !os.IsNotExist(statErr) {
			t.Errorf("%s still exists after clean", a.Path)
		}
	}
}

func TestCleanMissingDirsReported(t *testing.T) {
	e := &Engine{Root: t.TempDir(), GOOS: "linux"}
	actions, err := e.Clean(Params{})
	if err != nil {
		t.Fatalf("Clean of a clean tree must succeed: %v", err)
	}
	for _, a := range actions {
		if a.Status != StatusMissing {
			t.Errorf("%s status = %q, want %q", a.Path, a.Status, StatusMissing)
		}
	}
}

func TestCleanInternalSuffix(t *testing.T) {
	root := t.TempDir()
	outputRoot := filepath.Join(root, "linux")
	plain := filepath.Join(outputRoot, "release")
	internal := filepath.Join(outputRoot, "release-Internal")
	for _, d := range []string{plain, internal} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	e := &Engine{Root: root, GOOS: "linux"}
	if _, err := e.Clean(Params{Internal: true}); err != nil {
		t.Fatalf("Clean: %v", err)
	}

	if _, err := os.Stat(internal); !os.IsNotExist(err) {
		t.Error("internal config dir survived an internal clean")
	}
	if _, err := os.Stat(plain); err != nil {
		t.Error("non-internal config dir was removed by an internal clean")
	}
}

func TestCleanRefusesSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	outputRoot := filepath.Join(root, "linux")
	if err := os.MkdirAll(outputRoot, 0755); err != nil {
		t.Fatal(err)
	}
	// "make" points at a directory outside the output root.
	if err := os.Symlink(outside, filepath.Join(outputRoot, "make")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	e := &Engine{Root: root, GOOS: "linux"}
	_, err := e.Clean(Params{})
	if err == nil || !strings.Contains(err.Error(), "refusing to delete") {
		t.Fatalf("err = %v, want a refusal to delete outside the output root", err)
	}
	if _, statErr := os.Stat(outside); statErr != nil {
		t.Error("directory outside the output root was deleted")
	}
}
