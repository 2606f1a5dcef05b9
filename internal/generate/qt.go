package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultQtRoot returns the conventional Qt install root for a platform.
func DefaultQtRoot(goos string) string {
	if goos == "windows" {
		return `C:\Qt`
	}
	return "~/Qt"
}

// QtNotFoundError reports that no Qt install was found, listing every
// location probed.
type QtNotFoundError struct {
	Checked []string
}

func (e *QtNotFoundError) Error() string {
	return fmt.Sprintf("unable to find Qt root dir, use --qt-root to specify\n    locations checked:\n      %s",
		strings.Join(e.Checked, "\n      "))
}

// locateQt probes conventional locations under root for a Qt install of the
// given version and returns the version directory. Installers lay the tree
// out either as <root>/Qt<ver>/<ver> or <root>/<ver>; when the root is the
// platform default (the user gave no --qt-root) the parent directory is
// probed the same two ways, which finds the default Linux install without
// any flags.
func locateQt(root, version string, rootIsDefault bool, exists func(string) bool) (string, error) {
	root = expandHome(root)

	candidates := []string{
		filepath.Join(root, "Qt"+version, version),
		filepath.Join(root, version),
	}
	if rootIsDefault {
		parent := filepath.Join(root, "..")
		candidates = append(candidates,
			filepath.Join(parent, "Qt"+version, version),
			filepath.Join(parent, version),
		)
	}

	var checked []string
	for _, c := range candidates {
		c = filepath.Clean(c)
		if exists(c) {
			return c, nil
		}
		checked = append(checked, c)
	}
	return "", &QtNotFoundError{Checked: checked}
}

// qtLeaf returns the compiler-specific subdirectory of a Qt version dir.
func qtLeaf(goos, toolchain string) string {
	switch goos {
	case "windows":
		return "msvc" + toolchain + "_64"
	case "darwin":
		return "clang_64"
	default:
		return "gcc_64"
	}
}

// expandHome resolves a leading ~ against the current user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
