package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwbennett/prebuild/internal/run"
)

// vsDevPath holds the VsDevCmd.bat environment script that must run before
// msbuild so the toolchain environment propagates into the build.
const vsDevPath = `C:\Program Files (x86)\Microsoft Visual Studio\2017\Professional\Common7\Tools`

// BuildError reports a compiled build that exited non-zero.
type BuildError struct {
	Config   string
	ExitCode int
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s build failed with exit code %d", e.Config, e.ExitCode)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Build compiles every configuration from the generated build files. On
// Windows it drives msbuild against the generated solution; elsewhere it
// runs make against each configuration's directory.
func (e *Engine) Build(ctx context.Context, p Params) error {
	if e.goos() == "windows" {
		return e.buildWindows(ctx, p)
	}
	return e.buildMake(ctx, p)
}

func (e *Engine) buildMake(ctx context.Context, p Params) error {
	suffix := internalSuffix(p.Internal)
	for _, config := range configs {
		makeDir := filepath.Join(e.CMakeOutputDir(p), config+suffix)
		args := []string{fmt.Sprintf("-j%d", p.Jobs), "-C", makeDir}
		if err := e.Runner.Run(ctx, "", "make", args...); err != nil {
			return &BuildError{Config: config, ExitCode: run.ExitCode(err), Err: err}
		}
	}
	return nil
}

func (e *Engine) buildWindows(ctx context.Context, p Params) error {
	cmakeOut := e.CMakeOutputDir(p)
	solution, err := findSolution(cmakeOut)
	if err != nil {
		return err
	}

	for _, config := range configs {
		// VsDevCmd.bat and msbuild run in one shell so the environment
		// the former sets up reaches the latter.
		script := fmt.Sprintf(`cd /d "%s" & VsDevCmd.bat & msbuild /nodeReuse:false /m:%d /t:Build /p:Configuration=%s /verbosity:minimal "%s"`,
			vsDevPath, p.Jobs, config, solution)
		if err := e.Runner.Run(ctx, "", "cmd", "/c", script); err != nil {
			return &BuildError{Config: config, ExitCode: run.ExitCode(err), Err: err}
		}
	}
	return nil
}

// findSolution returns the single Visual Studio solution file in dir.
func findSolution(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sln") {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", &ConfigurationError{Reason: "unable to find solution file in location: " + dir}
}
