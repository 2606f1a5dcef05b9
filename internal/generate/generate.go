// Package generate drives the build-file generation step: it lays out the
// platform-specific output tree, locates the Qt install, selects a CMake
// generator and runs CMake once per build configuration.
package generate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/mwbennett/prebuild/internal/run"
)

// The build configurations generated for every platform.
var configs = []string{"debug", "release"}

// Engine invokes CMake (and later the compiled build) for a project.
type Engine struct {
	Runner run.Runner

	// Source is the directory containing the project's top-level
	// CMakeLists.txt.
	Source string

	// Root is the directory output trees are created under by default.
	Root string

	// GOOS overrides runtime.GOOS, for tests.
	GOOS string

	// LookPath overrides exec.LookPath, for tests.
	LookPath func(string) (string, error)
}

// Params configures a generation pass.
type Params struct {
	OutputRoot string // defaults to <Root>/<platform dir>
	Internal   bool
	Headless   bool

	QtRoot    string // Qt install root; empty means the platform default
	QtVersion string
	VS        string // Visual Studio version, "2017" or "2019"
	Toolchain string // compiler toolchain, "2017" or "2019"
	Xcode     bool   // generate an Xcode project instead of makefiles
	NoBundle  bool   // macOS: plain executable instead of an app bundle
	Defines   []string
	Jobs      int
}

// ConfigurationError reports unusable input or a missing external tool.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// GenerateError reports a CMake run that exited non-zero.
type GenerateError struct {
	Config   string
	ExitCode int
	Err      error
}

func (e *GenerateError) Error() string {
	if e.Config == "" {
		return fmt.Sprintf("cmake failed with exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("cmake failed for configuration %s with exit code %d", e.Config, e.ExitCode)
}

func (e *GenerateError) Unwrap() error { return e.Err }

func (e *Engine) goos() string {
	if e.GOOS != "" {
		return e.GOOS
	}
	return runtime.GOOS
}

func (e *Engine) lookPath(name string) (string, error) {
	if e.LookPath != nil {
		return e.LookPath(name)
	}
	return exec.LookPath(name)
}

// PlatformDir returns the output subdirectory name for the current platform.
func (e *Engine) PlatformDir() string {
	switch e.goos() {
	case "windows":
		return "win"
	case "darwin":
		return "mac"
	default:
		return "linux"
	}
}

// OutputRoot resolves the effective output root for a pass.
func (e *Engine) OutputRoot(p Params) string {
	if p.OutputRoot != "" {
		return p.OutputRoot
	}
	return filepath.Join(e.Root, e.PlatformDir())
}

// internalSuffix is appended to directory names for internal builds.
func internalSuffix(internal bool) string {
	if internal {
		return "-Internal"
	}
	return ""
}

// CMakeOutputDir returns the directory CMake-generated files land in.
func (e *Engine) CMakeOutputDir(p Params) string {
	if e.goos() == "windows" {
		return filepath.Join(e.OutputRoot(p), "vs"+p.Toolchain+internalSuffix(p.Internal))
	}
	return filepath.Join(e.OutputRoot(p), "make")
}

// Generator returns the CMake generator name for the platform and params.
func (e *Engine) Generator(p Params) string {
	switch e.goos() {
	case "windows":
		if p.VS == "2019" {
			return "Visual Studio 16 2019"
		}
		return "Visual Studio 15 2017 Win64"
	case "darwin":
		if p.Xcode {
			return "Xcode"
		}
		return "Unix Makefiles"
	default:
		return "Unix Makefiles"
	}
}

// QtPath locates the compiler-specific Qt directory for a pass.
func (e *Engine) QtPath(p Params) (string, error) {
	root := p.QtRoot
	rootIsDefault := root == "" || root == DefaultQtRoot(e.goos())
	if root == "" {
		root = DefaultQtRoot(e.goos())
	}

	versionDir, err := locateQt(root, p.QtVersion, rootIsDefault, dirExists)
	if err != nil {
		return "", err
	}

	leaf := filepath.Join(versionDir, qtLeaf(e.goos(), p.Toolchain))
	if !dirExists(leaf) {
		return "", &ConfigurationError{Reason: "Qt path does not exist - " + leaf}
	}
	return leaf, nil
}

// Generate creates the output directory tree and runs CMake for every build
// configuration. On Windows a single pass generates a solution covering all
// configurations; elsewhere CMake runs once per configuration with the
// matching CMAKE_BUILD_TYPE.
func (e *Engine) Generate(ctx context.Context, p Params) error {
	if _, err := e.lookPath("cmake"); err != nil {
		return &ConfigurationError{Reason: "cmake not found"}
	}

	qtPath := ""
	if !p.Headless {
		var err error
		qtPath, err = e.QtPath(p)
		if err != nil {
			return err
		}
	}

	cmakeOut := e.CMakeOutputDir(p)
	if err := os.MkdirAll(cmakeOut, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", cmakeOut, err)
	}

	if e.goos() == "windows" {
		return e.generateConfig(ctx, p, qtPath, "")
	}
	for _, config := range configs {
		if err := e.generateConfig(ctx, p, qtPath, config); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) generateConfig(ctx context.Context, p Params, qtPath, config string) error {
	suffix := internalSuffix(p.Internal)
	cmakeDir := e.CMakeOutputDir(p)
	if config != "" {
		cmakeDir = filepath.Join(cmakeDir, config+suffix)
		if err := os.MkdirAll(cmakeDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", cmakeDir, err)
		}
	}

	args, err := e.cmakeArgs(p, qtPath, config)
	if err != nil {
		return err
	}

	if err := e.Runner.Run(ctx, cmakeDir, "cmake", args...); err != nil {
		return &GenerateError{Config: config, ExitCode: run.ExitCode(err), Err: err}
	}
	return nil
}

// cmakeArgs assembles the argument list for one CMake invocation.
func (e *Engine) cmakeArgs(p Params, qtPath, config string) ([]string, error) {
	suffix := internalSuffix(p.Internal)
	outputRoot := e.OutputRoot(p)
	releaseDir := filepath.Join(outputRoot, "release"+suffix)
	debugDir := filepath.Join(outputRoot, "debug"+suffix)

	var args []string
	if p.Headless {
		args = []string{e.Source, "-DHEADLESS=TRUE"}
	} else {
		args = []string{e.Source, "-DCMAKE_PREFIX_PATH=" + qtPath, "-G", e.Generator(p)}
	}

	if e.goos() == "windows" && p.VS == "2019" {
		args = append(args, "-Ax64")
		if p.Toolchain == "2017" {
			args = append(args, "-Tv141")
		}
	}

	if p.Internal {
		args = append(args, "-DINTERNAL_BUILD:BOOL=TRUE")
	}

	for _, d := range p.Defines {
		args = append(args, "-D"+d)
	}

	args = append(args,
		"-DCMAKE_RUNTIME_OUTPUT_DIRECTORY_RELEASE="+releaseDir,
		"-DCMAKE_LIBRARY_OUTPUT_DIRECTORY_RELEASE="+releaseDir,
		"-DCMAKE_RUNTIME_OUTPUT_DIRECTORY_DEBUG="+debugDir,
		"-DCMAKE_LIBRARY_OUTPUT_DIRECTORY_DEBUG="+debugDir,
	)

	if e.goos() != "windows" {
		switch config {
		case "release":
			args = append(args, "-DCMAKE_BUILD_TYPE=Release")
		case "debug":
			args = append(args, "-DCMAKE_BUILD_TYPE=Debug")
		default:
			return nil, &ConfigurationError{Reason: "unknown configuration: " + config}
		}
	}

	if e.goos() == "darwin" {
		if p.NoBundle {
			args = append(args, "-DNO_APP_BUNDLE=TRUE")
		} else {
			args = append(args, "-DNO_APP_BUNDLE=FALSE")
		}
	}

	return args, nil
}
