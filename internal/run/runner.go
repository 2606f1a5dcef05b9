// Package run wraps external tool invocations behind a narrow interface so
// that callers can be tested with a recording stub instead of real processes.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes an external command in a working directory and reports
// only whether it succeeded. All structured detail the external tools emit
// goes to the process streams; the exit code is the sole machine-readable
// signal.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExitError reports a command that started but exited non-zero.
type ExitError struct {
	Name string
	Args []string
	Dir  string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s %s: exit status %d", e.Name, strings.Join(e.Args, " "), e.Code)
}

// ExitCode extracts the exit code from a Runner error. Returns -1 when the
// error carries no exit code (command not found, context canceled).
func ExitCode(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return -1
}

// ExecRunner runs commands with os/exec, streaming their output.
type ExecRunner struct {
	// Stdout and Stderr receive the command's output. Nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	// Never hang on a credential prompt; a repo that needs interactive
	// auth should fail loudly instead.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var xe *exec.ExitError
	if errors.As(err, &xe) {
		return &ExitError{Name: name, Args: args, Dir: dir, Code: xe.ExitCode()}
	}
	return fmt.Errorf("running %s: %w", name, err)
}
