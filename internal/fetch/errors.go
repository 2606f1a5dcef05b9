package fetch

import "fmt"

// CloneError reports a failed initial clone of a dependency.
type CloneError struct {
	Source   string
	ExitCode int
	Err      error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("git clone of %s failed with exit code %d", e.Source, e.ExitCode)
}

func (e *CloneError) Unwrap() error { return e.Err }

// FetchError reports a failed ref/tag refresh of an existing working copy.
type FetchError struct {
	Source   string
	ExitCode int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("git fetch for %s failed with exit code %d", e.Source, e.ExitCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CheckoutError reports a failed checkout of the pinned revision.
type CheckoutError struct {
	Source   string
	Revision string
	ExitCode int
	Err      error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("git checkout of %s at %s failed with exit code %d", e.Source, e.Revision, e.ExitCode)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// FastForwardError reports a failed fast-forward-only pull after checkout.
type FastForwardError struct {
	Source   string
	Revision string
	ExitCode int
	Err      error
}

func (e *FastForwardError) Error() string {
	return fmt.Sprintf("git pull --ff-only for %s at %s failed with exit code %d", e.Source, e.Revision, e.ExitCode)
}

func (e *FastForwardError) Unwrap() error { return e.Err }
