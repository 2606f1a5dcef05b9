package manifest

import (
	"regexp"

	"golang.org/x/mod/semver"
)

// Manifest is the immutable table of external source dependencies. It is
// loaded once at process start and never mutated afterwards; entry order is
// significant (dependencies are synchronized in manifest order).
type Manifest struct {
	Version int
	Entries []Entry
}

// Entry is one row of the manifest: a remote repository pinned to an exact
// revision, materialized at a path relative to the manifest's directory.
type Entry struct {
	// Source is the remote repository URL. Unique across the manifest.
	Source string

	// Path is where the working copy lives, relative to the manifest's
	// directory. Unique across the manifest. May climb out of the
	// directory ("../external/foo" is a normal layout).
	Path string

	// Revision is the pinned tag or commit hash, treated as opaque.
	Revision string

	// Required marks entries fetched in a default run. Optional entries
	// are only fetched for internal builds. A missing field in the
	// manifest file means required.
	Required bool
}

// RevisionKind classifies a pinned revision for display purposes.
type RevisionKind string

const (
	KindTag    RevisionKind = "tag"
	KindCommit RevisionKind = "commit"
	KindRef    RevisionKind = "ref"
)

var commitHashRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// RevisionKind reports whether the entry's pin looks like a version tag,
// a full commit hash, or some other ref. Purely cosmetic: the synchronizer
// passes the revision to git unmodified either way.
func (e Entry) RevisionKind() RevisionKind {
	if commitHashRe.MatchString(e.Revision) {
		return KindCommit
	}
	if semver.IsValid(e.Revision) {
		return KindTag
	}
	return KindRef
}
