package manifest

import "testing"

func TestRevisionKind(t *testing.T) {
	tests := []struct {
		revision string
		want     RevisionKind
	}{
		{"v3.8.0", KindTag},
		{"v2.0.1", KindTag},
		{"v1.1.2", KindTag},
		{"88a338a01949f8d8bad60a30b78b65300fd13a9f", KindCommit},
		{"88a338a", KindRef},             // abbreviated hash, not provably a commit
		{"main", KindRef},
		{"release/5.x", KindRef},
		{"3.8.0", KindRef},               // no leading v, not a canonical tag
		{"88A338A01949F8D8BAD60A30B78B65300FD13A9F", KindRef}, // git hashes are lowercase
	}

	for _, tt := range tests {
		if got := (Entry{Revision: tt.revision}).RevisionKind(); got != tt.want {
			t.Errorf("RevisionKind(%q) = %q, want %q", tt.revision, got, tt.want)
		}
	}
}
