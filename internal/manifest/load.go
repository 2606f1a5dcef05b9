package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the newest manifest format this tool understands.
// Version 1 files predate the per-entry required flag; the format is
// additive, so older files load unchanged with every entry required.
const CurrentVersion = 2

// rawEntry mirrors Entry for decoding. Required is a pointer so that an
// absent field can be told apart from an explicit false and defaulted to
// true, keeping version 1 manifests valid.
type rawEntry struct {
	Source   string `yaml:"source"`
	Path     string `yaml:"path"`
	Revision string `yaml:"revision"`
	Required *bool  `yaml:"required"`
}

type rawManifest struct {
	Version int        `yaml:"version"`
	Entries []rawEntry `yaml:"dependencies"`
}

// Load reads and validates a dependency manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest content.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	// A missing version key means a version 1 (legacy) file.
	if raw.Version == 0 {
		raw.Version = 1
	}
	if raw.Version < 1 || raw.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported manifest version %d — this tool understands versions 1 through %d", raw.Version, CurrentVersion)
	}

	m := &Manifest{Version: raw.Version}
	for _, re := range raw.Entries {
		e := Entry{
			Source:   re.Source,
			Path:     re.Path,
			Revision: re.Revision,
			Required: true,
		}
		if re.Required != nil {
			e.Required = *re.Required
		}
		m.Entries = append(m.Entries, e)
	}

	if errs := Validate(m); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return m, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Manifest for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(m *Manifest) []string {
	var errs []string

	if len(m.Entries) == 0 {
		errs = append(errs, "at least one dependency is required")
	}

	sources := make(map[string]bool)
	paths := make(map[string]bool)
	for i, e := range m.Entries {
		prefix := fmt.Sprintf("dependency[%d]", i)
		if e.Source != "" {
			prefix = fmt.Sprintf("dependency '%s'", e.Source)
		}

		if e.Source == "" {
			errs = append(errs, fmt.Sprintf("%s: 'source' is required", prefix))
		} else if sources[e.Source] {
			errs = append(errs, fmt.Sprintf("%s: duplicate source '%s'", prefix, e.Source))
		} else {
			sources[e.Source] = true
		}

		if e.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: 'path' is required", prefix))
		} else {
			// Two dependencies must never share a working copy.
			clean := filepath.Clean(filepath.FromSlash(e.Path))
			if paths[clean] {
				errs = append(errs, fmt.Sprintf("%s: duplicate path '%s'", prefix, e.Path))
			} else {
				paths[clean] = true
			}
		}

		if e.Revision == "" {
			errs = append(errs, fmt.Sprintf("%s: 'revision' is required", prefix))
		}
	}

	return errs
}
