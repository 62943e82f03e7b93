package recipe

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/crucible-build/crucible/pkg/errors"
	"github.com/crucible-build/crucible/pkg/version"
)

// SourceTable maps package versions to their downloadable archives. Recipe
// packages embed their table as YAML and load it once.
type SourceTable map[string]Source

// LoadSourceTable parses an embedded YAML source table and validates every
// entry.
func LoadSourceTable(data []byte) (SourceTable, error) {
	var table SourceTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source table: %w", err)
	}
	for ver, src := range table {
		if _, err := version.ParseVersion(ver); err != nil {
			return nil, fmt.Errorf("source table has invalid version %q: %w", ver, err)
		}
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source table entry %s: %w", ver, err)
		}
	}
	return table, nil
}

// Get returns the archive for a version, or NOT_FOUND when the table has no
// entry for it.
func (t SourceTable) Get(v version.Version) (Source, error) {
	full := v.Full()
	src, ok := t[full]
	if !ok {
		return Source{}, errors.Newf(errors.ErrCodeNotFound,
			"no source archive for version %s (available: %v)", full, t.Versions())
	}
	return src, nil
}

// Versions returns the table's versions sorted oldest first.
func (t SourceTable) Versions() []string {
	versions := make([]string, 0, len(t))
	for ver := range t {
		versions = append(versions, ver)
	}
	sort.Slice(versions, func(i, j int) bool {
		a, aerr := version.ParseVersion(versions[i])
		b, berr := version.ParseVersion(versions[j])
		if aerr != nil || berr != nil {
			return versions[i] < versions[j]
		}
		// CompareFull orders release suffixes numerically, so "6.9.13-9"
		// sorts before "6.9.13-26".
		if c := a.CompareFull(b); c != 0 {
			return c < 0
		}
		return versions[i] < versions[j]
	})
	return versions
}
