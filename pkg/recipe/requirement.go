package recipe

import (
	"fmt"

	"github.com/crucible-build/crucible/pkg/version"
)

// Requirement declares a dependency on another package, optionally
// version-constrained. VersionRange holds the raw expression (an exact pin
// like "1.3.1" or a bracket range like "[>=5.4.5 <6]") so malformed ranges
// surface as verification failures rather than construction panics.
type Requirement struct {
	// Name is the required package name.
	Name string `json:"name" yaml:"name"`

	// VersionRange is the raw version range expression.
	VersionRange string `json:"versionRange" yaml:"versionRange"`
}

// Require constructs a Requirement from a name and range expression.
func Require(name, versionRange string) Requirement {
	return Requirement{Name: name, VersionRange: versionRange}
}

// Validate checks the requirement for a non-empty name and a syntactically
// well-formed version range.
func (r Requirement) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("requirement has no name")
	}
	if _, err := version.ParseRange(r.VersionRange); err != nil {
		return fmt.Errorf("requirement %s: %w", r.Name, err)
	}
	return nil
}

// Range parses and returns the version range.
func (r Requirement) Range() (version.Range, error) {
	return version.ParseRange(r.VersionRange)
}

// Ref returns the conventional name/range reference form, e.g.
// "zlib/1.3.1" or "xz_utils/[>=5.4.5 <6]".
func (r Requirement) Ref() string {
	return fmt.Sprintf("%s/%s", r.Name, r.VersionRange)
}

// String returns the reference form.
func (r Requirement) String() string {
	return r.Ref()
}
