// Copyright (c) 2025, Crucible Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version

import (
	"errors"
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Error types for range parsing failures
var (
	ErrEmptyRange      = errors.New("version range is empty")
	ErrUnclosedBracket = errors.New("version range bracket is not closed")
	ErrInvalidExactPin = errors.New("exact version pin contains invalid characters")
)

// Range represents a dependency version expression. Two forms are supported:
//
//   - exact pins, e.g. "1.3.1", "8.45", "9e", "20160605"
//   - bracketed ranges, e.g. "[>=5.4.5 <6]", "[>=1.16.2 <2]"
//
// Bracketed ranges are evaluated as semver constraints. Exact pins are
// compared literally because upstream package versions are not always
// semver (libjpeg "9e", jbig "20160605").
type Range struct {
	raw        string
	exact      string
	constraint *mm.Constraints
}

// ParseRange parses a version range expression. The range is validated for
// syntactic well-formedness at parse time: a bracketed expression must be a
// valid constraint, and an exact pin must be a single non-empty token.
func ParseRange(s string) (Range, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Range{}, ErrEmptyRange
	}

	if strings.HasPrefix(trimmed, "[") {
		if !strings.HasSuffix(trimmed, "]") {
			return Range{}, fmt.Errorf("%w: %q", ErrUnclosedBracket, s)
		}
		inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		if inner == "" {
			return Range{}, fmt.Errorf("%w: %q", ErrEmptyRange, s)
		}
		c, err := mm.NewConstraint(inner)
		if err != nil {
			return Range{}, fmt.Errorf("invalid version range %q: %w", s, err)
		}
		return Range{raw: trimmed, constraint: c}, nil
	}

	// Exact pin: a single token, no spaces, no stray brackets.
	if strings.ContainsAny(trimmed, " \t[]") {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidExactPin, s)
	}
	return Range{raw: trimmed, exact: trimmed}, nil
}

// MustParseRange parses a range expression and panics on failure. Intended
// for the hardcoded requirement tables in recipe definitions.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseRange: %v", err))
	}
	return r
}

// IsZero returns true for an uninitialized Range.
func (r Range) IsZero() bool {
	return r.raw == ""
}

// IsExact returns true if the range pins a single version.
func (r Range) IsExact() bool {
	return r.exact != ""
}

// String returns the original range expression.
func (r Range) String() string {
	return r.raw
}

// Matches reports whether the given version string satisfies the range.
// Exact pins match by literal comparison. Bracketed ranges require the
// candidate to parse as a semver version; coercion pads missing components
// with zeros (e.g. "4.6" is evaluated as "4.6.0").
func (r Range) Matches(v string) (bool, error) {
	if r.IsZero() {
		return false, ErrEmptyRange
	}
	if r.IsExact() {
		return r.exact == strings.TrimSpace(v), nil
	}

	sv, err := mm.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("version %q is not comparable against range %s: %w", v, r.raw, err)
	}
	return r.constraint.Check(sv), nil
}

// MarshalYAML serializes the range as its original expression.
func (r Range) MarshalYAML() (any, error) {
	return r.raw, nil
}

// UnmarshalYAML parses a range from its string form.
func (r *Range) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseRange(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON serializes the range as its original expression.
func (r Range) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", r.raw)), nil
}
