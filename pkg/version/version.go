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
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version represents a package version with Major, Minor, and Patch components.
// It supports flexible precision (1, 2, or 3 components) and preserves
// additional version metadata such as release suffixes (e.g., ImageMagick's
// "-26" in "6.9.13-26" or jbig's date-style "20160605" major-only form).
// The Precision field indicates how many components are significant for
// comparisons.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision indicates how many components are significant (1, 2, or 3)
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras stores additional version metadata like "-26" or "+build.7"
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewVersion creates a new Version with the specified major, minor, and patch
// values. The precision is set to 3 (all components are significant).
func NewVersion(major, minor, patch int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Precision: 3,
	}
}

// String returns the string representation of the Version respecting its
// precision. Extras are not included.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return fmt.Sprintf("%d", v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Full returns the string representation including the Extras suffix, matching
// the original input of ParseVersion.
func (v Version) Full() string {
	return v.String() + v.Extras
}

// ParseVersion parses a version string into a Version struct.
// Supported formats: "1", "1.2", "1.2.3", "v1.2.3", "1.2.3-suffix",
// "1.2.3+metadata". The "v" prefix is optional and stripped if present.
// Anything after '-' or '+' following a digit is preserved in Extras, so
// release-numbered versions like "6.9.13-26" keep their release suffix.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	s = strings.TrimPrefix(s, "v")
	var v Version

	// Split off extras before splitting on dots; extras may themselves
	// contain dots (e.g. "-gke.1337000"), so only the first separator
	// after a digit counts.
	mainPart := s
	for i, ch := range s {
		if (ch == '-' || ch == '+') && i > 0 {
			if prev := s[i-1]; prev >= '0' && prev <= '9' {
				mainPart = s[:i]
				v.Extras = s[i:]
				break
			}
		}
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}

		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings (recipe version tables, tests). For
// user input, always use ParseVersion and handle errors explicitly.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// Compare returns an integer comparing two versions:
// -1 if v < other, 0 if v == other, 1 if v > other.
// Comparison is performed up to the lower of the two precisions, so
// Version{Major:2, Minor:11, Precision:2} equals any 2.11.x version.
func (v Version) Compare(other Version) int {
	precision := v.Precision
	if other.Precision < precision {
		precision = other.Precision
	}

	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if precision == 1 {
		return 0
	}

	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if precision == 2 {
		return 0
	}

	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// CompareFull compares like Compare and breaks ties on the Extras suffix.
// Suffix segments compare naturally: digit runs compare numerically (so
// "-9" orders before "-26"), other runs lexically; an absent suffix orders
// first.
func (v Version) CompareFull(other Version) int {
	if c := v.Compare(other); c != 0 {
		return c
	}
	return compareExtras(v.Extras, other.Extras)
}

type extraToken struct {
	s     string
	num   int
	isNum bool
}

func compareExtras(a, b string) int {
	at, bt := extraTokens(a), extraTokens(b)
	for i := 0; i < len(at) && i < len(bt); i++ {
		x, y := at[i], bt[i]
		switch {
		case x.isNum && y.isNum:
			if x.num != y.num {
				if x.num < y.num {
					return -1
				}
				return 1
			}
		case x.isNum != y.isNum:
			if x.isNum {
				return -1
			}
			return 1
		default:
			if x.s != y.s {
				if x.s < y.s {
					return -1
				}
				return 1
			}
		}
	}
	switch {
	case len(at) < len(bt):
		return -1
	case len(at) > len(bt):
		return 1
	}
	return 0
}

// extraTokens splits an extras suffix into digit and non-digit runs,
// treating '-', '+', and '.' as separators.
func extraTokens(s string) []extraToken {
	var tokens []extraToken
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '-' || c == '+' || c == '.':
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(s[i:j])
			tokens = append(tokens, extraToken{num: n, isNum: true})
			i = j
		default:
			j := i
			for j < len(s) && !isExtraBoundary(s[j]) {
				j++
			}
			tokens = append(tokens, extraToken{s: s[i:j]})
			i = j
		}
	}
	return tokens
}

func isExtraBoundary(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

// EqualsOrNewer returns true if v is equal to or newer than other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}

// IsNewer returns true if v is strictly newer than other.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}

// IsOlder returns true if v is strictly older than other.
func (v Version) IsOlder(other Version) bool {
	return v.Compare(other) < 0
}

// Equals returns true if all components match, ignoring precision and extras.
func (v Version) Equals(other Version) bool {
	return v.Major == other.Major && v.Minor == other.Minor && v.Patch == other.Patch
}

// IsValid returns true if the version has non-negative components and a
// precision of 1, 2, or 3.
func (v Version) IsValid() bool {
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return false
	}
	return v.Precision >= 1 && v.Precision <= 3
}
