package recipe

import (
	"fmt"
	"regexp"
)

// PackageType classifies what a recipe produces.
type PackageType string

// PackageType constants.
const (
	// PackageApplication produces executables only (no linkable output).
	PackageApplication PackageType = "application"
	// PackageLibrary produces linkable libraries and headers.
	PackageLibrary PackageType = "library"
	// PackageHeaderLibrary produces headers only.
	PackageHeaderLibrary PackageType = "header-library"
)

// Metadata is the immutable identity block of a recipe.
type Metadata struct {
	// Name is the package name (lowercase, the registry key).
	Name string `json:"name" yaml:"name"`

	// Description is a one-paragraph summary of the wrapped project.
	Description string `json:"description" yaml:"description"`

	// License is the SPDX expression of the wrapped project's license.
	License string `json:"license" yaml:"license"`

	// Homepage is the upstream project URL.
	Homepage string `json:"homepage" yaml:"homepage"`

	// Topics are free-form classification tags.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// PackageType classifies the produced artifacts.
	PackageType PackageType `json:"packageType" yaml:"packageType"`
}

// Validate checks the metadata for required fields.
func (m *Metadata) Validate() error {
	if m == nil {
		return fmt.Errorf("metadata cannot be nil")
	}
	if m.Name == "" {
		return fmt.Errorf("metadata has no name")
	}
	if m.License == "" {
		return fmt.Errorf("recipe %s declares no license", m.Name)
	}
	switch m.PackageType {
	case PackageApplication, PackageLibrary, PackageHeaderLibrary:
	default:
		return fmt.Errorf("recipe %s has invalid package type %q", m.Name, m.PackageType)
	}
	return nil
}

var sha256Pattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Source describes one downloadable source archive.
type Source struct {
	// URL is the archive download location.
	URL string `json:"url" yaml:"url"`

	// SHA256 is the lowercase hex digest the download must match.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// StripRoot drops the single top-level directory during extraction,
	// the layout used by release tarballs.
	StripRoot bool `json:"stripRoot,omitempty" yaml:"stripRoot,omitempty"`
}

// Validate checks the source for a usable URL and digest.
func (s Source) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("source has no url")
	}
	if !sha256Pattern.MatchString(s.SHA256) {
		return fmt.Errorf("source %s has malformed sha256 digest %q", s.URL, s.SHA256)
	}
	return nil
}
