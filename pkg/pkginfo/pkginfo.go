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

package pkginfo

import (
	"fmt"
	"strings"

	"github.com/crucible-build/crucible/pkg/header"
)

const (
	// APIVersion is the current schema version for package info exports.
	APIVersion = "v1"
)

// EnvAction describes how an environment entry is applied by consumers.
type EnvAction string

const (
	// EnvDefine sets a variable to a fixed value.
	EnvDefine EnvAction = "define"
	// EnvPrependPath prepends a directory to a path-style variable.
	EnvPrependPath EnvAction = "prepend-path"
)

// EnvEntry is a single run-environment export (e.g. prepending the package
// bin directory to PATH, or defining CPPCHECK_HTMLREPORT).
type EnvEntry struct {
	Action EnvAction `json:"action" yaml:"action"`
	Name   string    `json:"name" yaml:"name"`
	Value  string    `json:"value" yaml:"value"`
}

// Component describes one consumable unit of a package: its libraries,
// include directories, compile definitions, and the names downstream build
// systems use to locate it.
type Component struct {
	// Name is the component identifier within the package.
	Name string `json:"name" yaml:"name"`

	// Libs are the link library stems (without lib prefix or extension).
	Libs []string `json:"libs,omitempty" yaml:"libs,omitempty"`

	// IncludeDirs are include directories relative to the package root.
	IncludeDirs []string `json:"includeDirs,omitempty" yaml:"includeDirs,omitempty"`

	// LibDirs are library directories relative to the package root.
	LibDirs []string `json:"libDirs,omitempty" yaml:"libDirs,omitempty"`

	// BinDirs are binary directories relative to the package root.
	BinDirs []string `json:"binDirs,omitempty" yaml:"binDirs,omitempty"`

	// Defines are preprocessor definitions consumers must set.
	Defines []string `json:"defines,omitempty" yaml:"defines,omitempty"`

	// SystemLibs are platform libraries to link (e.g. pthread, m).
	SystemLibs []string `json:"systemLibs,omitempty" yaml:"systemLibs,omitempty"`

	// Requires lists dependencies of this component. Entries of the form
	// "name" refer to sibling components; "pkg::comp" refer to components
	// of required packages.
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty"`

	// PkgConfigName is the pkg-config file name (without .pc).
	PkgConfigName string `json:"pkgConfigName,omitempty" yaml:"pkgConfigName,omitempty"`

	// CMakeTargetName is the imported CMake target (e.g. "ImageMagick::MagickCore").
	CMakeTargetName string `json:"cmakeTargetName,omitempty" yaml:"cmakeTargetName,omitempty"`
}

// Package is the metadata exported for a built package: the component
// graph plus build-system naming and run-environment entries.
type Package struct {
	header.Header `json:",inline" yaml:",inline"`

	// Name is the package name (recipe name).
	Name string `json:"name" yaml:"name"`

	// Version is the package version string.
	Version string `json:"version" yaml:"version"`

	// CMakeFileName is the find_package() file name (e.g. "ImageMagick").
	CMakeFileName string `json:"cmakeFileName,omitempty" yaml:"cmakeFileName,omitempty"`

	// CMakeTargetName is the package-level imported target.
	CMakeTargetName string `json:"cmakeTargetName,omitempty" yaml:"cmakeTargetName,omitempty"`

	// Components holds the consumable units in declaration order.
	Components []*Component `json:"components,omitempty" yaml:"components,omitempty"`

	// Env lists run-environment entries exported by the package.
	Env []EnvEntry `json:"env,omitempty" yaml:"env,omitempty"`
}

// New creates a Package with an initialized header.
func New(name, version string) *Package {
	p := &Package{
		Name:    name,
		Version: version,
	}
	p.Header.Init(header.KindPackageInfo, APIVersion, "")
	return p
}

// AddComponent appends a component and returns it for further mutation.
func (p *Package) AddComponent(name string) *Component {
	c := &Component{Name: name}
	p.Components = append(p.Components, c)
	return c
}

// Component returns the named component, or nil if absent.
func (p *Package) Component(name string) *Component {
	for _, c := range p.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Libs returns the flattened library list across all components, in
// declaration order.
func (p *Package) Libs() []string {
	var libs []string
	for _, c := range p.Components {
		libs = append(libs, c.Libs...)
	}
	return libs
}

// DefinePath records a define-style env entry.
func (p *Package) DefinePath(name, value string) {
	p.Env = append(p.Env, EnvEntry{Action: EnvDefine, Name: name, Value: value})
}

// PrependPath records a prepend-path env entry.
func (p *Package) PrependPath(name, value string) {
	p.Env = append(p.Env, EnvEntry{Action: EnvPrependPath, Name: name, Value: value})
}

// Validate checks structural consistency: component names must be unique and
// non-empty, and sibling requires must resolve to declared components.
// External requires ("pkg::comp") are not resolvable here and are skipped.
func (p *Package) Validate() error {
	if p == nil {
		return fmt.Errorf("package info cannot be nil")
	}
	if p.Name == "" {
		return fmt.Errorf("package info has no name")
	}

	seen := make(map[string]bool, len(p.Components))
	for i, c := range p.Components {
		if c == nil {
			return fmt.Errorf("component at index %d is nil", i)
		}
		if c.Name == "" {
			return fmt.Errorf("component at index %d has empty name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate component name %s", c.Name)
		}
		seen[c.Name] = true
	}

	for _, c := range p.Components {
		for _, req := range c.Requires {
			if strings.Contains(req, "::") {
				continue
			}
			if !seen[req] {
				return fmt.Errorf("component %s requires unknown sibling component %s", c.Name, req)
			}
		}
	}

	return nil
}
