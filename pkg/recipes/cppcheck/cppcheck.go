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

// Package cppcheck defines the recipe for the cppcheck C/C++ static
// analyzer. The package produces executables only: consumers get the
// cppcheck binary and the cppcheck-htmlreport helper script, no linkable
// libraries.
package cppcheck

import (
	_ "embed"
	"path/filepath"
	"sync"

	"github.com/crucible-build/crucible/pkg/layout"
	"github.com/crucible-build/crucible/pkg/pkginfo"
	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/toolchain"
	"github.com/crucible-build/crucible/pkg/toolchain/cmake"
	"github.com/crucible-build/crucible/pkg/version"
)

// Name is the registry key for this recipe.
const Name = "cppcheck"

var (
	//go:embed sources.yaml
	sourcesData []byte

	sourcesOnce   sync.Once
	cachedSources recipe.SourceTable
	sourcesErr    error

	// Version gates for generated CMake variables.
	dmakeDisabledSince  = version.MustParseVersion("2.11.0")
	policyMinimumBefore = version.MustParseVersion("2.14.0")
)

func loadSources() (recipe.SourceTable, error) {
	sourcesOnce.Do(func() {
		cachedSources, sourcesErr = recipe.LoadSourceTable(sourcesData)
	})
	return cachedSources, sourcesErr
}

// Versions returns the versions this recipe carries sources for, oldest
// first.
func Versions() []string {
	table, err := loadSources()
	if err != nil {
		return nil
	}
	return table.Versions()
}

type definition struct {
	ver version.Version
	src recipe.Source
}

// New constructs the cppcheck definition for one version. Versions without a
// source archive are rejected.
func New(v version.Version) (recipe.Definition, error) {
	table, err := loadSources()
	if err != nil {
		return nil, err
	}
	src, err := table.Get(v)
	if err != nil {
		return nil, err
	}
	return &definition{ver: v, src: src}, nil
}

func (d *definition) Metadata() *recipe.Metadata {
	return &recipe.Metadata{
		Name:        Name,
		Description: "Cppcheck is an analysis tool for C/C++ code.",
		License:     "GPL-3.0-or-later",
		Homepage:    "https://github.com/danmar/cppcheck",
		Topics:      []string{"code quality", "static analyzer", "linter"},
		PackageType: recipe.PackageApplication,
	}
}

func (d *definition) Version() version.Version {
	return d.ver
}

func (d *definition) Options() recipe.Options {
	return recipe.Options{
		"have_rules": recipe.Bool(true),
	}
}

func (d *definition) Source() (recipe.Source, error) {
	return d.src, nil
}

func (d *definition) ConfigOptions(_ *recipe.Profile, _ recipe.Options) {}

func (d *definition) Configure(_ *recipe.Profile, _ recipe.OptionSet) {}

func (d *definition) Validate(_ *recipe.Profile, _ recipe.OptionSet) error {
	return nil
}

// Requirements: rule support needs the PCRE regex engine.
func (d *definition) Requirements(set recipe.OptionSet) []recipe.Requirement {
	if set.Bool("have_rules") {
		return []recipe.Requirement{recipe.Require("pcre", "8.45")}
	}
	return nil
}

func (d *definition) Toolchain(p *recipe.Profile, set recipe.OptionSet) (toolchain.Toolchain, error) {
	tc := cmake.New()
	tc.BuildType = string(p.BuildType)

	tc.Set("HAVE_RULES", set.Bool("have_rules"))
	tc.Set("USE_MATCHCOMPILER", "Auto")
	tc.Set("ENABLE_OSS_FUZZ", false)
	if d.ver.EqualsOrNewer(dmakeDisabledSince) {
		tc.Set("DISABLE_DMAKE", true)
	}
	tc.Set("FILESDIR", "bin")
	if d.ver.IsOlder(policyMinimumBefore) {
		// Older release trees predate the CMake 4 minimum-policy bump.
		tc.SetCache("CMAKE_POLICY_VERSION_MINIMUM", "3.5")
	}

	return tc, nil
}

func (d *definition) Package(lay *layout.Layout, sourceDir string) error {
	if err := lay.CopyLicense(sourceDir, "COPYING"); err != nil {
		return err
	}
	// The htmlreport helper is a script the install step does not cover.
	return lay.CopyFile(
		filepath.Join(sourceDir, "htmlreport", "cppcheck-htmlreport"),
		filepath.Join(layout.BinDirName, "cppcheck-htmlreport"))
}

func (d *definition) PackageInfo(_ *recipe.Profile, _ recipe.OptionSet) (*pkginfo.Package, error) {
	p := pkginfo.New(Name, d.ver.Full())

	c := p.AddComponent(Name)
	c.BinDirs = []string{layout.BinDirName}

	p.DefinePath("CPPCHECK_HTMLREPORT",
		filepath.Join(layout.BinDirName, "cppcheck-htmlreport"))

	return p, nil
}
