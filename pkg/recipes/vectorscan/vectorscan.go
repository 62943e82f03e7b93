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

// Package vectorscan defines the recipe for vectorscan, the portable fork
// of the Hyperscan high-performance regex matching library. Chimera (the
// hybrid PCRE-compatible engine) links the bundled PCRE statically, so it is
// only available in static builds; the fat runtime (multiple CPU-tuned
// engine variants selected at load time) is a Linux-only linker feature.
package vectorscan

import (
	_ "embed"
	"sync"

	"github.com/crucible-build/crucible/pkg/errors"
	"github.com/crucible-build/crucible/pkg/layout"
	"github.com/crucible-build/crucible/pkg/pkginfo"
	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/toolchain"
	"github.com/crucible-build/crucible/pkg/toolchain/cmake"
	"github.com/crucible-build/crucible/pkg/version"
)

// Name is the registry key for this recipe.
const Name = "vectorscan"

var (
	//go:embed sources.yaml
	sourcesData []byte

	sourcesOnce   sync.Once
	cachedSources recipe.SourceTable
	sourcesErr    error
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

// New constructs the vectorscan definition for one version.
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
		Name: Name,
		Description: "A portable fork of the high-performance regular expression " +
			"matching library Hyperscan",
		License:     "BSD-3-Clause",
		Homepage:    "https://www.vectorcamp.gr/vectorscan/",
		Topics:      []string{"regex", "matching", "simd", "hyperscan"},
		PackageType: recipe.PackageLibrary,
	}
}

func (d *definition) Version() version.Version {
	return d.ver
}

func (d *definition) Options() recipe.Options {
	return recipe.Options{
		"shared":       recipe.Bool(false),
		"fPIC":         recipe.Bool(true),
		"optimise":     recipe.Bool(true),
		"build_avx512": recipe.Bool(false),
		"fat_runtime":  recipe.Bool(false),
		"with_chimera": recipe.Bool(false),
		"debug_output": recipe.Bool(false),
	}
}

func (d *definition) Source() (recipe.Source, error) {
	return d.src, nil
}

func (d *definition) ConfigOptions(p *recipe.Profile, opts recipe.Options) {
	if p.IsWindows() {
		opts.Delete("fPIC")
	}
	if !p.IsLinux() {
		opts.Delete("fat_runtime")
	}
}

func (d *definition) Configure(_ *recipe.Profile, set recipe.OptionSet) {
	if set.Bool("shared") {
		set.Delete("fPIC")
	}
}

func (d *definition) Validate(p *recipe.Profile, set recipe.OptionSet) error {
	if set.Bool("with_chimera") && set.Bool("shared") {
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"chimera links the bundled PCRE statically and requires a static vectorscan build")
	}
	if set.Bool("build_avx512") && p.Arch != recipe.ArchX8664 {
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"AVX512 engine variants can only be built for x86_64 targets")
	}
	return nil
}

func (d *definition) Requirements(set recipe.OptionSet) []recipe.Requirement {
	reqs := []recipe.Requirement{
		recipe.Require("boost", "[>=1.74.0 <2]"),
	}
	if set.Bool("with_chimera") {
		reqs = append(reqs, recipe.Require("pcre", "8.45"))
	}
	return reqs
}

func (d *definition) Toolchain(p *recipe.Profile, set recipe.OptionSet) (toolchain.Toolchain, error) {
	tc := cmake.New()
	tc.BuildType = string(p.BuildType)

	tc.Set("BUILD_SHARED_LIBS", set.Bool("shared"))
	tc.Set("BUILD_STATIC_LIBS", !set.Bool("shared"))
	tc.Set("OPTIMISE", set.Bool("optimise"))
	tc.Set("BUILD_AVX512", set.Bool("build_avx512"))
	tc.Set("BUILD_CHIMERA", set.Bool("with_chimera"))
	tc.Set("DEBUG_OUTPUT", set.Bool("debug_output"))
	tc.Set("BUILD_EXAMPLES", false)
	tc.Set("BUILD_BENCHMARKS", false)
	tc.Set("BUILD_UNIT", false)

	if set.Has("fat_runtime") {
		tc.Set("FAT_RUNTIME", set.Bool("fat_runtime"))
	}
	if set.Has("fPIC") {
		tc.Set("CMAKE_POSITION_INDEPENDENT_CODE", set.Bool("fPIC"))
	}

	return tc, nil
}

func (d *definition) Package(lay *layout.Layout, sourceDir string) error {
	if err := lay.CopyLicense(sourceDir, "LICENSE"); err != nil {
		return err
	}
	return lay.RemoveDir(layout.LibDirName, "pkgconfig")
}

func (d *definition) PackageInfo(_ *recipe.Profile, set recipe.OptionSet) (*pkginfo.Package, error) {
	info := pkginfo.New(Name, d.ver.Full())
	info.CMakeFileName = "vectorscan"
	info.CMakeTargetName = "vectorscan::hs"

	hs := info.AddComponent("hs")
	hs.Libs = []string{"hs"}
	hs.IncludeDirs = []string{layout.IncludeDirName}
	hs.PkgConfigName = "libhs"
	hs.CMakeTargetName = "vectorscan::hs"
	hs.Requires = []string{"boost::headers"}
	hs.SystemLibs = []string{"m"}

	runtime := info.AddComponent("hs_runtime")
	runtime.Libs = []string{"hs_runtime"}
	runtime.IncludeDirs = []string{layout.IncludeDirName}
	runtime.PkgConfigName = "libhs_runtime"
	runtime.CMakeTargetName = "vectorscan::hs_runtime"
	runtime.SystemLibs = []string{"m"}

	if set.Bool("with_chimera") {
		ch := info.AddComponent("chimera")
		ch.Libs = []string{"chimera"}
		ch.IncludeDirs = []string{layout.IncludeDirName}
		ch.PkgConfigName = "libch"
		ch.CMakeTargetName = "vectorscan::chimera"
		ch.Requires = []string{"hs", "pcre::pcre"}
	}

	return info, nil
}
