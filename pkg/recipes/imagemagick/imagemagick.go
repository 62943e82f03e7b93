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

// Package imagemagick defines the recipe for the legacy ImageMagick 6 image
// suite, built through Autotools. The recipe carries the full delegate
// option table (per-codec with_* switches), the quantum-depth and HDRI
// naming rules for the MagickCore/MagickWand/Magick++ libraries, and the
// post-install pruning the package layout expects. Windows is rejected: an
// Autotools IM6 build needs MSYS2 or VisualMagick, neither of which this
// recipe drives.
package imagemagick

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/crucible-build/crucible/pkg/errors"
	"github.com/crucible-build/crucible/pkg/layout"
	"github.com/crucible-build/crucible/pkg/pkginfo"
	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/toolchain"
	"github.com/crucible-build/crucible/pkg/toolchain/autotools"
	"github.com/crucible-build/crucible/pkg/version"
)

// Name is the registry key for this recipe.
const Name = "imagemagick6"

// JPEG backend option values.
const (
	JpegLibjpeg      recipe.OptionValue = "libjpeg"
	JpegLibjpegTurbo recipe.OptionValue = "libjpeg-turbo"
)

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

// New constructs the imagemagick6 definition for one version.
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
		Description: "ImageMagick is a free and open-source software suite for " +
			"displaying, converting, and editing raster image and vector image files",
		License:     "ImageMagick",
		Homepage:    "https://legacy.imagemagick.org",
		Topics:      []string{"imagemagick", "images", "manipulating"},
		PackageType: recipe.PackageLibrary,
	}
}

func (d *definition) Version() version.Version {
	return d.ver
}

func (d *definition) Options() recipe.Options {
	return recipe.Options{
		"shared":        recipe.Bool(false),
		"fPIC":          recipe.Bool(true),
		"hdri":          recipe.Bool(true),
		"quantum_depth": recipe.Enum("16", "8", "16", "32"),
		"with_zlib":     recipe.Bool(true),
		"with_bzlib":    recipe.Bool(true),
		"with_lzma":     recipe.Bool(true),
		"with_lcms":     recipe.Bool(true),
		"with_openexr":  recipe.Bool(false),
		"with_heic":     recipe.Bool(true),
		"with_jbig":     recipe.Bool(true),
		"with_jpeg":     recipe.Enum(JpegLibjpeg, recipe.None, JpegLibjpeg, JpegLibjpegTurbo),
		"with_openjp2":  recipe.Bool(true),
		"with_pango":    recipe.Bool(false),
		"with_png":      recipe.Bool(true),
		"with_tiff":     recipe.Bool(true),
		"with_webp":     recipe.Bool(true),
		"with_xml2":     recipe.Bool(false),
		"with_freetype": recipe.Bool(false),
		"with_djvu":     recipe.Bool(false),
		"utilities":     recipe.Bool(true),
	}
}

func (d *definition) Source() (recipe.Source, error) {
	return d.src, nil
}

func (d *definition) ConfigOptions(p *recipe.Profile, opts recipe.Options) {
	if p.IsWindows() {
		opts.Delete("fPIC")
	}
}

func (d *definition) Configure(_ *recipe.Profile, set recipe.OptionSet) {
	if set.Bool("shared") {
		set.Delete("fPIC")
	}
}

func (d *definition) Validate(p *recipe.Profile, _ recipe.OptionSet) error {
	if p.IsWindows() {
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"imagemagick6 builds through Autotools on macOS and Linux only; Windows is not supported")
	}
	return nil
}

func (d *definition) Requirements(set recipe.OptionSet) []recipe.Requirement {
	var reqs []recipe.Requirement
	add := func(name, rng string) {
		reqs = append(reqs, recipe.Require(name, rng))
	}

	if set.Bool("with_zlib") {
		add("zlib", "1.3.1")
	}
	if set.Bool("with_bzlib") {
		add("bzip2", "1.0.8")
	}
	if set.Bool("with_lzma") {
		add("xz_utils", "[>=5.4.5 <6]")
	}
	if set.Bool("with_lcms") {
		add("lcms", "2.16")
	}
	if set.Bool("with_openexr") {
		add("openexr", "3.1.9")
	}
	if set.Bool("with_heic") {
		add("libheif", "[>=1.16.2 <2]")
	}
	if set.Bool("with_jbig") {
		add("jbig", "20160605")
	}
	switch set.Value("with_jpeg") {
	case JpegLibjpeg:
		add("libjpeg", "9e")
	case JpegLibjpegTurbo:
		add("libjpeg-turbo", "3.0.3")
	}
	if set.Bool("with_openjp2") {
		add("openjpeg", "[>=2.5.2 <3]")
	}
	if set.Bool("with_pango") {
		add("pango", "1.50.14")
	}
	if set.Bool("with_png") {
		add("libpng", "[>=1.6.48 <2]")
	}
	if set.Bool("with_tiff") {
		add("libtiff", "[>=4.6.0 <5]")
		add("zstd", "1.5.7")
	}
	if set.Bool("with_webp") {
		add("libwebp", "[>=1.3.2 <2]")
	}
	if set.Bool("with_xml2") {
		add("libxml2", "2.12.7")
	}
	if set.Bool("with_freetype") {
		add("freetype", "2.13.2")
	}

	return reqs
}

func (d *definition) Toolchain(p *recipe.Profile, set recipe.OptionSet) (toolchain.Toolchain, error) {
	tc := autotools.New()

	shared := set.Bool("shared")

	tc.Disable("openmp")
	tc.Disable("opencl")
	tc.Disable("docs")
	tc.WithValue("perl", "no")
	tc.WithValue("x", "no")
	tc.With("fontconfig", set.Bool("with_pango"))
	tc.Without("dps")
	tc.Without("fftw")
	tc.Without("fpx")
	tc.Without("raw")
	tc.Without("wmf")

	tc.Enable("shared", shared)
	tc.Enable("static", !shared)
	tc.Enable("hdri", set.Bool("hdri"))
	tc.WithValue("quantum-depth", set.Value("quantum_depth").String())

	tc.With("zlib", set.Bool("with_zlib"))
	tc.With("bzlib", set.Bool("with_bzlib"))
	tc.With("lzma", set.Bool("with_lzma"))
	tc.With("lcms", set.Bool("with_lcms"))
	tc.With("openexr", set.Bool("with_openexr"))
	tc.With("heic", set.Bool("with_heic"))
	tc.With("jbig", set.Bool("with_jbig"))
	tc.With("jpeg", set.Value("with_jpeg") != recipe.None)
	tc.With("openjp2", set.Bool("with_openjp2"))
	tc.With("pango", set.Bool("with_pango"))
	tc.With("png", set.Bool("with_png"))
	tc.With("tiff", set.Bool("with_tiff"))
	tc.With("webp", set.Bool("with_webp"))
	// configure spells the libxml2 switch --with-xml.
	tc.With("xml", set.Bool("with_xml2"))
	tc.With("freetype", set.Bool("with_freetype"))
	tc.With("djvu", set.Bool("with_djvu"))
	tc.With("utilities", set.Bool("utilities"))

	if p.IsApple() && shared {
		// Without header padding the install-name fixups on the produced
		// dylibs can run out of room.
		tc.AddLDFlags("-Wl,-headerpad_max_install_names")
	}

	tc.AddMakeArgs("V=1")

	return tc, nil
}

func (d *definition) Package(lay *layout.Layout, sourceDir string) error {
	if err := lay.CopyLicense(sourceDir, "LICENSE"); err != nil {
		return err
	}
	if err := lay.CopyGlob(sourceDir, "COPYING*", layout.LicensesDirName); err != nil {
		return err
	}

	prune := [][]string{
		{layout.LibDirName, "pkgconfig"},
		{"etc"},
		{"share", "doc"},
		{"share", "man"},
	}
	for _, dir := range prune {
		if err := lay.RemoveDir(dir...); err != nil {
			return err
		}
	}

	return lay.RemoveGlobRecursive(layout.LibDirName, "*.la")
}

// libname computes the ImageMagick 6 library stem for a module:
// {base}-{major}.Q{depth} with an HDRI suffix when HDRI is enabled, e.g.
// "MagickCore-6.Q16HDRI".
func (d *definition) libname(base string, set recipe.OptionSet) string {
	suffix := ""
	if set.Bool("hdri") {
		suffix = "HDRI"
	}
	return fmt.Sprintf("%s-%d.Q%s%s", base, d.ver.Major, set.Value("quantum_depth"), suffix)
}

// pcName computes a module's pkg-config name. The HDRI suffix is conventional
// on Unix-like platforms but not on Windows.
func (d *definition) pcName(base string, p *recipe.Profile, set recipe.OptionSet) string {
	name := fmt.Sprintf("%s-%d.Q%s", base, d.ver.Major, set.Value("quantum_depth"))
	if set.Bool("hdri") && !p.IsWindows() {
		name += "HDRI"
	}
	return name
}

func (d *definition) PackageInfo(p *recipe.Profile, set recipe.OptionSet) (*pkginfo.Package, error) {
	info := pkginfo.New(Name, d.ver.Full())
	info.CMakeFileName = "ImageMagick"
	info.CMakeTargetName = "ImageMagick::MagickCore"

	includeRoot := filepath.Join(layout.IncludeDirName, fmt.Sprintf("ImageMagick-%d", d.ver.Major))

	hdriEnabled := 0
	if set.Bool("hdri") {
		hdriEnabled = 1
	}
	linkageDefine := "_MAGICKLIB_=1"
	if set.Bool("shared") {
		linkageDefine = "_MAGICKDLL_=1"
	}

	core := info.AddComponent("MagickCore")
	core.Libs = []string{d.libname("MagickCore", set)}
	core.IncludeDirs = []string{filepath.Join(includeRoot, "magick")}
	core.Defines = []string{
		fmt.Sprintf("MAGICKCORE_QUANTUM_DEPTH=%s", set.Value("quantum_depth")),
		fmt.Sprintf("MAGICKCORE_HDRI_ENABLE=%d", hdriEnabled),
		linkageDefine,
	}
	core.PkgConfigName = d.pcName("MagickCore", p, set)
	core.CMakeTargetName = "ImageMagick::MagickCore"
	if p.IsLinux() {
		core.SystemLibs = []string{"pthread"}
	}

	wand := info.AddComponent("MagickWand")
	wand.Libs = []string{d.libname("MagickWand", set)}
	wand.IncludeDirs = []string{filepath.Join(includeRoot, "wand")}
	wand.Requires = []string{"MagickCore"}
	wand.PkgConfigName = d.pcName("MagickWand", p, set)
	wand.CMakeTargetName = "ImageMagick::MagickWand"

	mpp := info.AddComponent("Magick++")
	mpp.Libs = []string{d.libname("Magick++", set)}
	mpp.IncludeDirs = []string{filepath.Join(includeRoot, "Magick++"), includeRoot}
	mpp.Requires = []string{"MagickWand"}
	mpp.PkgConfigName = d.pcName("Magick++", p, set)
	mpp.CMakeTargetName = "ImageMagick::Magick++"

	// Delegate libraries attach to MagickCore, mirroring the requirement
	// table.
	for _, req := range d.Requirements(set) {
		core.Requires = append(core.Requires, req.Name+"::"+req.Name)
	}

	if set.Bool("utilities") {
		info.PrependPath("PATH", layout.BinDirName)
	}

	return info, nil
}
