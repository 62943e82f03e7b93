package recipe

import (
	"github.com/crucible-build/crucible/pkg/layout"
	"github.com/crucible-build/crucible/pkg/pkginfo"
	"github.com/crucible-build/crucible/pkg/toolchain"
	"github.com/crucible-build/crucible/pkg/version"
)

// Definition is the contract every recipe implements: a declarative
// description of how one external library is fetched, configured, built,
// and exposed. Implementations are immutable after construction; all hooks
// derive their answers from the target profile and the resolved option set.
type Definition interface {
	// Metadata returns the recipe identity block.
	Metadata() *Metadata

	// Version returns the pinned package version this instance describes.
	Version() version.Version

	// Options returns the declared option table with defaults.
	Options() Options

	// Source returns the downloadable archive for this version.
	Source() (Source, error)

	// ConfigOptions adjusts the option table for the target platform
	// before resolution (e.g. removing fPIC on Windows). The table passed
	// in is a clone and may be mutated freely.
	ConfigOptions(p *Profile, opts Options)

	// Configure adjusts the resolved set after overrides are applied
	// (e.g. dropping fPIC when building shared).
	Configure(p *Profile, set OptionSet)

	// Validate rejects unsupported platform/option combinations with an
	// INVALID_CONFIGURATION error. All other failures propagate from the
	// wrapped tools unmodified.
	Validate(p *Profile, set OptionSet) error

	// Requirements returns the dependency list implied by the resolved
	// options.
	Requirements(set OptionSet) []Requirement

	// Toolchain translates the resolved options into build-tool
	// arguments.
	Toolchain(p *Profile, set OptionSet) (toolchain.Toolchain, error)

	// Package performs post-install layout steps (license copies,
	// pruning) against the package folder.
	Package(lay *layout.Layout, sourceDir string) error

	// PackageInfo computes the exported package metadata for the
	// resolved options.
	PackageInfo(p *Profile, set OptionSet) (*pkginfo.Package, error)
}

// Factory constructs a Definition instance for a specific package version.
// Factories reject versions they have no source archive for.
type Factory func(v version.Version) (Definition, error)
