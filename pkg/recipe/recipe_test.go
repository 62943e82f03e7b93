package recipe

import (
	"strings"

	"github.com/crucible-build/crucible/pkg/layout"
	"github.com/crucible-build/crucible/pkg/pkginfo"
	"github.com/crucible-build/crucible/pkg/toolchain"
	"github.com/crucible-build/crucible/pkg/toolchain/cmake"
	"github.com/crucible-build/crucible/pkg/version"
)

// stubDefinition is a minimal Definition used across the package tests.
type stubDefinition struct {
	meta          Metadata
	ver           version.Version
	opts          Options
	src           Source
	reqs          []Requirement
	configOptions func(p *Profile, opts Options)
	configure     func(p *Profile, set OptionSet)
	validate      func(p *Profile, set OptionSet) error
}

func newStubDefinition(v version.Version) *stubDefinition {
	return &stubDefinition{
		meta: Metadata{
			Name:        "stub",
			Description: "a stub package for tests",
			License:     "MIT",
			PackageType: PackageLibrary,
		},
		ver: v,
		opts: Options{
			"shared": Bool(false),
			"fPIC":   Bool(true),
		},
		src: Source{
			URL:       "https://example.com/stub-" + v.String() + ".tar.gz",
			SHA256:    strings.Repeat("0f", 32),
			StripRoot: true,
		},
	}
}

func (d *stubDefinition) Metadata() *Metadata        { return &d.meta }
func (d *stubDefinition) Version() version.Version   { return d.ver }
func (d *stubDefinition) Options() Options           { return d.opts }
func (d *stubDefinition) Source() (Source, error)    { return d.src, nil }

func (d *stubDefinition) ConfigOptions(p *Profile, opts Options) {
	if d.configOptions != nil {
		d.configOptions(p, opts)
	}
}

func (d *stubDefinition) Configure(p *Profile, set OptionSet) {
	if d.configure != nil {
		d.configure(p, set)
	}
}

func (d *stubDefinition) Validate(p *Profile, set OptionSet) error {
	if d.validate != nil {
		return d.validate(p, set)
	}
	return nil
}

func (d *stubDefinition) Requirements(_ OptionSet) []Requirement {
	return d.reqs
}

func (d *stubDefinition) Toolchain(p *Profile, set OptionSet) (toolchain.Toolchain, error) {
	tc := cmake.New()
	tc.BuildType = string(p.BuildType)
	tc.Set("BUILD_SHARED_LIBS", set.Bool("shared"))
	return tc, nil
}

func (d *stubDefinition) Package(_ *layout.Layout, _ string) error {
	return nil
}

func (d *stubDefinition) PackageInfo(_ *Profile, _ OptionSet) (*pkginfo.Package, error) {
	p := pkginfo.New(d.meta.Name, d.ver.Full())
	c := p.AddComponent(d.meta.Name)
	c.Libs = []string{d.meta.Name}
	return p, nil
}

func stubFactory(v version.Version) (Definition, error) {
	return newStubDefinition(v), nil
}
