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

// Package build orchestrates the recipe lifecycle end to end: resolve
// options, fetch sources, run the translated toolchain, lay out the package
// folder, and export the package metadata.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/crucible-build/crucible/pkg/defaults"
	"github.com/crucible-build/crucible/pkg/fetch"
	"github.com/crucible-build/crucible/pkg/header"
	"github.com/crucible-build/crucible/pkg/layout"
	"github.com/crucible-build/crucible/pkg/pkginfo"
	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/runner"
)

const buildResultAPIVersion = "v1"

// Result is the outcome of one successful build.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	// BuildID uniquely identifies this build run.
	BuildID string `json:"buildId" yaml:"buildId"`

	// Recipe is the built recipe name.
	Recipe string `json:"recipe" yaml:"recipe"`

	// Version is the built package version.
	Version string `json:"version" yaml:"version"`

	// Profile is the target platform summary.
	Profile string `json:"profile" yaml:"profile"`

	// Options is the resolved option assignment the build used.
	Options map[string]string `json:"options" yaml:"options"`

	// PackageDir is the package folder the install landed in.
	PackageDir string `json:"packageDir" yaml:"packageDir"`

	// Duration is the total wall-clock build time.
	Duration string `json:"duration" yaml:"duration"`

	// Package is the exported package metadata.
	Package *pkginfo.Package `json:"package" yaml:"package"`
}

// Builder runs recipe builds under a work root.
type Builder struct {
	workRoot    string
	fetcher     *fetch.Fetcher
	runnerOpts  []runner.Option
	toolVersion string
}

// Option is a functional option for configuring a Builder.
type Option func(*Builder)

// WithWorkRoot sets the folder build trees are created under.
func WithWorkRoot(dir string) Option {
	return func(b *Builder) {
		b.workRoot = dir
	}
}

// WithFetcher overrides the source fetcher.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(b *Builder) {
		b.fetcher = f
	}
}

// WithRunnerOptions passes options through to the tool runner.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(b *Builder) {
		b.runnerOpts = append(b.runnerOpts, opts...)
	}
}

// WithToolVersion records the crucible version in result headers.
func WithToolVersion(v string) Option {
	return func(b *Builder) {
		b.toolVersion = v
	}
}

// New creates a Builder. Without options, build trees land under the system
// temp folder.
func New(opts ...Option) *Builder {
	b := &Builder{
		workRoot: filepath.Join(os.TempDir(), "crucible"),
		fetcher:  fetch.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the full lifecycle for one recipe against one profile. The
// returned result carries the package folder location and the exported
// package metadata. The build tree (sources, build dir) is kept for
// inspection; only the downloaded archive is removed.
func (b *Builder) Build(ctx context.Context, d recipe.Definition, p *recipe.Profile, overrides map[string]string) (*Result, error) {
	if p == nil {
		p = recipe.HostProfile()
	}

	name := d.Metadata().Name
	ver := d.Version().Full()
	buildID := uuid.NewString()
	start := time.Now()

	set, err := recipe.Resolve(d, p, overrides)
	if err != nil {
		buildsTotal.WithLabelValues(name, "resolve_failed").Inc()
		return nil, err
	}

	src, err := d.Source()
	if err != nil {
		buildsTotal.WithLabelValues(name, "no_source").Inc()
		return nil, err
	}

	tree := filepath.Join(b.workRoot, fmt.Sprintf("%s-%s-%s", name, ver, buildID[:8]))
	srcDir := filepath.Join(tree, "src")
	buildDir := filepath.Join(tree, "build")
	pkgDir := filepath.Join(tree, "pkg")

	for _, dir := range []string{srcDir, buildDir, pkgDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create build tree: %w", err)
		}
	}

	slog.Info("starting build",
		"recipe", name,
		"version", ver,
		"profile", p.String(),
		"buildId", buildID,
		"tree", tree)

	if err := b.fetcher.Source(ctx, src.URL, src.SHA256, srcDir, src.StripRoot); err != nil {
		buildsTotal.WithLabelValues(name, "fetch_failed").Inc()
		return nil, err
	}

	tc, err := d.Toolchain(p, set)
	if err != nil {
		buildsTotal.WithLabelValues(name, "toolchain_failed").Inc()
		return nil, err
	}

	run := runner.New(b.runnerOpts...)

	steps := []struct {
		name string
		run  func() error
	}{
		{"configure", func() error {
			return run.Run(ctx, tc.Configure(srcDir, buildDir, pkgDir), defaults.ConfigureTimeout)
		}},
		{"build", func() error {
			return run.Run(ctx, tc.Build(buildDir), defaults.BuildTimeout)
		}},
		{"install", func() error {
			return run.Run(ctx, tc.Install(buildDir), defaults.InstallTimeout)
		}},
	}

	for _, step := range steps {
		stepStart := time.Now()
		if err := step.run(); err != nil {
			buildsTotal.WithLabelValues(name, step.name+"_failed").Inc()
			return nil, err
		}
		stepDuration.WithLabelValues(name, step.name).Observe(time.Since(stepStart).Seconds())
	}

	if err := d.Package(layout.New(pkgDir), srcDir); err != nil {
		buildsTotal.WithLabelValues(name, "package_failed").Inc()
		return nil, err
	}

	info, err := d.PackageInfo(p, set)
	if err != nil {
		buildsTotal.WithLabelValues(name, "metadata_failed").Inc()
		return nil, err
	}
	if err := info.Validate(); err != nil {
		buildsTotal.WithLabelValues(name, "metadata_failed").Inc()
		return nil, err
	}

	elapsed := time.Since(start)
	buildsTotal.WithLabelValues(name, "success").Inc()
	buildDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	result := &Result{
		BuildID:    buildID,
		Recipe:     name,
		Version:    ver,
		Profile:    p.String(),
		Options:    optionStrings(set),
		PackageDir: pkgDir,
		Duration:   elapsed.Round(time.Millisecond).String(),
		Package:    info,
	}
	result.Init(header.KindBuildResult, buildResultAPIVersion, b.toolVersion)

	slog.Info("build finished",
		"recipe", name,
		"version", ver,
		"buildId", buildID,
		"duration", result.Duration)

	return result, nil
}

func optionStrings(set recipe.OptionSet) map[string]string {
	out := make(map[string]string, len(set))
	for _, name := range set.SortedNames() {
		out[name] = set.Value(name).String()
	}
	return out
}
