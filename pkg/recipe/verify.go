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

package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/crucible-build/crucible/pkg/defaults"
	"github.com/crucible-build/crucible/pkg/header"
	"github.com/crucible-build/crucible/pkg/version"
)

const verificationAPIVersion = "v1"

// CheckResult captures the consistency checks run against one recipe at one
// version.
type CheckResult struct {
	// Recipe is the recipe name.
	Recipe string `json:"recipe" yaml:"recipe"`

	// Version is the package version the checks ran against.
	Version string `json:"version" yaml:"version"`

	// Checks lists the names of the checks that ran.
	Checks []string `json:"checks" yaml:"checks"`

	// Errors lists the failures, empty when the recipe is consistent.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// OK reports whether all checks passed.
func (c *CheckResult) OK() bool {
	return len(c.Errors) == 0
}

func (c *CheckResult) check(name string, err error) {
	c.Checks = append(c.Checks, name)
	if err != nil {
		c.Errors = append(c.Errors, fmt.Sprintf("%s: %v", name, err))
	}
}

// VerificationResult aggregates the consistency checks for every registered
// recipe/version pair.
type VerificationResult struct {
	header.Header `json:",inline" yaml:",inline"`

	// Checked is the number of recipe/version pairs examined.
	Checked int `json:"checked" yaml:"checked"`

	// Failed is the number of pairs with at least one failing check.
	Failed int `json:"failed" yaml:"failed"`

	// Results holds the per-pair outcomes sorted by recipe then version.
	Results []*CheckResult `json:"results" yaml:"results"`
}

// OK reports whether every recipe passed every check.
func (r *VerificationResult) OK() bool {
	return r.Failed == 0
}

// VerifyAll runs static consistency checks across every registered recipe at
// every registered version: option defaults belong to their enumerations,
// source archives carry well-formed digests, requirement version ranges
// parse, and the exported component graph is structurally valid. Recipes are
// checked concurrently; toolVersion is recorded in the result header.
func (r *Registry) VerifyAll(ctx context.Context, toolVersion string) (*VerificationResult, error) {
	result := &VerificationResult{}
	result.Init(header.KindVerificationResult, verificationAPIVersion, toolVersion)

	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.VerifyConcurrency)

	for _, name := range r.Names() {
		for _, ver := range r.Versions(name) {
			name, ver := name, ver
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				cr := r.verifyOne(name, ver)
				mu.Lock()
				result.Checked++
				if !cr.OK() {
					result.Failed++
				}
				result.Results = append(result.Results, cr)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Results, func(i, j int) bool {
		a, b := result.Results[i], result.Results[j]
		if a.Recipe != b.Recipe {
			return a.Recipe < b.Recipe
		}
		return a.Version < b.Version
	})

	slog.Debug("verified recipes",
		"checked", result.Checked,
		"failed", result.Failed)

	return result, nil
}

// verifyOne runs the check battery for one recipe/version pair. Checks are
// run against a canonical linux/gcc profile with default options: the one
// configuration every wrapped library supports.
func (r *Registry) verifyOne(name, ver string) *CheckResult {
	cr := &CheckResult{Recipe: name, Version: ver}

	v, err := version.ParseVersion(ver)
	cr.check("version", err)
	if err != nil {
		return cr
	}

	d, err := r.Resolve(name, v)
	cr.check("factory", err)
	if err != nil {
		return cr
	}

	cr.check("metadata", d.Metadata().Validate())
	cr.check("options", d.Options().Validate())

	src, err := d.Source()
	cr.check("source", err)
	if err == nil {
		cr.check("source-digest", src.Validate())
	}

	p := &Profile{
		Os:        OsLinux,
		Arch:      ArchX8664,
		Compiler:  CompilerGcc,
		BuildType: BuildRelease,
	}

	set, err := Resolve(d, p, nil)
	cr.check("resolve", err)
	if err != nil {
		return cr
	}

	for _, req := range d.Requirements(set) {
		cr.check("requirement "+req.Name, req.Validate())
	}

	tc, err := d.Toolchain(p, set)
	cr.check("toolchain", err)
	if err == nil && tc == nil {
		cr.Errors = append(cr.Errors, "toolchain: nil toolchain without error")
	}

	info, err := d.PackageInfo(p, set)
	cr.check("package-info", err)
	if err == nil {
		cr.check("component-graph", info.Validate())
	}

	return cr
}
