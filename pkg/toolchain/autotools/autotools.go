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

// Package autotools renders recipe options into Autotools invocations:
// configure flags in --enable-x/--with-x form, make arguments, and extra
// linker flags carried through the LDFLAGS environment.
package autotools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/crucible-build/crucible/pkg/toolchain"
)

// Toolchain accumulates configure and make arguments. Argument order is
// append order, matching how recipes declare flags.
type Toolchain struct {
	configureArgs []string
	makeArgs      []string
	extraLDFlags  []string
}

// New creates an empty Autotools toolchain.
func New() *Toolchain {
	return &Toolchain{}
}

// YesNo renders a boolean the way configure scripts expect.
func YesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// Enable appends --enable-<name>=yes|no.
func (t *Toolchain) Enable(name string, on bool) {
	t.configureArgs = append(t.configureArgs, fmt.Sprintf("--enable-%s=%s", name, YesNo(on)))
}

// Disable appends --disable-<name>.
func (t *Toolchain) Disable(name string) {
	t.configureArgs = append(t.configureArgs, "--disable-"+name)
}

// With appends --with-<name>=yes|no.
func (t *Toolchain) With(name string, on bool) {
	t.configureArgs = append(t.configureArgs, fmt.Sprintf("--with-%s=%s", name, YesNo(on)))
}

// WithValue appends --with-<name>=<value>.
func (t *Toolchain) WithValue(name, value string) {
	t.configureArgs = append(t.configureArgs, fmt.Sprintf("--with-%s=%s", name, value))
}

// Without appends --without-<name>.
func (t *Toolchain) Without(name string) {
	t.configureArgs = append(t.configureArgs, "--without-"+name)
}

// AddConfigureArgs appends raw configure arguments.
func (t *Toolchain) AddConfigureArgs(args ...string) {
	t.configureArgs = append(t.configureArgs, args...)
}

// AddMakeArgs appends raw make arguments (e.g. "V=1").
func (t *Toolchain) AddMakeArgs(args ...string) {
	t.makeArgs = append(t.makeArgs, args...)
}

// AddLDFlags appends extra linker flags passed via the LDFLAGS environment.
func (t *Toolchain) AddLDFlags(flags ...string) {
	t.extraLDFlags = append(t.extraLDFlags, flags...)
}

// ConfigureArgs returns the accumulated configure arguments.
func (t *Toolchain) ConfigureArgs() []string {
	return append([]string(nil), t.configureArgs...)
}

// System implements toolchain.Toolchain.
func (t *Toolchain) System() toolchain.System {
	return toolchain.SystemAutotools
}

// Configure returns the configure invocation. The configure script is
// expected at <sourceDir>/configure; the build runs out-of-source from
// buildDir.
func (t *Toolchain) Configure(sourceDir, buildDir, installPrefix string) toolchain.Invocation {
	args := []string{filepath.Join(sourceDir, "configure")}
	if installPrefix != "" {
		args = append(args, "--prefix="+installPrefix)
	}
	args = append(args, t.configureArgs...)

	return toolchain.Invocation{
		Args: args,
		Env:  t.env(),
	}
}

// Build returns the make invocation.
func (t *Toolchain) Build(_ string) toolchain.Invocation {
	args := append([]string{"make"}, t.makeArgs...)
	return toolchain.Invocation{Args: args}
}

// Install returns the make install invocation.
func (t *Toolchain) Install(_ string) toolchain.Invocation {
	return toolchain.Invocation{Args: []string{"make", "install"}}
}

func (t *Toolchain) env() []string {
	if len(t.extraLDFlags) == 0 {
		return nil
	}
	return []string{"LDFLAGS=" + strings.Join(t.extraLDFlags, " ")}
}
