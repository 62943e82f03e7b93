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

// Package cmake renders recipe options into CMake invocations: -D variable
// definitions for the configure step, plus build and install steps.
package cmake

import (
	"fmt"
	"sort"

	"github.com/crucible-build/crucible/pkg/toolchain"
)

// Toolchain accumulates CMake variables and produces deterministic
// configure/build/install invocations. Variable rendering is sorted so the
// same option set always yields the same argv.
type Toolchain struct {
	// Generator selects the CMake generator (empty uses the cmake default).
	Generator string

	// BuildType sets CMAKE_BUILD_TYPE.
	BuildType string

	variables      map[string]any
	cacheVariables map[string]any
}

// New creates an empty CMake toolchain.
func New() *Toolchain {
	return &Toolchain{
		variables:      make(map[string]any),
		cacheVariables: make(map[string]any),
	}
}

// Set defines a CMake variable. Accepted value types: bool (rendered as
// ON/OFF), string, and integers.
func (t *Toolchain) Set(name string, value any) {
	t.variables[name] = value
}

// SetCache defines a CMake cache variable, rendered with a STRING type tag.
func (t *Toolchain) SetCache(name string, value any) {
	t.cacheVariables[name] = value
}

// Variable returns the value of a previously set variable and whether it
// was present.
func (t *Toolchain) Variable(name string) (any, bool) {
	v, ok := t.variables[name]
	return v, ok
}

// System implements toolchain.Toolchain.
func (t *Toolchain) System() toolchain.System {
	return toolchain.SystemCMake
}

// Configure returns the cmake generation invocation for the given dirs.
func (t *Toolchain) Configure(sourceDir, buildDir, installPrefix string) toolchain.Invocation {
	args := []string{"cmake", "-S", sourceDir, "-B", buildDir}

	if t.Generator != "" {
		args = append(args, "-G", t.Generator)
	}
	if t.BuildType != "" {
		args = append(args, fmt.Sprintf("-DCMAKE_BUILD_TYPE=%s", t.BuildType))
	}
	if installPrefix != "" {
		args = append(args, fmt.Sprintf("-DCMAKE_INSTALL_PREFIX=%s", installPrefix))
	}

	for _, name := range sortedKeys(t.variables) {
		args = append(args, fmt.Sprintf("-D%s=%s", name, FormatValue(t.variables[name])))
	}
	for _, name := range sortedKeys(t.cacheVariables) {
		args = append(args, fmt.Sprintf("-D%s:STRING=%s", name, FormatValue(t.cacheVariables[name])))
	}

	return toolchain.Invocation{Args: args}
}

// Build returns the cmake build invocation.
func (t *Toolchain) Build(buildDir string) toolchain.Invocation {
	args := []string{"cmake", "--build", buildDir}
	if t.BuildType != "" {
		args = append(args, "--config", t.BuildType)
	}
	return toolchain.Invocation{Args: args}
}

// Install returns the cmake install invocation.
func (t *Toolchain) Install(buildDir string) toolchain.Invocation {
	return toolchain.Invocation{Args: []string{"cmake", "--install", buildDir}}
}

// FormatValue renders a variable value the way CMake expects: booleans as
// ON/OFF, everything else via default formatting.
func FormatValue(v any) string {
	switch tv := v.(type) {
	case bool:
		if tv {
			return "ON"
		}
		return "OFF"
	case string:
		return tv
	default:
		return fmt.Sprintf("%v", tv)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
