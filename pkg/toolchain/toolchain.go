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

// Package toolchain defines the common surface for build-system argument
// generation. Recipes translate their resolved option sets into a Toolchain,
// which the build pipeline turns into external tool invocations.
package toolchain

// System identifies the external build system driving a recipe.
type System string

const (
	// SystemCMake drives builds through cmake configure/build/install.
	SystemCMake System = "cmake"
	// SystemAutotools drives builds through configure/make/make install.
	SystemAutotools System = "autotools"
)

// String returns the string representation of the System.
func (s System) String() string {
	return string(s)
}

// IsValid checks if the System is one of the recognized build systems.
func (s System) IsValid() bool {
	switch s {
	case SystemCMake, SystemAutotools:
		return true
	default:
		return false
	}
}

// Invocation is a single external tool invocation: argv plus extra
// environment entries in KEY=VALUE form.
type Invocation struct {
	Args []string `json:"args" yaml:"args"`
	Env  []string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Toolchain produces the external tool invocations for one build. Dirs are
// supplied by the build pipeline: source directory, build directory, and
// final install prefix.
type Toolchain interface {
	// System identifies the wrapped build system.
	System() System

	// Configure returns the generation/configure step invocation.
	Configure(sourceDir, buildDir, installPrefix string) Invocation

	// Build returns the compile step invocation.
	Build(buildDir string) Invocation

	// Install returns the install step invocation.
	Install(buildDir string) Invocation
}
