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

// Package recipes assembles the built-in recipe catalog.
package recipes

import (
	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/recipes/cppcheck"
	"github.com/crucible-build/crucible/pkg/recipes/imagemagick"
	"github.com/crucible-build/crucible/pkg/recipes/vectorscan"
)

// NewRegistry returns a registry with every built-in recipe registered.
func NewRegistry() *recipe.Registry {
	r := recipe.NewRegistry()
	r.Register(cppcheck.Name, cppcheck.Versions(), cppcheck.New)
	r.Register(imagemagick.Name, imagemagick.Versions(), imagemagick.New)
	r.Register(vectorscan.Name, vectorscan.Versions(), vectorscan.New)
	return r
}
