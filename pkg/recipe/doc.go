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

// Package recipe defines the recipe model: declarative descriptions that
// tell crucible how to fetch, configure, build, and expose third-party
// C/C++ libraries as consumable packages.
//
// A recipe is a Definition: metadata (name, license, homepage), an option
// table (enumerated values with defaults), per-version source archives, and
// lifecycle hooks that translate a resolved option set into conditional
// dependency requirements, build-tool arguments, install layout steps, and
// exported package metadata.
//
// Option resolution follows a fixed sequence (see Resolve): the option
// table is adjusted for the target platform, defaults are validated against
// their enumerations, user overrides are applied and checked for
// membership, post-resolution adjustments run (e.g. dropping fPIC for
// shared builds), and finally the definition rejects unsupported
// platform/option combinations as invalid configurations.
//
// Registry holds the known definitions and runs the configuration
// consistency checks across all of them: every default belongs to its
// enumeration, every requirement version range is well-formed, and every
// exported component graph is structurally valid.
package recipe
