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

// Package defaults centralizes timeout and limit constants so individual
// packages do not scatter magic numbers.
package defaults

import "time"

// Fetch limits for source archive downloads.
const (
	// FetchTimeout is the default timeout for downloading a single source
	// archive. Large release tarballs (ImageMagick) can take a while on
	// slow links.
	FetchTimeout = 15 * time.Minute

	// FetchRateBytesPerSecond caps download bandwidth. Zero disables the
	// limiter.
	FetchRateBytesPerSecond = 0

	// FetchRateBurstBytes is the token bucket burst size used when the
	// rate limiter is enabled.
	FetchRateBurstBytes = 1 << 20
)

// Build timeouts for wrapped external tools.
const (
	// ConfigureTimeout bounds configure/cmake generation steps.
	ConfigureTimeout = 15 * time.Minute

	// BuildTimeout bounds the compile step. C++ builds of the wrapped
	// libraries routinely run for tens of minutes.
	BuildTimeout = 2 * time.Hour

	// InstallTimeout bounds the install/package step.
	InstallTimeout = 15 * time.Minute
)

// Export timeouts for metadata publication.
const (
	// PushTimeout bounds an OCI artifact push.
	PushTimeout = 5 * time.Minute
)

// Registry limits for recipe verification.
const (
	// VerifyConcurrency caps concurrent recipe consistency checks.
	VerifyConcurrency = 4
)
