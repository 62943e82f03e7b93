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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/crucible-build/crucible/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry targets
// (e.g. "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// Reference is a parsed export target: either an OCI registry reference or a
// local directory path.
type Reference struct {
	// IsOCI indicates an OCI registry reference (true) or local path (false).
	IsOCI bool

	// Registry is the registry host (e.g. "ghcr.io", "localhost:5000").
	Registry string

	// Repository is the image repository path (e.g. "acme/recipes").
	Repository string

	// Tag is the image tag. Empty means no tag was specified; the caller
	// applies a default.
	Tag string

	// LocalPath is the local directory for non-OCI targets.
	LocalPath string
}

// ParseTarget parses an export target string. Targets with the oci:// scheme
// parse as image references; anything else is a local directory path.
func ParseTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// String returns the full target string: "oci://registry/repository:tag" for
// OCI references, the local path otherwise.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference returns the Docker-style reference without the oci://
// scheme, or empty for local targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the given tag. Local targets
// are returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	return &Reference{
		IsOCI:      true,
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}
