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
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	apperrors "github.com/crucible-build/crucible/pkg/errors"
)

// ArtifactType is the media type for crucible recipe exports.
const ArtifactType = "application/vnd.crucible.recipe"

// PushOptions configures an export push.
type PushOptions struct {
	// SourceDir is the directory holding the exported metadata files.
	SourceDir string

	// Reference is the parsed registry target; it must be an OCI reference
	// with a tag.
	Reference *Reference

	// Annotations are additional manifest annotations.
	Annotations map[string]string

	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool

	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult is the outcome of a successful push.
type PushResult struct {
	// Digest is the sha256 digest of the pushed manifest.
	Digest string

	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Push packs the export directory as an OCI 1.1 artifact and pushes it.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil || !opts.Reference.IsOCI {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			"an oci:// registry reference is required to push")
	}
	if opts.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			"a tag is required to push an export")
	}

	refString := opts.Reference.ImageReference()
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference %q", refString), err)
	}

	// Absolute path avoids ORAS working-directory surprises.
	absDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export directory: %w", err)
	}

	fs, err := file.New(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to add export directory to store: %w", err)
	}

	packOpts := oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: opts.Annotations,
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}

	if err := fs.Tag(ctx, manifestDesc, opts.Reference.Tag); err != nil {
		return nil, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}

	repo, err := remote.NewRepository(
		fmt.Sprintf("%s/%s", stripProtocol(opts.Reference.Registry), opts.Reference.Repository))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = newAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	slog.Info("pushing export",
		"reference", refString,
		"artifactType", ArtifactType)

	desc, err := oras.Copy(ctx, fs, opts.Reference.Tag, repo, opts.Reference.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to push export to registry: %w", err)
	}

	slog.Info("export pushed", "reference", refString, "digest", desc.Digest.String())

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// stripProtocol removes an http:// or https:// prefix from a registry host.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

// newAuthClient builds an HTTP client with Docker credential support and
// optional TLS relaxation.
func newAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
