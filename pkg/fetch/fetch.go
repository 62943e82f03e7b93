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

// Package fetch downloads and unpacks source archives. Downloads are
// digest-verified before extraction and can be bandwidth-limited.
package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/crucible-build/crucible/pkg/defaults"
	"github.com/crucible-build/crucible/pkg/errors"
)

// Fetcher downloads source archives over HTTP.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// Option is a functional option for configuring a Fetcher.
type Option func(*Fetcher)

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithRateLimit caps download bandwidth at bytesPerSecond with the given
// burst. A zero rate disables limiting.
func WithRateLimit(bytesPerSecond, burst int) Option {
	return func(f *Fetcher) {
		if bytesPerSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(bytesPerSecond), burst)
		}
	}
}

// New creates a Fetcher with the default timeout and the configured rate
// limit.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaults.FetchTimeout},
	}
	if defaults.FetchRateBytesPerSecond > 0 {
		f.limiter = rate.NewLimiter(
			rate.Limit(defaults.FetchRateBytesPerSecond),
			defaults.FetchRateBurstBytes)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Archive downloads the archive at url into dir and verifies its sha256
// digest. The digest must be lowercase hex. On mismatch the partial file is
// removed and a CHECKSUM_MISMATCH error returned.
func (f *Fetcher) Archive(ctx context.Context, url, digest, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid archive url", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "archive download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf(errors.ErrCodeInternal,
			"archive download failed: %s returned %s", url, resp.Status)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	path := filepath.Join(dir, archiveName(url))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}

	hasher := sha256.New()
	var body io.Reader = resp.Body
	if f.limiter != nil {
		body = &limitedReader{ctx: ctx, r: resp.Body, limiter: f.limiter}
	}

	written, err := io.Copy(io.MultiWriter(out, hasher), body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", errors.Wrap(errors.ErrCodeInternal, "archive download failed", err)
	}

	got := hex.EncodeToString(hasher.Sum(nil))
	if got != digest {
		os.Remove(path)
		return "", errors.NewWithContext(errors.ErrCodeChecksumMismatch,
			"archive digest mismatch", map[string]any{
				"url":      url,
				"expected": digest,
				"actual":   got,
			})
	}

	slog.Debug("downloaded archive", "url", url, "bytes", written, "path", path)
	return path, nil
}

// Extract unpacks a gzip-compressed tarball into destDir. With stripRoot the
// single top-level directory of the archive is dropped, the layout used by
// release tarballs.
func (f *Fetcher) Extract(archivePath, destDir string, stripRoot bool) error {
	in, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("archive is not gzip-compressed: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create extraction dir: %w", err)
	}

	// All writes go through an os.Root so a path routed through a
	// symlinked directory cannot land outside destDir.
	root, err := os.OpenRoot(destDir)
	if err != nil {
		return fmt.Errorf("failed to open extraction dir: %w", err)
	}
	defer root.Close()

	tr := tar.NewReader(gz)
	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive entry: %w", err)
		}

		name := hdr.Name
		if stripRoot {
			if name = stripRootComponent(name); name == "" {
				continue
			}
		}

		rel, err := securePath(name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := root.MkdirAll(rel, 0o755); err != nil {
				return fmt.Errorf("failed to create dir %s: %w", name, err)
			}
		case tar.TypeReg:
			if dir := filepath.Dir(rel); dir != "." {
				if err := root.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create dir for %s: %w", name, err)
				}
			}
			out, err := root.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", name, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("failed to extract %s: %w", name, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
			count++
		case tar.TypeSymlink:
			if err := secureLink(rel, hdr.Linkname); err != nil {
				return err
			}
			if dir := filepath.Dir(rel); dir != "." {
				if err := root.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create dir for %s: %w", name, err)
				}
			}
			if err := root.Symlink(hdr.Linkname, rel); err != nil && !os.IsExist(err) {
				return fmt.Errorf("failed to link %s: %w", name, err)
			}
		}
	}

	slog.Debug("extracted archive", "archive", archivePath, "files", count, "dest", destDir)
	return nil
}

// Source downloads and unpacks an archive in one step, removing the archive
// file afterwards.
func (f *Fetcher) Source(ctx context.Context, url, digest, destDir string, stripRoot bool) error {
	archive, err := f.Archive(ctx, url, digest, destDir)
	if err != nil {
		return err
	}
	defer os.Remove(archive)
	return f.Extract(archive, destDir, stripRoot)
}

// limitedReader throttles reads through a token bucket.
type limitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if burst := l.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.limiter.WaitN(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func archiveName(url string) string {
	name := url
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		name = "source.tar.gz"
	}
	return name
}

func stripRootComponent(name string) string {
	name = strings.TrimPrefix(name, "./")
	i := strings.Index(name, "/")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// securePath normalizes an archive entry name to a relative path and
// rejects entries that point outside the extraction dir.
func securePath(name string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes extraction dir", name)
	}
	return rel, nil
}

// secureLink rejects symlink entries whose target resolves outside the
// extraction dir.
func secureLink(rel, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("archive link %q has absolute target %q", rel, linkname)
	}
	resolved := filepath.Join(filepath.Dir(rel), filepath.FromSlash(linkname))
	if resolved == ".." || strings.HasPrefix(resolved, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("archive link %q escapes extraction dir", rel)
	}
	return nil
}
