package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-build/crucible/pkg/errors"
)

// makeTarball builds a gzip-compressed tarball from path->content pairs.
func makeTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// tarEntry is one archive member for makeEntryTarball.
type tarEntry struct {
	name     string
	content  string
	linkname string
	typeflag byte
}

// makeEntryTarball builds a gzip-compressed tarball from explicit entries,
// preserving order so symlinks can precede files routed through them.
func makeEntryTarball(t *testing.T, entries []tarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     e.name,
			Mode:     0o644,
			Size:     int64(len(e.content)),
			Linkname: e.linkname,
			Typeflag: e.typeflag,
		}))
		if e.content != "" {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestArchiveDownloadAndVerify(t *testing.T) {
	payload := makeTarball(t, map[string]string{"pkg-1.0/README": "hello"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	f := New()
	path, err := f.Archive(context.Background(), srv.URL+"/pkg-1.0.tar.gz", digestOf(payload), t.TempDir())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "pkg-1.0.tar.gz", filepath.Base(path))
}

func TestArchiveChecksumMismatch(t *testing.T) {
	payload := makeTarball(t, map[string]string{"a": "x"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := New()
	_, err := f.Archive(context.Background(), srv.URL+"/a.tar.gz", digestOf([]byte("other")), dir)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeChecksumMismatch, errors.CodeOf(err))

	// The partial download must not survive a failed verification.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArchiveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New()
	_, err := f.Archive(context.Background(), srv.URL+"/a.tar.gz", digestOf(nil), t.TempDir())
	assert.Error(t, err)
}

func TestExtractStripRoot(t *testing.T) {
	payload := makeTarball(t, map[string]string{
		"pkg-1.0/src/main.c": "int main(){}",
		"pkg-1.0/COPYING":    "license",
	})

	archive := filepath.Join(t.TempDir(), "pkg.tar.gz")
	require.NoError(t, os.WriteFile(archive, payload, 0o644))

	dest := t.TempDir()
	f := New()
	require.NoError(t, f.Extract(archive, dest, true))

	got, err := os.ReadFile(filepath.Join(dest, "src", "main.c"))
	require.NoError(t, err)
	assert.Equal(t, "int main(){}", string(got))

	_, err = os.Stat(filepath.Join(dest, "COPYING"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "pkg-1.0"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractNoStrip(t *testing.T) {
	payload := makeTarball(t, map[string]string{"pkg-1.0/README": "hi"})

	archive := filepath.Join(t.TempDir(), "pkg.tar.gz")
	require.NoError(t, os.WriteFile(archive, payload, 0o644))

	dest := t.TempDir()
	f := New()
	require.NoError(t, f.Extract(archive, dest, false))

	_, err := os.Stat(filepath.Join(dest, "pkg-1.0", "README"))
	assert.NoError(t, err)
}

func TestExtractRejectsPathTraversal(t *testing.T) {
	payload := makeTarball(t, map[string]string{"../evil": "x"})

	archive := filepath.Join(t.TempDir(), "evil.tar.gz")
	require.NoError(t, os.WriteFile(archive, payload, 0o644))

	f := New()
	assert.Error(t, f.Extract(archive, t.TempDir(), false))
}

func TestExtractRejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	payload := makeEntryTarball(t, []tarEntry{
		{name: "evil", linkname: outside, typeflag: tar.TypeSymlink},
		{name: "evil/payload.txt", content: "pwned", typeflag: tar.TypeReg},
	})

	archive := filepath.Join(t.TempDir(), "evil.tar.gz")
	require.NoError(t, os.WriteFile(archive, payload, 0o644))

	f := New()
	assert.Error(t, f.Extract(archive, t.TempDir(), false))

	// Nothing may land outside the extraction dir.
	_, err := os.Stat(filepath.Join(outside, "payload.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractRejectsRelativeSymlinkEscape(t *testing.T) {
	payload := makeEntryTarball(t, []tarEntry{
		{name: "sub/evil", linkname: "../../outside", typeflag: tar.TypeSymlink},
	})

	archive := filepath.Join(t.TempDir(), "evil.tar.gz")
	require.NoError(t, os.WriteFile(archive, payload, 0o644))

	f := New()
	assert.Error(t, f.Extract(archive, t.TempDir(), false))
}

func TestExtractAllowsInternalSymlink(t *testing.T) {
	payload := makeEntryTarball(t, []tarEntry{
		{name: "lib/libhs.so.5", content: "elf", typeflag: tar.TypeReg},
		{name: "lib/libhs.so", linkname: "libhs.so.5", typeflag: tar.TypeSymlink},
	})

	archive := filepath.Join(t.TempDir(), "pkg.tar.gz")
	require.NoError(t, os.WriteFile(archive, payload, 0o644))

	dest := t.TempDir()
	f := New()
	require.NoError(t, f.Extract(archive, dest, false))

	got, err := os.ReadFile(filepath.Join(dest, "lib", "libhs.so"))
	require.NoError(t, err)
	assert.Equal(t, "elf", string(got))
}

func TestSourceEndToEnd(t *testing.T) {
	payload := makeTarball(t, map[string]string{"pkg-2.0/configure": "#!/bin/sh"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := t.TempDir()
	f := New(WithRateLimit(1<<30, 1<<20))
	require.NoError(t, f.Source(context.Background(), srv.URL+"/pkg-2.0.tar.gz", digestOf(payload), dest, true))

	_, err := os.Stat(filepath.Join(dest, "configure"))
	assert.NoError(t, err)

	// The archive file itself is cleaned up after extraction.
	_, err = os.Stat(filepath.Join(dest, "pkg-2.0.tar.gz"))
	assert.True(t, os.IsNotExist(err))
}
