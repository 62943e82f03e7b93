package build

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-build/crucible/pkg/header"
	"github.com/crucible-build/crucible/pkg/layout"
	"github.com/crucible-build/crucible/pkg/pkginfo"
	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/runner"
	"github.com/crucible-build/crucible/pkg/toolchain"
	"github.com/crucible-build/crucible/pkg/version"
)

func runnerOutput(w io.Writer) []runner.Option {
	return []runner.Option{runner.WithOutput(w, w)}
}

// fakeToolchain simulates configure/build/install with shell one-liners.
type fakeToolchain struct {
	prefix string
}

func (f *fakeToolchain) System() toolchain.System {
	return toolchain.SystemCMake
}

func (f *fakeToolchain) Configure(sourceDir, buildDir, installPrefix string) toolchain.Invocation {
	f.prefix = installPrefix
	return toolchain.Invocation{
		Args: []string{"sh", "-c", fmt.Sprintf("test -f %s/configure", sourceDir)},
	}
}

func (f *fakeToolchain) Build(_ string) toolchain.Invocation {
	return toolchain.Invocation{Args: []string{"sh", "-c", "true"}}
}

func (f *fakeToolchain) Install(_ string) toolchain.Invocation {
	return toolchain.Invocation{
		Args: []string{"sh", "-c", fmt.Sprintf("mkdir -p %s/lib && touch %s/lib/libstub.a", f.prefix, f.prefix)},
	}
}

// stubDefinition is a minimal buildable recipe backed by fakeToolchain.
type stubDefinition struct {
	src recipe.Source
}

func (d *stubDefinition) Metadata() *recipe.Metadata {
	return &recipe.Metadata{
		Name:        "stub",
		License:     "MIT",
		PackageType: recipe.PackageLibrary,
	}
}

func (d *stubDefinition) Version() version.Version {
	return version.MustParseVersion("1.0.0")
}

func (d *stubDefinition) Options() recipe.Options {
	return recipe.Options{"shared": recipe.Bool(false)}
}

func (d *stubDefinition) Source() (recipe.Source, error) {
	return d.src, nil
}

func (d *stubDefinition) ConfigOptions(_ *recipe.Profile, _ recipe.Options) {}
func (d *stubDefinition) Configure(_ *recipe.Profile, _ recipe.OptionSet)  {}

func (d *stubDefinition) Validate(_ *recipe.Profile, _ recipe.OptionSet) error {
	return nil
}

func (d *stubDefinition) Requirements(_ recipe.OptionSet) []recipe.Requirement {
	return nil
}

func (d *stubDefinition) Toolchain(_ *recipe.Profile, _ recipe.OptionSet) (toolchain.Toolchain, error) {
	return &fakeToolchain{}, nil
}

func (d *stubDefinition) Package(lay *layout.Layout, sourceDir string) error {
	return lay.CopyLicense(sourceDir, "COPYING")
}

func (d *stubDefinition) PackageInfo(_ *recipe.Profile, _ recipe.OptionSet) (*pkginfo.Package, error) {
	p := pkginfo.New("stub", "1.0.0")
	c := p.AddComponent("stub")
	c.Libs = []string{"stub"}
	return p, nil
}

func makeSourceTarball(t *testing.T) []byte {
	t.Helper()

	files := map[string]string{
		"stub-1.0.0/configure": "#!/bin/sh",
		"stub-1.0.0/COPYING":   "MIT license text",
	}

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

func linuxProfile() *recipe.Profile {
	return &recipe.Profile{
		Os:        recipe.OsLinux,
		Arch:      recipe.ArchX8664,
		Compiler:  recipe.CompilerGcc,
		BuildType: recipe.BuildRelease,
	}
}

func TestBuildEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test shells out to sh")
	}

	payload := makeSourceTarball(t)
	sum := sha256.Sum256(payload)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	d := &stubDefinition{src: recipe.Source{
		URL:       srv.URL + "/stub-1.0.0.tar.gz",
		SHA256:    hex.EncodeToString(sum[:]),
		StripRoot: true,
	}}

	var toolOut bytes.Buffer
	b := New(
		WithWorkRoot(t.TempDir()),
		WithToolVersion("test"),
		WithRunnerOptions(runnerOutput(&toolOut)...),
	)

	result, err := b.Build(context.Background(), d, linuxProfile(), nil)
	require.NoError(t, err)

	assert.Equal(t, header.KindBuildResult, result.Kind)
	assert.NotEmpty(t, result.BuildID)
	assert.Equal(t, "stub", result.Recipe)
	assert.Equal(t, "1.0.0", result.Version)
	assert.Equal(t, "linux/x86_64/gcc/Release", result.Profile)
	assert.Equal(t, map[string]string{"shared": "false"}, result.Options)
	require.NotNil(t, result.Package)

	// The install step and the package step both left their marks.
	_, err = os.Stat(filepath.Join(result.PackageDir, "lib", "libstub.a"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(result.PackageDir, "licenses", "COPYING"))
	assert.NoError(t, err)
}

func TestBuildChecksumMismatchAborts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test shells out to sh")
	}

	payload := makeSourceTarball(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	sum := sha256.Sum256([]byte("tampered"))
	d := &stubDefinition{src: recipe.Source{
		URL:       srv.URL + "/stub-1.0.0.tar.gz",
		SHA256:    hex.EncodeToString(sum[:]),
		StripRoot: true,
	}}

	b := New(WithWorkRoot(t.TempDir()))
	_, err := b.Build(context.Background(), d, linuxProfile(), nil)
	assert.Error(t, err)
}

func TestBuildRejectsUnknownOption(t *testing.T) {
	d := &stubDefinition{}
	b := New(WithWorkRoot(t.TempDir()))

	_, err := b.Build(context.Background(), d, linuxProfile(), map[string]string{"hdri": "true"})
	assert.Error(t, err)
}
