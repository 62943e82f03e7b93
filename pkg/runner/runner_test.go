package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-build/crucible/pkg/errors"
	"github.com/crucible-build/crucible/pkg/toolchain"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test shells out to sh")
	}
}

func TestRunSuccess(t *testing.T) {
	skipOnWindows(t)

	var out bytes.Buffer
	r := New(WithOutput(&out, &out))

	err := r.Run(context.Background(), toolchain.Invocation{
		Args: []string{"sh", "-c", "echo configured"},
	}, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "configured")
}

func TestRunEmptyInvocation(t *testing.T) {
	r := New()
	err := r.Run(context.Background(), toolchain.Invocation{}, time.Minute)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestRunToolFailure(t *testing.T) {
	skipOnWindows(t)

	var out bytes.Buffer
	r := New(WithOutput(&out, &out))

	err := r.Run(context.Background(), toolchain.Invocation{
		Args: []string{"sh", "-c", "echo boom >&2; exit 3"},
	}, time.Minute)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeToolFailure, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "tool exited with a failure")
}

func TestRunTimeout(t *testing.T) {
	skipOnWindows(t)

	var out bytes.Buffer
	r := New(WithOutput(&out, &out))

	err := r.Run(context.Background(), toolchain.Invocation{
		Args: []string{"sh", "-c", "sleep 10"},
	}, 50*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}

func TestRunMissingTool(t *testing.T) {
	r := New(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	err := r.Run(context.Background(), toolchain.Invocation{
		Args: []string{"definitely-not-a-real-tool-xyz"},
	}, time.Minute)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeToolFailure, errors.CodeOf(err))
}

func TestRunPassesInvocationEnv(t *testing.T) {
	skipOnWindows(t)

	var out bytes.Buffer
	r := New(WithOutput(&out, &out))

	err := r.Run(context.Background(), toolchain.Invocation{
		Args: []string{"sh", "-c", "echo $LDFLAGS"},
		Env:  []string{"LDFLAGS=-lm -lpthread"},
	}, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "-lm -lpthread")
}

func TestRunWorkingDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), nil, 0o644))

	var out bytes.Buffer
	r := New(WithDir(dir), WithOutput(&out, &out))

	err := r.Run(context.Background(), toolchain.Invocation{
		Args: []string{"ls"},
	}, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "marker.txt")
}

func TestRunInterleavedStreams(t *testing.T) {
	skipOnWindows(t)

	var stdout, stderr bytes.Buffer
	r := New(WithOutput(&stdout, &stderr))

	// Both streams feed the shared tail buffer from separate exec copy
	// goroutines; the race detector flags unsynchronized writes.
	err := r.Run(context.Background(), toolchain.Invocation{
		Args: []string{"sh", "-c", "for i in $(seq 1 200); do echo out-$i; echo err-$i 1>&2; done; exit 7"},
	}, time.Minute)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeToolFailure, errors.CodeOf(err))
	assert.Contains(t, stdout.String(), "out-200")
	assert.Contains(t, stderr.String(), "err-200")
}

func TestTailBufferConcurrentWrites(t *testing.T) {
	var tail tailBuffer
	var wg sync.WaitGroup

	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			line := []byte(strings.Repeat(string(rune('a'+g)), 64) + "\n")
			for i := 0; i < 100; i++ {
				_, _ = tail.Write(line)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, len(tail.String()), tailLimit)
}

func TestTailBufferTrims(t *testing.T) {
	var tail tailBuffer
	chunk := strings.Repeat("x", 1024)
	for i := 0; i < 10; i++ {
		_, err := tail.Write([]byte(chunk))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, len(tail.String()), tailLimit)
}
