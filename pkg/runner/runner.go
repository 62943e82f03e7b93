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

// Package runner executes build-tool invocations (cmake, configure, make)
// with bounded runtimes and structured failure reporting. Tool output passes
// through unmodified; failures carry the exit status and the output tail.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	cerrors "github.com/crucible-build/crucible/pkg/errors"
	"github.com/crucible-build/crucible/pkg/toolchain"
)

// tailLimit bounds how much trailing tool output a failure error carries.
const tailLimit = 4 << 10

// Runner executes tool invocations in a working directory.
type Runner struct {
	dir    string
	stdout io.Writer
	stderr io.Writer
	env    []string
}

// Option is a functional option for configuring a Runner.
type Option func(*Runner)

// WithDir sets the working directory for invocations.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithOutput redirects tool stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv appends environment entries ("KEY=VALUE") to the inherited
// environment for every invocation.
func WithEnv(env ...string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// New creates a Runner writing tool output to the process streams.
func New(opts ...Option) *Runner {
	r := &Runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one invocation with the given timeout. The first argument of
// the invocation is the tool binary; it must resolve on PATH. Non-zero exits
// return a TOOL_FAILURE error carrying the exit code and output tail;
// deadline hits return TIMEOUT.
func (r *Runner) Run(ctx context.Context, inv toolchain.Invocation, timeout time.Duration) error {
	if len(inv.Args) == 0 {
		return cerrors.New(cerrors.ErrCodeInvalidRequest, "invocation has no arguments")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var tail tailBuffer
	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = r.dir
	cmd.Stdout = io.MultiWriter(r.stdout, &tail)
	cmd.Stderr = io.MultiWriter(r.stderr, &tail)
	cmd.Env = append(os.Environ(), append(r.env, inv.Env...)...)

	slog.Debug("running tool",
		"tool", inv.Args[0],
		"args", strings.Join(inv.Args[1:], " "),
		"dir", r.dir)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		slog.Debug("tool finished", "tool", inv.Args[0], "duration", elapsed.String())
		return nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return cerrors.NewWithContext(cerrors.ErrCodeTimeout,
			"tool run exceeded its deadline", map[string]any{
				"tool":    inv.Args[0],
				"timeout": timeout.String(),
			})
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return cerrors.NewWithContext(cerrors.ErrCodeToolFailure,
			"tool exited with a failure", map[string]any{
				"tool": inv.Args[0],
				"code": exitErr.ExitCode(),
				"tail": tail.String(),
			})
	}

	return cerrors.Wrap(cerrors.ErrCodeToolFailure, "tool could not be started", err)
}

// tailBuffer retains only the trailing tailLimit bytes written to it. Both
// tool streams feed the same buffer and exec copies them in separate
// goroutines, so writes must be synchronized.
type tailBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.Write(p)
	if t.buf.Len() > tailLimit {
		trimmed := t.buf.Bytes()[t.buf.Len()-tailLimit:]
		var next bytes.Buffer
		next.Write(trimmed)
		t.buf = next
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
