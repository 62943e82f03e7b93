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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/crucible-build/crucible/pkg/logging"
)

const (
	name           = "crucible"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "Output file path (default: stdout)",
}

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"t"},
	Value:   "yaml",
	Usage:   "Output format (yaml, json, table)",
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Build recipes for C/C++ libraries",
		Description: fmt.Sprintf(`crucible - package build recipe tool

Version: %s
Commit:  %s
Built:   %s

Declarative build recipes for C/C++ libraries: option resolution,
dependency declaration, build-tool argument translation, package layout,
and consumer metadata export.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars(logging.LevelEnvVar),
				Usage:   "Log level (debug, info, warn, error)",
			},
		},
		Before: func(_ context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return nil, nil
		},
		Commands: []*cli.Command{
			listCmd(),
			infoCmd(),
			depsCmd(),
			argsCmd(),
			verifyCmd(),
			buildCmd(),
			exportCmd(),
		},
	}
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
