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

	"github.com/urfave/cli/v3"

	"github.com/crucible-build/crucible/pkg/build"
)

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Fetch, configure, build, and package a recipe",
		Description: `Run the full build lifecycle for one recipe: download and verify
the source archive, run the configure/build/install steps through the
recipe's toolchain, apply the package layout steps, and report the
package folder with its exported metadata.

Steps run sequentially in a single process. Failures from the wrapped
build tools propagate unmodified with their exit codes and output tails.

# Examples

Build the newest cppcheck for the host platform:
  crucible build --recipe cppcheck

Build a pinned vectorscan without the fat runtime, keeping trees under ./work:
  crucible build -r vectorscan -v 5.4.11 -O fat_runtime=false --work-dir ./work`,
		Flags: append([]cli.Flag{
			recipeFlag,
			versionFlag,
			optionFlag,
			&cli.StringFlag{
				Name:  "work-dir",
				Usage: "Folder build trees are created under (default: system temp)",
			},
			outputFlag,
			formatFlag,
		}, profileFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			d, _, err := definitionFromCmd(cmd)
			if err != nil {
				return err
			}

			p, err := profileFromCmd(cmd)
			if err != nil {
				return err
			}

			overrides, err := overridesFromCmd(cmd)
			if err != nil {
				return err
			}

			opts := []build.Option{build.WithToolVersion(version)}
			if workDir := cmd.String("work-dir"); workDir != "" {
				opts = append(opts, build.WithWorkRoot(workDir))
			}
			builder := build.New(opts...)

			slog.Info("starting build",
				"recipe", d.Metadata().Name,
				"version", d.Version().Full(),
				"profile", p.String())

			result, err := builder.Build(ctx, d, p, overrides)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}

			slog.Info("build completed",
				"buildId", result.BuildID,
				"packageDir", result.PackageDir,
				"duration", result.Duration)

			ser, err := newWriter(cmd)
			if err != nil {
				return err
			}
			defer closeWriter(ser)

			return ser.Serialize(result)
		},
	}
}
