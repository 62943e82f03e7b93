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

	"github.com/urfave/cli/v3"

	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/toolchain"
)

// toolchainDocument is the args command output: the exact external tool
// invocations a build of the resolved recipe would run.
type toolchainDocument struct {
	Recipe    string               `json:"recipe" yaml:"recipe"`
	Version   string               `json:"version" yaml:"version"`
	Profile   string               `json:"profile" yaml:"profile"`
	System    string               `json:"system" yaml:"system"`
	Configure toolchain.Invocation `json:"configure" yaml:"configure"`
	Build     toolchain.Invocation `json:"build" yaml:"build"`
	Install   toolchain.Invocation `json:"install" yaml:"install"`
}

func argsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "args",
		EnableShellCompletion: true,
		Usage:                 "Show the build-tool arguments a recipe translates to",
		Description: `Resolve a recipe and show the configure, build, and install
invocations it translates the resolved options into, without running
anything. Useful for inspecting how an option flows to the underlying
build system (CMake variables, configure flags, environment entries).

# Examples

CMake arguments for a static vectorscan build:
  crucible args --recipe vectorscan -O shared=false

Autotools arguments for imagemagick with HDRI disabled:
  crucible args -r imagemagick6 -O hdri=false`,
		Flags: append([]cli.Flag{
			recipeFlag,
			versionFlag,
			optionFlag,
			&cli.StringFlag{
				Name:  "source-dir",
				Value: "src",
				Usage: "Source directory passed to the configure step",
			},
			&cli.StringFlag{
				Name:  "build-dir",
				Value: "build",
				Usage: "Build directory passed to each step",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Value: "pkg",
				Usage: "Install prefix passed to the configure step",
			},
			outputFlag,
			formatFlag,
		}, profileFlags()...),
		Action: func(_ context.Context, cmd *cli.Command) error {
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

			set, err := recipe.Resolve(d, p, overrides)
			if err != nil {
				return fmt.Errorf("failed to resolve recipe %q: %w", d.Metadata().Name, err)
			}

			tc, err := d.Toolchain(p, set)
			if err != nil {
				return fmt.Errorf("failed to build toolchain for %q: %w", d.Metadata().Name, err)
			}

			sourceDir := cmd.String("source-dir")
			buildDir := cmd.String("build-dir")
			prefix := cmd.String("prefix")

			doc := &toolchainDocument{
				Recipe:    d.Metadata().Name,
				Version:   d.Version().Full(),
				Profile:   p.String(),
				System:    tc.System().String(),
				Configure: tc.Configure(sourceDir, buildDir, prefix),
				Build:     tc.Build(buildDir),
				Install:   tc.Install(buildDir),
			}

			ser, err := newWriter(cmd)
			if err != nil {
				return err
			}
			defer closeWriter(ser)

			return ser.Serialize(doc)
		},
	}
}
