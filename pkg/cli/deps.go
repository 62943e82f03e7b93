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
)

// dependencyDocument is the deps command output: the requirement list a
// recipe declares for one resolved option assignment.
type dependencyDocument struct {
	Recipe       string               `json:"recipe" yaml:"recipe"`
	Version      string               `json:"version" yaml:"version"`
	Profile      string               `json:"profile" yaml:"profile"`
	Options      map[string]string    `json:"options" yaml:"options"`
	Requirements []recipe.Requirement `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

func depsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "deps",
		EnableShellCompletion: true,
		Usage:                 "Show the dependencies a recipe declares",
		Description: `Resolve a recipe and list the dependencies the resolved options
imply. Conditional requirements follow the option assignment: disabling
an option drops its dependency, switching a provider option swaps the
requirement.

# Examples

Dependencies of the default imagemagick configuration:
  crucible deps --recipe imagemagick6

Swap the JPEG provider and observe the requirement change:
  crucible deps -r imagemagick6 -O with_jpeg=libjpeg-turbo

Chimera pulls in pcre:
  crucible deps -r vectorscan -O with_chimera=true -O shared=false`,
		Flags: append([]cli.Flag{
			recipeFlag,
			versionFlag,
			optionFlag,
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

			opts := make(map[string]string, len(set))
			for _, optName := range set.SortedNames() {
				opts[optName] = set.Value(optName).String()
			}

			doc := &dependencyDocument{
				Recipe:       d.Metadata().Name,
				Version:      d.Version().Full(),
				Profile:      p.String(),
				Options:      opts,
				Requirements: d.Requirements(set),
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
