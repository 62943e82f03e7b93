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

	"github.com/crucible-build/crucible/pkg/header"
	"github.com/crucible-build/crucible/pkg/recipe"
)

// recipeDocument is the resolved view of one recipe for one target
// profile: identity, source archive, resolved options, and the dependency
// list those options imply.
type recipeDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipe       recipe.Metadata   `json:"recipe" yaml:"recipe"`
	Version      string            `json:"version" yaml:"version"`
	Profile      string            `json:"profile" yaml:"profile"`
	Source       recipe.Source     `json:"source" yaml:"source"`
	Options      map[string]string `json:"options" yaml:"options"`
	Requirements []string          `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// resolveDocument resolves a definition against a profile and builds the
// export document. The resolved option set is returned alongside for
// callers that derive further artifacts from it. Shared by the info and
// export commands.
func resolveDocument(d recipe.Definition, p *recipe.Profile, overrides map[string]string) (*recipeDocument, recipe.OptionSet, error) {
	set, err := recipe.Resolve(d, p, overrides)
	if err != nil {
		return nil, nil, err
	}

	src, err := d.Source()
	if err != nil {
		return nil, nil, err
	}

	opts := make(map[string]string, len(set))
	for _, optName := range set.SortedNames() {
		opts[optName] = set.Value(optName).String()
	}

	var requires []string
	for _, req := range d.Requirements(set) {
		requires = append(requires, req.Ref())
	}

	doc := &recipeDocument{
		Recipe:       *d.Metadata(),
		Version:      d.Version().Full(),
		Profile:      p.String(),
		Source:       src,
		Options:      opts,
		Requirements: requires,
	}
	doc.Init(header.KindRecipe, "v1", version)
	return doc, set, nil
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "info",
		EnableShellCompletion: true,
		Usage:                 "Show a recipe resolved for a target profile",
		Description: `Resolve a recipe against a target profile and show the outcome:
identity metadata, the source archive, the resolved option assignment,
and the dependencies those options imply.

Option overrides apply before platform validation, so an unsupported
combination fails here the same way it would fail a build:

  crucible info -r vectorscan -O with_chimera=true -O shared=true
  ERROR: chimera build requires static build

# Examples

Show the newest cppcheck recipe for the host platform:
  crucible info --recipe cppcheck

Show an imagemagick recipe for a specific profile in JSON:
  crucible info -r imagemagick6 -v 6.9.13-26 --os linux --arch x86_64 --format json`,
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

			doc, _, err := resolveDocument(d, p, overrides)
			if err != nil {
				return fmt.Errorf("failed to resolve recipe %q: %w", d.Metadata().Name, err)
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
