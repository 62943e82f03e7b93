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

	"github.com/crucible-build/crucible/pkg/recipes"
	ver "github.com/crucible-build/crucible/pkg/version"
)

// catalogEntry is one recipe in the list output.
type catalogEntry struct {
	Name        string   `json:"name" yaml:"name"`
	DisplayName string   `json:"displayName" yaml:"displayName"`
	Description string   `json:"description" yaml:"description"`
	License     string   `json:"license" yaml:"license"`
	PackageType string   `json:"packageType" yaml:"packageType"`
	Versions    []string `json:"versions" yaml:"versions"`
}

// catalog is the list command output document.
type catalog struct {
	Count   int            `json:"count" yaml:"count"`
	Recipes []catalogEntry `json:"recipes" yaml:"recipes"`
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List available recipes and their versions",
		Description: `List every recipe in the built-in catalog with its registered
versions and identity metadata.

The listing can be output in JSON, YAML, or table format.`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			reg := recipes.NewRegistry()

			doc := &catalog{Count: reg.Count()}
			for _, recipeName := range reg.Names() {
				versions := reg.Versions(recipeName)

				// Metadata comes from the newest version; identity fields
				// do not vary across versions of the same recipe.
				latest, err := ver.ParseVersion(versions[len(versions)-1])
				if err != nil {
					return fmt.Errorf("invalid registered version for %q: %w", recipeName, err)
				}
				d, err := reg.Resolve(recipeName, latest)
				if err != nil {
					return fmt.Errorf("failed to resolve recipe %q: %w", recipeName, err)
				}

				meta := d.Metadata()
				doc.Recipes = append(doc.Recipes, catalogEntry{
					Name:        meta.Name,
					DisplayName: displayName(meta.Name),
					Description: meta.Description,
					License:     meta.License,
					PackageType: string(meta.PackageType),
					Versions:    versions,
				})
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
