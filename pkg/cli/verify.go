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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/recipes"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "verify",
		EnableShellCompletion: true,
		Usage:                 "Verify recipe consistency across all registered versions",
		Description: `Run consistency checks over the recipe catalog: every registered
version must parse, construct, resolve on the canonical profile, declare
well-formed requirements, produce a toolchain, and export valid package
metadata.

Without flags the whole catalog is verified. Use --recipe to limit the
run to one recipe.

# Examples

Verify the whole catalog:
  crucible verify

Verify one recipe and fail the process on any finding:
  crucible verify --recipe imagemagick6 --fail-on-error`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "recipe",
				Aliases: []string{"r"},
				Usage:   "Limit verification to one recipe (default: all)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with non-zero status if any check fails",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := recipes.NewRegistry()

			if recipeName := cmd.String("recipe"); recipeName != "" {
				factory, ok := reg.Lookup(recipeName)
				if !ok {
					return fmt.Errorf("unknown recipe %q, supported values: %s",
						recipeName, strings.Join(reg.Names(), ", "))
				}
				sub := recipe.NewRegistry()
				sub.Register(recipeName, reg.Versions(recipeName), factory)
				reg = sub
			}

			result, err := reg.VerifyAll(ctx, version)
			if err != nil {
				return fmt.Errorf("verification failed to run: %w", err)
			}

			slog.Info("verification completed",
				"checked", result.Checked,
				"failed", result.Failed)

			ser, err := newWriter(cmd)
			if err != nil {
				return err
			}
			defer closeWriter(ser)

			if err := ser.Serialize(result); err != nil {
				return err
			}

			if cmd.Bool("fail-on-error") && !result.OK() {
				return fmt.Errorf("verification failed: %d recipe version(s) did not pass", result.Failed)
			}
			return nil
		},
	}
}
