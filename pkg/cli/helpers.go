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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/recipes"
	"github.com/crucible-build/crucible/pkg/serializer"
	ver "github.com/crucible-build/crucible/pkg/version"
)

// recipeFlag selects the recipe to operate on. Shared by every command
// that works against a single recipe.
var recipeFlag = &cli.StringFlag{
	Name:     "recipe",
	Aliases:  []string{"r"},
	Required: true,
	Usage:    "Recipe name (see the list command)",
}

// versionFlag pins the package version. Empty selects the newest
// registered version.
var versionFlag = &cli.StringFlag{
	Name:    "version",
	Aliases: []string{"v"},
	Usage:   "Package version (default: newest registered)",
}

// optionFlag collects option overrides in NAME=VALUE form.
var optionFlag = &cli.StringSliceFlag{
	Name:    "option",
	Aliases: []string{"O"},
	Usage:   "Option override as NAME=VALUE (repeatable)",
}

// profileFlags returns the target platform flags. Defaults derive from the
// host platform.
func profileFlags() []cli.Flag {
	host := recipe.HostProfile()
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "os",
			Value: string(host.Os),
			Usage: fmt.Sprintf("Target operating system (supported values: %s)",
				strings.Join(recipe.SupportedOsTypes(), ", ")),
		},
		&cli.StringFlag{
			Name:  "arch",
			Value: string(host.Arch),
			Usage: fmt.Sprintf("Target architecture (supported values: %s)",
				strings.Join(recipe.SupportedArchTypes(), ", ")),
		},
		&cli.StringFlag{
			Name:  "compiler",
			Value: string(host.Compiler),
			Usage: fmt.Sprintf("Target compiler (supported values: %s)",
				strings.Join(recipe.SupportedCompilerTypes(), ", ")),
		},
		&cli.StringFlag{
			Name:  "build-type",
			Value: string(host.BuildType),
			Usage: fmt.Sprintf("Build type (supported values: %s)",
				strings.Join(recipe.SupportedBuildTypes(), ", ")),
		},
	}
}

// parseOutputFormat reads and validates the format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported values: %s",
			cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// newWriter builds the output serializer from the shared output/format
// flags. The caller must invoke closeWriter when done.
func newWriter(cmd *cli.Command) (*serializer.Writer, error) {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	return serializer.NewFileWriterOrStdout(format, cmd.String("output")), nil
}

func closeWriter(w *serializer.Writer) {
	if err := w.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}

// profileFromCmd constructs the target profile from the platform flags.
func profileFromCmd(cmd *cli.Command) (*recipe.Profile, error) {
	osType, err := recipe.ParseOsType(cmd.String("os"))
	if err != nil {
		return nil, err
	}
	arch, err := recipe.ParseArchType(cmd.String("arch"))
	if err != nil {
		return nil, err
	}
	compiler, err := recipe.ParseCompilerType(cmd.String("compiler"))
	if err != nil {
		return nil, err
	}
	buildType, err := recipe.ParseBuildType(cmd.String("build-type"))
	if err != nil {
		return nil, err
	}
	return &recipe.Profile{
		Os:        osType,
		Arch:      arch,
		Compiler:  compiler,
		BuildType: buildType,
	}, nil
}

// overridesFromCmd parses repeated --option NAME=VALUE flags.
func overridesFromCmd(cmd *cli.Command) (map[string]string, error) {
	raw := cmd.StringSlice("option")
	if len(raw) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(raw))
	for _, entry := range raw {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid option override %q, expected NAME=VALUE", entry)
		}
		overrides[k] = v
	}
	return overrides, nil
}

// definitionFromCmd looks up the recipe and version named by the shared
// flags against the built-in catalog.
func definitionFromCmd(cmd *cli.Command) (recipe.Definition, *recipe.Registry, error) {
	reg := recipes.NewRegistry()

	recipeName := cmd.String("recipe")
	pinned := cmd.String("version")
	if pinned == "" {
		pinned = latestVersion(reg, recipeName)
		if pinned == "" {
			return nil, nil, fmt.Errorf("unknown recipe %q, supported values: %s",
				recipeName, strings.Join(reg.Names(), ", "))
		}
	}

	v, err := ver.ParseVersion(pinned)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid version %q: %w", pinned, err)
	}

	d, err := reg.Resolve(recipeName, v)
	if err != nil {
		return nil, nil, err
	}
	return d, reg, nil
}

// latestVersion returns the newest registered version for a recipe, or
// empty when the recipe is unknown. Registered versions are sorted oldest
// to newest.
func latestVersion(reg *recipe.Registry, recipeName string) string {
	versions := reg.Versions(recipeName)
	if len(versions) == 0 {
		return ""
	}
	return versions[len(versions)-1]
}

var titleCaser = cases.Title(language.English)

// displayName renders a recipe name for human-readable listings
// (e.g. "cppcheck" -> "Cppcheck").
func displayName(recipeName string) string {
	return titleCaser.String(recipeName)
}
