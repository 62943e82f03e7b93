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
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/crucible-build/crucible/pkg/defaults"
	"github.com/crucible-build/crucible/pkg/oci"
	"github.com/crucible-build/crucible/pkg/serializer"
)

const (
	recipeFileName  = "recipe.yaml"
	pkginfoFileName = "pkginfo.yaml"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "export",
		EnableShellCompletion: true,
		Usage:                 "Export recipe and package metadata to a directory or registry",
		Description: `Resolve a recipe and write its metadata documents (resolved recipe
plus exported package info) to a target: a local directory, or an OCI
registry when the target uses the oci:// scheme and --push is set.

Registry pushes pack the documents as an OCI 1.1 artifact and
authenticate through the standard Docker credential store. The tag
defaults to the package version when the target omits one.

# Examples

Export cppcheck metadata to a local folder:
  crucible export --recipe cppcheck --target ./exports

Push imagemagick metadata to a registry:
  crucible export -r imagemagick6 --target oci://ghcr.io/acme/recipes --push`,
		Flags: append([]cli.Flag{
			recipeFlag,
			versionFlag,
			optionFlag,
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"d"},
				Value:   ".",
				Usage:   "Export target: directory path or oci://registry/repository[:tag]",
			},
			&cli.BoolFlag{
				Name:  "push",
				Usage: "Push to the OCI registry named by --target",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Skip TLS certificate verification for the registry connection",
			},
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

			doc, set, err := resolveDocument(d, p, overrides)
			if err != nil {
				return fmt.Errorf("failed to resolve recipe %q: %w", d.Metadata().Name, err)
			}

			info, err := d.PackageInfo(p, set)
			if err != nil {
				return fmt.Errorf("failed to compute package info for %q: %w", d.Metadata().Name, err)
			}

			ref, err := oci.ParseTarget(cmd.String("target"))
			if err != nil {
				return err
			}

			if !cmd.Bool("push") {
				if ref.IsOCI {
					return fmt.Errorf("target %q is a registry reference; use --push to publish", ref)
				}
				return writeExport(ref.LocalPath, doc, info)
			}

			if !ref.IsOCI {
				return fmt.Errorf("target %q is a directory; --push requires an oci:// target", ref)
			}
			if ref.Tag == "" {
				ref = ref.WithTag(d.Version().Full())
			}

			// Stage the documents locally, then pack and push.
			stageDir, err := os.MkdirTemp("", "crucible-export-*")
			if err != nil {
				return fmt.Errorf("failed to create staging directory: %w", err)
			}
			defer func() { _ = os.RemoveAll(stageDir) }()

			if err := writeExport(stageDir, doc, info); err != nil {
				return err
			}

			pushCtx, cancel := context.WithTimeout(ctx, defaults.PushTimeout)
			defer cancel()

			result, err := oci.Push(pushCtx, oci.PushOptions{
				SourceDir: stageDir,
				Reference: ref,
				Annotations: map[string]string{
					"org.opencontainers.image.title":   d.Metadata().Name,
					"org.opencontainers.image.version": d.Version().Full(),
				},
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure"),
			})
			if err != nil {
				return fmt.Errorf("failed to push export: %w", err)
			}

			slog.Info("export pushed",
				"reference", result.Reference,
				"digest", result.Digest)
			return nil
		},
	}
}

// writeExport serializes the recipe and package info documents into dir.
func writeExport(dir string, doc *recipeDocument, info any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	files := []struct {
		name string
		v    any
	}{
		{recipeFileName, doc},
		{pkginfoFileName, info},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		ser := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
		if err := ser.Serialize(f.v); err != nil {
			_ = ser.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := ser.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		slog.Debug("export written", "path", path)
	}
	return nil
}
