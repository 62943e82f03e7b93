// Package cli implements the command-line interface for the crucible tool.
//
// # Overview
//
// The crucible CLI exposes the built-in recipe catalog: listing recipes,
// resolving them against target profiles, inspecting dependencies and
// build-tool arguments, running builds, verifying catalog consistency,
// and exporting metadata to directories or OCI registries.
//
// # Commands
//
// list - List available recipes:
//
//	crucible list [--output FILE] [--format yaml|json|table]
//
// info - Resolve a recipe for a target profile:
//
//	crucible info --recipe cppcheck [--version 2.16.0] [-O name=value]...
//
// deps - Show the dependencies the resolved options imply:
//
//	crucible deps --recipe imagemagick6 -O with_jpeg=libjpeg-turbo
//
// args - Show the build-tool invocations a recipe translates to:
//
//	crucible args --recipe vectorscan -O shared=false
//
// verify - Run catalog consistency checks:
//
//	crucible verify [--recipe NAME] [--fail-on-error]
//
// build - Run the full fetch/configure/build/package lifecycle:
//
//	crucible build --recipe cppcheck [--work-dir DIR]
//
// export - Write recipe and package metadata to a directory or registry:
//
//	crucible export --recipe cppcheck --target ./exports
//	crucible export --recipe cppcheck --target oci://ghcr.io/acme/recipes --push
//
// # Global Flags
//
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//	--log-level    Logging verbosity: debug, info, warn, error
//
// # Target Profiles
//
// Commands that resolve a recipe accept --os, --arch, --compiler, and
// --build-type flags. Defaults derive from the host platform. Option
// overrides are passed as repeated -O NAME=VALUE flags and are validated
// against the recipe's declared option table.
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/recipes - Built-in recipe catalog
//   - pkg/recipe - Resolution, registry, verification
//   - pkg/build - Build lifecycle orchestration
//   - pkg/oci - Registry export via ORAS
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/crucible-build/crucible/pkg/cli.version=1.0.0'"
package cli
