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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// hasName reports whether a flag answers to the given name.
func hasName(flag cli.Flag, name string) bool {
	for _, n := range flag.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func TestCommandStructure(t *testing.T) {
	tests := []struct {
		cmd       *cli.Command
		name      string
		wantFlags []string
	}{
		{listCmd(), "list", []string{"output", "format"}},
		{infoCmd(), "info", []string{"recipe", "version", "option", "os", "arch", "compiler", "build-type", "output", "format"}},
		{depsCmd(), "deps", []string{"recipe", "version", "option", "output", "format"}},
		{argsCmd(), "args", []string{"recipe", "source-dir", "build-dir", "prefix", "output", "format"}},
		{verifyCmd(), "verify", []string{"recipe", "fail-on-error", "output", "format"}},
		{buildCmd(), "build", []string{"recipe", "version", "option", "work-dir", "output", "format"}},
		{exportCmd(), "export", []string{"recipe", "target", "push", "plain-http", "insecure"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd.Name != tt.name {
				t.Errorf("Name = %v, want %v", tt.cmd.Name, tt.name)
			}
			if tt.cmd.Usage == "" {
				t.Error("Usage should not be empty")
			}
			if tt.cmd.Description == "" {
				t.Error("Description should not be empty")
			}
			if tt.cmd.Action == nil {
				t.Error("Action should not be nil")
			}

			for _, flagName := range tt.wantFlags {
				found := false
				for _, flag := range tt.cmd.Flags {
					if hasName(flag, flagName) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("required flag %q not found", flagName)
				}
			}
		})
	}
}

func TestRootCommandStructure(t *testing.T) {
	root := rootCmd()

	if root.Name != "crucible" {
		t.Errorf("Name = %v, want crucible", root.Name)
	}

	wantCommands := []string{"list", "info", "deps", "args", "verify", "build", "export"}
	for _, cmdName := range wantCommands {
		found := false
		for _, sub := range root.Commands {
			if sub.Name == cmdName {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", cmdName)
		}
	}
}

// runToFile runs the root command with the given args, directing output to
// a temp file, and returns the file content.
func runToFile(t *testing.T, args ...string) string {
	t.Helper()

	outPath := filepath.Join(t.TempDir(), "out.json")
	full := append([]string{"crucible"}, args...)
	full = append(full, "--output", outPath, "--format", "json")

	if err := rootCmd().Run(context.Background(), full); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return string(data)
}

func TestListCommand(t *testing.T) {
	out := runToFile(t, "list")

	for _, want := range []string{"cppcheck", "imagemagick6", "vectorscan"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q", want)
		}
	}
	if !strings.Contains(out, "2.16.0") {
		t.Error("list output missing cppcheck versions")
	}
}

func TestInfoCommand(t *testing.T) {
	out := runToFile(t, "info", "--recipe", "cppcheck")

	for _, want := range []string{`"Recipe"`, "cppcheck", "2.16.0", "have_rules", "pcre/8.45"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q", want)
		}
	}
}

func TestInfoCommandPinnedVersion(t *testing.T) {
	out := runToFile(t, "info", "-r", "cppcheck", "-v", "2.10.3")

	if !strings.Contains(out, "2.10.3") {
		t.Error("info output missing pinned version")
	}
}

func TestInfoCommandUnknownRecipe(t *testing.T) {
	err := rootCmd().Run(context.Background(), []string{"crucible", "info", "--recipe", "nope"})
	if err == nil {
		t.Fatal("info with unknown recipe should fail")
	}
}

func TestDepsCommandProviderSwap(t *testing.T) {
	out := runToFile(t, "deps",
		"--recipe", "imagemagick6",
		"--os", "linux",
		"-O", "with_jpeg=libjpeg-turbo")

	if !strings.Contains(out, "libjpeg-turbo") {
		t.Error("deps output missing swapped jpeg provider")
	}
	if strings.Contains(out, `"libjpeg"`) {
		t.Error("deps output still names the default jpeg provider")
	}
}

func TestArgsCommand(t *testing.T) {
	out := runToFile(t, "args",
		"--recipe", "vectorscan",
		"--os", "linux",
		"-O", "shared=false")

	for _, want := range []string{"cmake", "-DBUILD_SHARED_LIBS=OFF", "-DBUILD_STATIC_LIBS=ON"} {
		if !strings.Contains(out, want) {
			t.Errorf("args output missing %q", want)
		}
	}
}

func TestVerifyCommand(t *testing.T) {
	out := runToFile(t, "verify", "--recipe", "cppcheck", "--fail-on-error")

	if !strings.Contains(out, `"VerificationResult"`) {
		t.Error("verify output missing result kind")
	}
	if !strings.Contains(out, "cppcheck") {
		t.Error("verify output missing recipe name")
	}
}

func TestExportCommandLocalDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	err := rootCmd().Run(context.Background(), []string{
		"crucible", "export",
		"--recipe", "vectorscan",
		"--os", "linux",
		"--target", dir,
	})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	recipeData, err := os.ReadFile(filepath.Join(dir, "recipe.yaml"))
	if err != nil {
		t.Fatalf("failed to read exported recipe: %v", err)
	}
	if !strings.Contains(string(recipeData), "kind: Recipe") {
		t.Error("exported recipe missing header kind")
	}
	if !strings.Contains(string(recipeData), "vectorscan") {
		t.Error("exported recipe missing name")
	}

	infoData, err := os.ReadFile(filepath.Join(dir, "pkginfo.yaml"))
	if err != nil {
		t.Fatalf("failed to read exported pkginfo: %v", err)
	}
	if !strings.Contains(string(infoData), "kind: PackageInfo") {
		t.Error("exported pkginfo missing header kind")
	}
	if !strings.Contains(string(infoData), "hs_runtime") {
		t.Error("exported pkginfo missing component")
	}
}

func TestExportCommandRegistryWithoutPush(t *testing.T) {
	err := rootCmd().Run(context.Background(), []string{
		"crucible", "export",
		"--recipe", "cppcheck",
		"--target", "oci://ghcr.io/acme/recipes:v1",
	})
	if err == nil {
		t.Fatal("export with oci target but no --push should fail")
	}
}
