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
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/crucible-build/crucible/pkg/recipe"
	"github.com/crucible-build/crucible/pkg/recipes"
	"github.com/crucible-build/crucible/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:    "invalid format xml",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "empty format",
			format:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestOverridesFromCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "no overrides",
			args: []string{"test"},
			want: nil,
		},
		{
			name: "single override",
			args: []string{"test", "-O", "shared=false"},
			want: map[string]string{"shared": "false"},
		},
		{
			name: "multiple overrides",
			args: []string{"test", "-O", "shared=false", "-O", "with_chimera=true"},
			want: map[string]string{"shared": "false", "with_chimera": "true"},
		},
		{
			name: "value containing equals",
			args: []string{"test", "-O", "extra=a=b"},
			want: map[string]string{"extra": "a=b"},
		},
		{
			name:    "missing value separator",
			args:    []string{"test", "-O", "shared"},
			wantErr: true,
		},
		{
			name:    "empty name",
			args:    []string{"test", "-O", "=true"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{optionFlag},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := overridesFromCmd(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("overridesFromCmd() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if tt.wantErr {
						return nil
					}
					if len(got) != len(tt.want) {
						t.Errorf("overridesFromCmd() = %v, want %v", got, tt.want)
						return nil
					}
					for k, v := range tt.want {
						if got[k] != v {
							t.Errorf("override %q = %q, want %q", k, got[k], v)
						}
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestProfileFromCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "explicit profile",
			args: []string{"test", "--os", "linux", "--arch", "x86_64", "--compiler", "gcc", "--build-type", "Release"},
			want: "linux/x86_64/gcc/Release",
		},
		{
			name: "windows msvc",
			args: []string{"test", "--os", "windows", "--compiler", "msvc"},
			want: "windows/" + string(recipe.HostProfile().Arch) + "/msvc/Release",
		},
		{
			name:    "bad os",
			args:    []string{"test", "--os", "beos"},
			wantErr: true,
		},
		{
			name:    "bad build type",
			args:    []string{"test", "--build-type", "Fastest"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: profileFlags(),
				Action: func(_ context.Context, c *cli.Command) error {
					p, err := profileFromCmd(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("profileFromCmd() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && p.String() != tt.want {
						t.Errorf("profileFromCmd() = %v, want %v", p, tt.want)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestLatestVersion(t *testing.T) {
	reg := recipes.NewRegistry()

	if got := latestVersion(reg, "cppcheck"); got != "2.16.0" {
		t.Errorf("latestVersion(cppcheck) = %q, want 2.16.0", got)
	}
	if got := latestVersion(reg, "no-such-recipe"); got != "" {
		t.Errorf("latestVersion(no-such-recipe) = %q, want empty", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cppcheck", "Cppcheck"},
		{"vectorscan", "Vectorscan"},
		{"imagemagick6", "Imagemagick6"},
	}

	for _, tt := range tests {
		if got := displayName(tt.in); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
