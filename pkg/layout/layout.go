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

// Package layout manages the install-tree of a built package: the
// conventional bin/lib/include/licenses folders under a single package root,
// plus the post-install pruning steps (dropping pkgconfig data, build
// scripts, docs) that keep the tree relocatable.
package layout

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Conventional folder names under a package root.
const (
	BinDirName      = "bin"
	LibDirName      = "lib"
	IncludeDirName  = "include"
	LicensesDirName = "licenses"
)

// Layout is the install-tree of one built package.
type Layout struct {
	// Root is the package folder everything installs under.
	Root string
}

// New creates a Layout rooted at the given package folder.
func New(root string) *Layout {
	return &Layout{Root: root}
}

// BinDir returns the executable folder path.
func (l *Layout) BinDir() string {
	return filepath.Join(l.Root, BinDirName)
}

// LibDir returns the library folder path.
func (l *Layout) LibDir() string {
	return filepath.Join(l.Root, LibDirName)
}

// IncludeDir returns the header folder path.
func (l *Layout) IncludeDir() string {
	return filepath.Join(l.Root, IncludeDirName)
}

// LicensesDir returns the license folder path.
func (l *Layout) LicensesDir() string {
	return filepath.Join(l.Root, LicensesDirName)
}

// Path joins the given elements under the package root.
func (l *Layout) Path(elem ...string) string {
	return filepath.Join(append([]string{l.Root}, elem...)...)
}

// EnsureDirs creates the conventional folders that do not exist yet.
func (l *Layout) EnsureDirs() error {
	for _, dir := range []string{l.BinDir(), l.LibDir(), l.IncludeDir(), l.LicensesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// CopyLicense copies the named license files from the source tree into the
// licenses folder. Missing files are an error: every package ships its
// license text.
func (l *Layout) CopyLicense(sourceDir string, names ...string) error {
	if err := os.MkdirAll(l.LicensesDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create licenses dir: %w", err)
	}
	for _, name := range names {
		src := filepath.Join(sourceDir, name)
		dst := filepath.Join(l.LicensesDir(), filepath.Base(name))
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to copy license %s: %w", name, err)
		}
	}
	return nil
}

// CopyFile copies a single file from the source tree to a path relative to
// the package root, creating parent folders as needed.
func (l *Layout) CopyFile(src, relDst string) error {
	dst := l.Path(relDst)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	return copyFile(src, dst)
}

// CopyGlob copies every file matching pattern (relative to sourceDir) into
// the folder relDst under the package root, preserving base names.
func (l *Layout) CopyGlob(sourceDir, pattern, relDst string) error {
	matches, err := filepath.Glob(filepath.Join(sourceDir, pattern))
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	for _, src := range matches {
		info, err := os.Stat(src)
		if err != nil {
			return err
		}
		if info.IsDir() {
			continue
		}
		if err := l.CopyFile(src, filepath.Join(relDst, filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDir removes a folder (and its contents) under the package root.
// Missing folders are a no-op.
func (l *Layout) RemoveDir(elem ...string) error {
	dir := l.Path(elem...)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	slog.Debug("pruned package folder", "path", dir)
	return nil
}

// RemoveGlob removes files matching pattern (relative to the package root).
// The pattern addresses one explicit folder, e.g. "lib/*.la"; it does not
// descend into subfolders.
func (l *Layout) RemoveGlob(pattern string) error {
	matches, err := filepath.Glob(filepath.Join(l.Root, pattern))
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("failed to remove %s: %w", m, err)
		}
	}
	if len(matches) > 0 {
		slog.Debug("pruned package files", "pattern", pattern, "count", len(matches))
	}
	return nil
}

// RemoveGlobRecursive removes every file under the folder relDir (relative
// to the package root) whose base name matches pattern, descending into
// subfolders. A missing folder is a no-op.
func (l *Layout) RemoveGlobRecursive(relDir, pattern string) error {
	root := l.Path(relDir)
	count := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, merr := filepath.Match(pattern, d.Name())
		if merr != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, merr)
		}
		if !ok {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Debug("pruned package files", "dir", relDir, "pattern", pattern, "count", count)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
