// Package match selects the files a sync copies: an extension allow-list
// plus ignore patterns, and the directory walk that applies them.
package match

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// globChars marks an ignore entry as a glob pattern rather than a substring.
const globChars = "*?[{"

// Filter decides whether a path relative to the source root is copied.
type Filter struct {
	extensions []string
	substrings []string
	globs      []glob.Glob
}

// New builds a Filter. Extensions are compared case-insensitively and may be
// given with or without the leading dot. Ignore entries containing any of
// *?[{ are compiled as globs, all others match as plain substrings.
func New(extensions, ignore []string) (*Filter, error) {
	f := &Filter{}

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions = append(f.extensions, ext)
	}
	if len(f.extensions) == 0 {
		return nil, fmt.Errorf("at least one extension is required")
	}

	for _, pattern := range ignore {
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, globChars) {
			f.substrings = append(f.substrings, pattern)
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		f.globs = append(f.globs, g)
	}

	return f, nil
}

// HasExtension returns true if the file has one of the configured extensions
func (f *Filter) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range f.extensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// Ignored reports whether relPath matches an ignore entry. Globs are tried
// against the whole slash-separated path and against each segment.
func (f *Filter) Ignored(relPath string) bool {
	slashed := filepath.ToSlash(relPath)

	for _, s := range f.substrings {
		if strings.Contains(slashed, s) {
			return true
		}
	}

	if len(f.globs) == 0 {
		return false
	}
	segments := strings.Split(slashed, "/")
	for _, g := range f.globs {
		if g.Match(slashed) {
			return true
		}
		for _, seg := range segments {
			if g.Match(seg) {
				return true
			}
		}
	}
	return false
}

// Match reports whether relPath is copied.
func (f *Filter) Match(relPath string) bool {
	return f.HasExtension(relPath) && !f.Ignored(relPath)
}

// Discover finds all matching regular files under dir. It returns paths
// relative to dir, sorted, so runs over the same tree are reproducible.
func (f *Filter) Discover(dir string) ([]string, error) {
	// WalkDir does not descend into a symlinked root.
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, err
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if f.Match(rel) {
			files = append(files, rel)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
