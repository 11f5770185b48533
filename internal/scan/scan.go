// Package scan lists candidate source files under a project root.
//
// The lister walks the tree, skips VCS and dependency directories, honors
// the project's .gitignore plus configured exclude patterns, and returns
// recognized source files in deterministic sorted order.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/codescout/scout/internal/lang"
)

// skipDirs are dependency and build output directories never worth
// walking into.
var skipDirs = map[string]struct{}{
	"node_modules":     {},
	"bower_components": {},
	"__pycache__":      {},
	"venv":             {},
	"env":              {},
	"dist":             {},
	"build":            {},
	"out":              {},
	"coverage":         {},
	"vendor":           {},
	"target":           {},
}

// Lister walks a project tree and returns candidate source files.
// The zero value lists every recognized file with gitignore handling on.
type Lister struct {
	// Excludes are gitignore-style patterns applied relative to the root.
	Excludes []string
	// MaxFileSize skips files larger than this many bytes; 0 disables
	// the guard.
	MaxFileSize int64
	// NoGitignore disables reading the project's .gitignore.
	NoGitignore bool
}

// Result is the outcome of one listing pass.
type Result struct {
	// Paths are the absolute paths of recognized source files, sorted.
	Paths []string
	// SkippedLarge are paths excluded by the size guard, sorted.
	SkippedLarge []string
}

// List walks root and collects recognized source files. An unreadable or
// missing root is a recoverable error; errors below the root skip the
// affected subtree instead.
func (l *Lister) List(root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("project root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", absRoot)
	}

	var excludes *ignore.GitIgnore
	if len(l.Excludes) > 0 {
		excludes = ignore.CompileIgnoreLines(l.Excludes...)
	}
	var gitignore *ignore.GitIgnore
	if !l.NoGitignore {
		gitignore = loadGitignore(absRoot)
	}

	result := &Result{}
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return fmt.Errorf("reading project root: %w", err)
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if !lang.Recognized(name) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if gitignore != nil && gitignore.MatchesPath(rel) {
			return nil
		}
		if excludes != nil && excludes.MatchesPath(rel) {
			return nil
		}

		if l.MaxFileSize > 0 {
			fi, err := d.Info()
			if err == nil && fi.Size() > l.MaxFileSize {
				result.SkippedLarge = append(result.SkippedLarge, path)
				return nil
			}
		}

		result.Paths = append(result.Paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.Paths)
	sort.Strings(result.SkippedLarge)
	return result, nil
}

// loadGitignore compiles the root .gitignore if one exists.
func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
