// Package ignore decides which filesystem entries are left out of the index.
//
// The built-in rules are fixed: directories whose base name is in
// DeniedDirs are pruned, and only files with an extension in AllowedExts are
// kept. Both checks are exact and case-sensitive. Options can add further
// exclusions (doublestar globs, the root .gitignore) but never re-admit a path
// the built-in rules reject.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// DeniedDirs are tooling, VCS and build directory names that are never descended into.
var DeniedDirs = map[string]struct{}{
	".vscode":       {},
	".env":          {},
	"__pycache__":   {},
	".idea":         {},
	".git":          {},
	"node_modules":  {},
	"build":         {},
	"dist":          {},
	"venv":          {},
	"env":           {},
	"__MACOSX":      {},
	".pytest_cache": {},
	".mypy_cache":   {},
	".jupyter":      {},
	"logs":          {},
	".docker":       {},
}

// AllowedExts are the file extensions that are indexed.
var AllowedExts = map[string]struct{}{
	".py": {},
	".md": {},
}

// Options configures the extra exclusions.
type Options struct {
	// RootDir anchors relative-path matching
	RootDir string
	// Exclude holds doublestar patterns such as "**/testdata/**"
	Exclude []string
	// RespectGitignore loads RootDir/.gitignore
	RespectGitignore bool
}

// Policy is the ignore rule set. The zero value applies the built-in rules only.
type Policy struct {
	rootDir   string
	exclude   []string
	gitIgnore gitignore.GitIgnore
}

// New creates a policy with the given extras
func New(opts Options) *Policy {
	p := &Policy{
		rootDir: opts.RootDir,
		exclude: opts.Exclude,
	}
	if p.rootDir == "" {
		p.rootDir = "."
	}

	if opts.RespectGitignore {
		p.gitIgnore = loadIgnoreFile(filepath.Join(p.rootDir, ".gitignore"), p.rootDir)
	}
	return p
}

// ShouldIgnore reports whether path is excluded. Directories are judged by
// base name, everything else by extension. A path that cannot be stat'ed is
// judged as a file.
func (p *Policy) ShouldIgnore(path string) bool {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return p.ShouldIgnoreDir(path)
	}
	return p.ShouldIgnoreFile(path)
}

// ShouldIgnoreDir reports whether the directory at path should be pruned
func (p *Policy) ShouldIgnoreDir(path string) bool {
	if IsDeniedDir(filepath.Base(path)) {
		return true
	}
	return p.matchesExtras(path, true)
}

// ShouldIgnoreFile reports whether the file at path should be skipped
func (p *Policy) ShouldIgnoreFile(path string) bool {
	if !IsAllowedExt(FileExt(path)) {
		return true
	}
	return p.matchesExtras(path, false)
}

// IsDeniedDir reports whether name is in the directory denylist
func IsDeniedDir(name string) bool {
	_, ok := DeniedDirs[name]
	return ok
}

// FileExt returns the extension of the base name of path. Leading dots mark
// a hidden file rather than an extension, so ".py" has none.
func FileExt(path string) string {
	base := filepath.Base(path)
	if !strings.Contains(strings.TrimLeft(base, "."), ".") {
		return ""
	}
	return filepath.Ext(base)
}

// IsAllowedExt reports whether ext (with its leading dot) is indexed
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExts[ext]
	return ok
}

// matchesExtras checks configured globs and .gitignore rules
func (p *Policy) matchesExtras(path string, isDir bool) bool {
	if p == nil || (len(p.exclude) == 0 && p.gitIgnore == nil) {
		return false
	}

	rel, err := filepath.Rel(p.rootDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}

	for _, pattern := range p.exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}

	if p.gitIgnore != nil {
		if match := p.gitIgnore.Relative(rel, isDir); match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
