// Package discover walks a source tree and returns the files worth
// indexing, in a stable order.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultMaxFileSize skips generated or vendored blobs.
const DefaultMaxFileSize = 2 << 20

// DefaultExcludeDirs are never descended into.
var DefaultExcludeDirs = []string{
	".git", "node_modules", "vendor", "build", "dist", "target",
	".idea", ".vscode", "__pycache__",
}

// Options controls which files Walk returns.
type Options struct {
	// Extensions lists accepted extensions including the dot. Matching is
	// case-insensitive. Empty accepts every file.
	Extensions []string

	// Names lists exact file base names to accept, such as "Makefile".
	// Matching is case-sensitive.
	Names []string

	// Pattern accepts files whose base name contains it. Case-sensitive.
	Pattern string

	// RespectGitignore loads <root>/.gitignore and skips matching paths.
	RespectGitignore bool

	// ExcludeDirs are directory base names skipped wherever they appear.
	ExcludeDirs []string

	// MaxFileSize skips larger files. Zero or less disables the check.
	MaxFileSize int64

	Logger *log.Logger
}

// DefaultOptions returns options accepting the given extensions.
func DefaultOptions(extensions ...string) Options {
	return Options{
		Extensions:       extensions,
		RespectGitignore: true,
		ExcludeDirs:      slices.Clone(DefaultExcludeDirs),
		MaxFileSize:      DefaultMaxFileSize,
	}
}

// Filter decides whether paths under one root are indexed. It is shared by
// Walk and the file watcher so both agree on what is relevant.
type Filter struct {
	root       string
	extensions map[string]bool
	names      map[string]bool
	pattern    string
	exclude    map[string]bool
	gitignore  *ignore.GitIgnore
	maxSize    int64
}

// NewFilter prepares a Filter for root.
func NewFilter(root string, opts Options) (*Filter, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	f := &Filter{
		root:    abs,
		exclude: make(map[string]bool, len(opts.ExcludeDirs)),
		maxSize: opts.MaxFileSize,
		pattern: opts.Pattern,
	}
	if len(opts.Names) > 0 {
		f.names = make(map[string]bool, len(opts.Names))
		for _, name := range opts.Names {
			f.names[name] = true
		}
	}
	if len(opts.Extensions) > 0 {
		f.extensions = make(map[string]bool, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			f.extensions[strings.ToLower(ext)] = true
		}
	}
	for _, dir := range opts.ExcludeDirs {
		f.exclude[dir] = true
	}
	if opts.RespectGitignore {
		f.gitignore = loadGitignore(abs)
	}
	return f, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		log.Warnf("Could not parse %s: %v", path, err)
		return nil
	}
	return gi
}

// Root returns the absolute root the filter was built for.
func (f *Filter) Root() string {
	return f.root
}

// SkipDir reports whether the directory at path should not be descended.
// The root itself is never skipped.
func (f *Filter) SkipDir(path string) bool {
	if path == f.root {
		return false
	}
	if f.exclude[filepath.Base(path)] {
		return true
	}
	return f.ignored(path, true)
}

// Accept reports whether the file at path is selected and not ignored. It
// does not check the size. When Names or Pattern are set they select by base
// name and Extensions are not consulted; a file matching either is selected.
func (f *Filter) Accept(path string) bool {
	if !f.selected(filepath.Base(path)) {
		return false
	}
	return !f.ignored(path, false)
}

func (f *Filter) selected(base string) bool {
	if f.names != nil || f.pattern != "" {
		return f.names[base] || (f.pattern != "" && strings.Contains(base, f.pattern))
	}
	return f.extensions == nil || f.extensions[strings.ToLower(filepath.Ext(base))]
}

func (f *Filter) ignored(path string, dir bool) bool {
	if f.gitignore == nil {
		return false
	}
	rel, err := filepath.Rel(f.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if dir {
		return f.gitignore.MatchesPath(rel) || f.gitignore.MatchesPath(rel+"/")
	}
	return f.gitignore.MatchesPath(rel)
}

// Walk returns every accepted regular file under root, sorted
// lexicographically. Unreadable entries are logged and skipped; only a
// missing or unreadable root is an error.
func Walk(root string, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	f, err := NewFilter(root, opts)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(f.root)
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", f.root)
	}

	var files []string
	err = filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == f.root {
				return err
			}
			logger.Debugf("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if f.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !f.Accept(path) {
			return nil
		}
		if f.maxSize > 0 {
			info, err := d.Info()
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					logger.Debugf("Skipping %s: %v", path, err)
				}
				return nil
			}
			if info.Size() > f.maxSize {
				logger.Debugf("Skipping %s: %d bytes exceeds limit", path, info.Size())
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", f.root, err)
	}
	slices.Sort(files)
	logger.Debugf("Discovered %d files under %s", len(files), f.root)
	return files, nil
}
