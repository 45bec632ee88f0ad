// Package filter decides which files a traversal keeps, based on name suffixes,
// an ignore set of basenames and optional glob patterns.
package filter

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Reason types recorded for rejected files.
const (
	ReasonSuffix  = "suffix"
	ReasonName    = "name"
	ReasonPattern = "pattern"
)

// Reason describes why a file was left out.
type Reason struct {
	Type string // ReasonSuffix, ReasonName or ReasonPattern
	Rule string // The rule that matched, empty for suffix misses
	Path string // Root-relative path of the file
}

// Filter is an immutable set of file criteria plus a log of rejections.
type Filter struct {
	// suffixes is ordered as configured; the first match wins.
	suffixes []string

	// names holds ignored basenames for O(1) lookup.
	names map[string]bool

	// patterns are compiled glob patterns matched against relative paths and basenames.
	patterns []compiledGlob

	rejected []Reason
}

// compiledGlob holds a glob pattern and its original string for reporting.
type compiledGlob struct {
	pattern  glob.Glob
	original string
}

// Config holds filter configuration.
type Config struct {
	Suffixes       []string // Allowed name suffixes, empty means any file
	IgnoreNames    []string // Basenames excluded regardless of suffix
	IgnorePatterns []string // Glob patterns (e.g., "drafts/**", "*.tmp.pdf")
}

// New creates a Filter from the given configuration.
// Glob patterns are compiled once; an invalid pattern is an error.
func New(cfg Config) (*Filter, error) {
	f := &Filter{
		names:    map[string]bool{},
		rejected: []Reason{},
	}

	seen := make(map[string]bool, len(cfg.Suffixes))
	for _, s := range cfg.Suffixes {
		if s == "" {
			return nil, fmt.Errorf("empty suffix")
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		f.suffixes = append(f.suffixes, s)
	}

	for _, n := range cfg.IgnoreNames {
		if n = strings.TrimSpace(n); n != "" {
			f.names[n] = true
		}
	}

	for _, p := range cfg.IgnorePatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, compiledGlob{pattern: g, original: p})
	}

	return f, nil
}

// IsHidden reports whether a directory entry name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Match decides whether a file is kept. rel is the slash-separated path
// relative to the traversal root and name its basename.
// Check order: suffix, ignore set, glob patterns.
func (f *Filter) Match(rel, name string) bool {
	if f == nil {
		return true
	}

	if !f.matchesSuffix(name) {
		f.reject(ReasonSuffix, "", rel)
		return false
	}

	if f.names[name] {
		f.reject(ReasonName, name, rel)
		return false
	}

	if rule, ok := f.matchesPattern(rel, name); ok {
		f.reject(ReasonPattern, rule, rel)
		return false
	}

	return true
}

// matchesSuffix is a plain, case-sensitive tail comparison.
func (f *Filter) matchesSuffix(name string) bool {
	if len(f.suffixes) == 0 {
		return true
	}
	for _, s := range f.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func (f *Filter) matchesPattern(rel, name string) (string, bool) {
	rel = path.Clean(rel)
	for _, g := range f.patterns {
		if g.pattern.Match(rel) || g.pattern.Match(name) {
			return g.original, true
		}
	}
	return "", false
}

func (f *Filter) reject(kind, rule, rel string) {
	f.rejected = append(f.rejected, Reason{Type: kind, Rule: rule, Path: rel})
}

// Suffixes returns the configured suffixes in order.
func (f *Filter) Suffixes() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.suffixes...)
}

// Ignored returns every rejected file with its reason.
func (f *Filter) Ignored() []Reason {
	if f == nil {
		return nil
	}
	return f.rejected
}

// IgnoredCount returns the number of rejected files.
func (f *Filter) IgnoredCount() int {
	if f == nil {
		return 0
	}
	return len(f.rejected)
}

// HasRules returns true if the filter restricts anything.
func (f *Filter) HasRules() bool {
	if f == nil {
		return false
	}
	return len(f.suffixes) > 0 || len(f.names) > 0 || len(f.patterns) > 0
}

// Stats returns a summary of the filter's rules.
func (f *Filter) Stats() (suffixes, names, patterns int) {
	if f == nil {
		return 0, 0, 0
	}
	return len(f.suffixes), len(f.names), len(f.patterns)
}
