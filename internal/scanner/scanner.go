// Package scanner finds files under a directory tree.
//
// Traversal is depth-first in directory-listing order: a subdirectory is fully
// enumerated before its parent's remaining siblings. Entries whose name starts
// with "." are skipped and never descended into.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/repokit/repokit/internal/errs"
	"github.com/repokit/repokit/internal/filter"
)

// SymlinkPolicy controls how symbolic links met during traversal are treated.
type SymlinkPolicy string

const (
	// SymlinkFollow resolves links: links to files are files, links to
	// directories are descended unless that would re-enter a directory
	// already on the current descent path.
	SymlinkFollow SymlinkPolicy = "follow"
	// SymlinkSkip ignores every symbolic link.
	SymlinkSkip SymlinkPolicy = "skip"
	// SymlinkError fails the traversal on the first symbolic link.
	SymlinkError SymlinkPolicy = "error"
)

// ErrSymlink is returned (wrapped) when SymlinkError meets a link.
var ErrSymlink = errors.New("symbolic link not allowed")

// ValidSymlinkPolicies returns all recognised policy names.
func ValidSymlinkPolicies() []string {
	return []string{string(SymlinkFollow), string(SymlinkSkip), string(SymlinkError)}
}

// ParseSymlinkPolicy converts a policy name. Empty selects SymlinkFollow.
func ParseSymlinkPolicy(s string) (SymlinkPolicy, error) {
	switch SymlinkPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SymlinkFollow:
		return SymlinkFollow, nil
	case SymlinkSkip:
		return SymlinkSkip, nil
	case SymlinkError:
		return SymlinkError, nil
	default:
		return "", fmt.Errorf("invalid symlink policy %q (valid: %s)",
			s, strings.Join(ValidSymlinkPolicies(), ", "))
	}
}

// Entry is a file kept by the traversal.
type Entry struct {
	// Path is the cleaned root followed by the relative path, so the root
	// appears verbatim as a prefix.
	Path string
	// Rel is the slash-separated path relative to the traversal root.
	Rel string
}

// Name returns the entry's basename.
func (e Entry) Name() string {
	return path.Base(e.Rel)
}

// Skipped records a symbolic link left out of the traversal.
type Skipped struct {
	Rel    string
	Reason string
}

// Result is the ordered outcome of a traversal.
type Result struct {
	Entries []Entry
	Skipped []Skipped
}

// Paths returns the entry paths in traversal order.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Options configures a traversal.
type Options struct {
	// Filter decides which files are kept. Nil keeps every visible file.
	Filter *filter.Filter

	// Recursive enables descent into subdirectories.
	Recursive bool

	// Symlinks selects the symbolic link policy. Empty means SymlinkFollow.
	Symlinks SymlinkPolicy
}

func (o Options) symlinks() SymlinkPolicy {
	if o.Symlinks == "" {
		return SymlinkFollow
	}
	return o.Symlinks
}

// CleanRoot normalises a root directory argument (drops trailing separators).
func CleanRoot(root string) string {
	if root == "" {
		return "."
	}
	return filepath.Clean(root)
}

// Scan traverses root and returns the kept files in traversal order.
// An unreadable root or subdirectory fails the whole scan.
func Scan(root string, opts Options) (*Result, error) {
	return scanUnder(CleanRoot(root), "", opts)
}

// ScanMany traverses each sub-directory of root in order and concatenates
// the results. An empty list, or an empty element, stands for root itself.
// Rel values stay relative to root. A file reached through overlapping
// sub-directories is kept once, at its first position.
func ScanMany(root string, subDirs []string, opts Options) (*Result, error) {
	root = CleanRoot(root)
	if len(subDirs) == 0 {
		subDirs = []string{""}
	}

	all := &Result{Entries: []Entry{}}
	seen := map[string]bool{}
	for _, sub := range subDirs {
		dir, rel := root, ""
		if sub != "" {
			sub = filepath.Clean(sub)
			if !filepath.IsLocal(sub) {
				return nil, errs.FileSystem("scan", sub, fmt.Errorf("sub directory must stay inside %s", root))
			}
			dir = join(root, sub)
			rel = filepath.ToSlash(sub)
		}

		res, err := scanUnder(dir, rel, opts)
		if err != nil {
			return nil, err
		}
		for _, e := range res.Entries {
			if seen[e.Path] {
				continue
			}
			seen[e.Path] = true
			all.Entries = append(all.Entries, e)
		}
		all.Skipped = append(all.Skipped, res.Skipped...)
	}
	return all, nil
}

// FindFiles walks root recursively and returns the paths of files whose
// name ends with one of suffixes. Hidden entries are skipped.
func FindFiles(root string, suffixes []string) ([]string, error) {
	f, err := filter.New(filter.Config{Suffixes: suffixes})
	if err != nil {
		return nil, err
	}
	res, err := Scan(root, Options{Filter: f, Recursive: true})
	if err != nil {
		return nil, err
	}
	return res.Paths(), nil
}

// walker carries traversal state for one scan.
type walker struct {
	opts Options
	res  *Result

	// active holds resolved directories on the current descent path.
	active map[string]bool
}

func scanUnder(dir, rel string, opts Options) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errs.FileSystem("scan", dir, err)
	}
	if !info.IsDir() {
		return nil, errs.FileSystem("scan", dir, errors.New("not a directory"))
	}

	w := &walker{
		opts:   opts,
		res:    &Result{Entries: []Entry{}},
		active: map[string]bool{},
	}

	if err := w.descend(dir, rel); err != nil {
		return nil, err
	}
	return w.res, nil
}

// descend walks dir unless its resolved location is already being walked.
func (w *walker) descend(dir, rel string) error {
	if w.opts.symlinks() == SymlinkFollow {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return errs.FileSystem("resolve", dir, err)
		}
		if w.active[real] {
			w.skip(rel, "symlink cycle")
			return nil
		}
		w.active[real] = true
		defer delete(w.active, real)
	}
	return w.walk(dir, rel)
}

func (w *walker) walk(dir, rel string) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		return errs.FileSystem("read directory", dir, err)
	}

	for _, d := range children {
		name := d.Name()
		if filter.IsHidden(name) {
			continue
		}

		childPath := join(dir, name)
		childRel := joinRel(rel, name)
		isDir := d.IsDir()

		if d.Type()&fs.ModeSymlink != 0 {
			switch w.opts.symlinks() {
			case SymlinkSkip:
				w.skip(childRel, "symlink")
				continue
			case SymlinkError:
				return errs.FileSystem("scan", childPath, ErrSymlink)
			}

			info, err := os.Stat(childPath)
			if err != nil {
				w.skip(childRel, "broken symlink")
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if !w.opts.Recursive {
				continue
			}
			if err := w.descend(childPath, childRel); err != nil {
				return err
			}
			continue
		}

		if w.opts.Filter.Match(childRel, name) {
			w.res.Entries = append(w.res.Entries, Entry{Path: childPath, Rel: childRel})
		}
	}
	return nil
}

func (w *walker) skip(rel, reason string) {
	w.res.Skipped = append(w.res.Skipped, Skipped{Rel: rel, Reason: reason})
}

// join appends name to dir without cleaning dir, keeping it a literal prefix.
func join(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
