// Package links turns traversal entries into download links that point at
// the raw content of a file on a hosted git remote.
package links

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/repokit/repokit/internal/errs"
	"github.com/repokit/repokit/internal/scanner"
)

// MarkerDir is the version-control marker a project root must contain.
const MarkerDir = ".git"

// Options configures URL construction.
type Options struct {
	Host      string // e.g. "https://github.com"
	Username  string // repository owner
	Insertion string // e.g. "raw/master"
}

// Prefix returns host + "/" + username + "/".
func (o Options) Prefix() string {
	return strings.TrimRight(o.Host, "/") + "/" + strings.Trim(o.Username, "/") + "/"
}

// Link is one generated download link.
type Link struct {
	Name string // basename shown as link text
	Path string // file path as found by the traversal
	Rel  string // slash-separated path relative to the project root
	URL  string
}

// Markdown renders the link as "[name](url)".
func (l Link) Markdown() string {
	return "[" + l.Name + "](" + l.URL + ")"
}

// CheckProjectRoot verifies root is a directory containing a .git directory.
func CheckProjectRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errs.Usage("%s: %v", root, err)
	}
	if !info.IsDir() {
		return errs.Usage("%s is not a directory", root)
	}

	marker, err := os.Stat(filepath.Join(root, MarkerDir))
	if err != nil || !marker.IsDir() {
		return errs.Usage("%s is not root dir of git project", root)
	}
	return nil
}

// ProjectName derives the repository name from root's own basename,
// resolving "." and other relative forms against the working directory.
// The result ends with "/".
func ProjectName(root string) (string, error) {
	abs, err := filepath.Abs(scanner.CleanRoot(root))
	if err != nil {
		return "", errs.FileSystem("resolve", root, err)
	}
	name := filepath.Base(abs)
	if name == string(filepath.Separator) || name == "." {
		return "", errs.Usage("cannot derive a project name from %s", root)
	}
	return name + "/", nil
}

// Generate builds one link per entry, in entry order.
func Generate(root string, entries []scanner.Entry, opts Options) ([]Link, error) {
	project, err := ProjectName(root)
	if err != nil {
		return nil, err
	}

	base := opts.Prefix() + project
	if ins := strings.Trim(opts.Insertion, "/"); ins != "" {
		base += ins + "/"
	}

	result := make([]Link, 0, len(entries))
	for _, e := range entries {
		if e.Rel == "" {
			return nil, errs.FileSystem("generate link", e.Path, errors.New("entry has no path relative to the project root"))
		}
		result = append(result, Link{
			Name: e.Name(),
			Path: e.Path,
			Rel:  e.Rel,
			URL:  base + e.Rel,
		})
	}
	return result, nil
}

// MarkdownLines returns the Markdown rendering of each link.
func MarkdownLines(list []Link) []string {
	lines := make([]string, len(list))
	for i, l := range list {
		lines[i] = l.Markdown()
	}
	return lines
}
