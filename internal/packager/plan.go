package packager

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/repokit/repokit/internal/errs"
	"github.com/repokit/repokit/internal/scanner"
)

// Mapping pairs a source file with its destination.
type Mapping struct {
	Src string
	Dst string
}

// Validate checks the roots before anything touches the filesystem:
// the roots must differ, the source must be an existing directory and the
// destination must not exist yet.
func Validate(srcRoot, dstRoot string) error {
	src, dst := scanner.CleanRoot(srcRoot), scanner.CleanRoot(dstRoot)

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return errs.FileSystem("resolve", src, err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return errs.FileSystem("resolve", dst, err)
	}
	if absSrc == absDst {
		return errs.Config("destination root %s must differ from source root %s", dst, src)
	}

	info, err := os.Stat(src)
	if err != nil {
		return errs.FileSystem("stat", src, err)
	}
	if !info.IsDir() {
		return errs.FileSystem("stat", src, errors.New("not a directory"))
	}

	return checkFresh(dst)
}

// checkFresh fails if anything, even a dangling link, exists at dst.
func checkFresh(dst string) error {
	_, err := os.Lstat(dst)
	if err == nil {
		return errs.FileSystem("create", dst, fs.ErrExist)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return errs.FileSystem("stat", dst, err)
	}
	return nil
}

// Plan maps each entry found under srcRoot to the same relative location
// under dstRoot by replacing the root prefix.
func Plan(entries []scanner.Entry, srcRoot, dstRoot string) ([]Mapping, error) {
	src, dst := scanner.CleanRoot(srcRoot), scanner.CleanRoot(dstRoot)

	mappings := make([]Mapping, 0, len(entries))
	for _, e := range entries {
		d, err := substitute(e.Path, src, dst)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, Mapping{Src: e.Path, Dst: d})
	}
	return mappings, nil
}

// Reverse rebuilds the source path from Dst by swapping the roots back.
func (m Mapping) Reverse(srcRoot, dstRoot string) (string, error) {
	return substitute(m.Dst, scanner.CleanRoot(dstRoot), scanner.CleanRoot(srcRoot))
}

func substitute(p, from, to string) (string, error) {
	if !strings.HasPrefix(p, from) {
		return "", fmt.Errorf("%s is not under %s", p, from)
	}
	rest := p[len(from):]
	sep := string(filepath.Separator)
	if rest != "" && !strings.HasPrefix(rest, sep) && !strings.HasSuffix(from, sep) {
		return "", fmt.Errorf("%s is not under %s", p, from)
	}
	rest = strings.TrimPrefix(rest, sep)
	if rest == "" {
		return to, nil
	}
	if strings.HasSuffix(to, string(filepath.Separator)) {
		return to + rest, nil
	}
	return to + string(filepath.Separator) + rest, nil
}

// PrepareDirs creates dstRoot and every distinct destination parent
// directory, in first-seen order, before any file is copied.
func PrepareDirs(mappings []Mapping, dstRoot string) error {
	dstRoot = scanner.CleanRoot(dstRoot)
	if err := os.MkdirAll(dstRoot, 0o755); err != nil {
		return errs.FileSystem("create directory", dstRoot, err)
	}

	seen := map[string]bool{dstRoot: true}
	for _, m := range mappings {
		dir := filepath.Dir(m.Dst)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.FileSystem("create directory", dir, err)
		}
	}
	return nil
}
