// Package archiver packs a destination tree into a gzip-compressed tarball
// by running the system tar tool.
package archiver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/repokit/repokit/internal/errs"
)

// Extension is appended to the tree's basename to name the archive.
const Extension = ".tar.gz"

// DefaultTool is the archiving program looked up on PATH.
const DefaultTool = "tar"

// CommandRunner runs an external program in dir.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name in dir and returns its combined output. A missing
// program is reported before anything is started.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// Archiver compresses directory trees.
type Archiver struct {
	runner CommandRunner
	tool   string
}

// New creates an Archiver. A nil runner uses ExecRunner.
func New(runner CommandRunner) *Archiver {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Archiver{runner: runner, tool: DefaultTool}
}

// Path returns the archive path for tree dst: "<parent>/<base>.tar.gz".
func Path(dst string) string {
	dst = filepath.Clean(dst)
	return filepath.Join(filepath.Dir(dst), filepath.Base(dst)+Extension)
}

// RemoveStale deletes an archive left by a previous run. It reports whether
// a file was removed; a missing archive is not an error.
func (a *Archiver) RemoveStale(dst string) (bool, error) {
	p := Path(dst)
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, errs.FileSystem("remove", p, err)
	}
	return true, nil
}

// Compress runs "tar -czf <base>.tar.gz <base>" in the parent of dst so the
// archive holds a single top-level directory. The tree itself is left in
// place; a failed run removes any partial archive.
func (a *Archiver) Compress(ctx context.Context, dst string) error {
	dst = filepath.Clean(dst)
	parent, base := filepath.Dir(dst), filepath.Base(dst)
	archive := base + Extension

	if _, err := a.runner.Run(ctx, parent, a.tool, "-czf", archive, base); err != nil {
		_ = os.Remove(filepath.Join(parent, archive))
		return errs.Archive("compress", dst, err)
	}

	if _, err := os.Stat(filepath.Join(parent, archive)); err != nil {
		return errs.Archive("compress", dst, fmt.Errorf("%s produced no archive: %w", a.tool, err))
	}
	return nil
}

// RemoveTree deletes the uncompressed tree after a successful Compress.
func RemoveTree(dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return errs.FileSystem("remove", dst, err)
	}
	return nil
}
