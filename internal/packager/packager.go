// Package packager copies a filtered subset of a source tree into a fresh
// destination tree and optionally compresses the result.
package packager

import (
	"context"
	"os"
	"path/filepath"

	"github.com/repokit/repokit/internal/archiver"
	"github.com/repokit/repokit/internal/display"
	"github.com/repokit/repokit/internal/errs"
	"github.com/repokit/repokit/internal/filelock"
	"github.com/repokit/repokit/internal/filter"
	"github.com/repokit/repokit/internal/logger"
	"github.com/repokit/repokit/internal/scanner"
	"github.com/repokit/repokit/internal/stats"
)

// Phase names recorded in stats.
const (
	PhaseScan     = "scan"
	PhasePrepare  = "prepare"
	PhaseCopy     = "copy"
	PhaseCompress = "compress"
)

// Config describes one packaging run.
type Config struct {
	SrcRoot string
	DstRoot string

	// SubDirs restricts copying to these directories under SrcRoot.
	// Empty copies the whole source root.
	SubDirs []string

	Filter   *filter.Filter
	Symlinks scanner.SymlinkPolicy
	Compress bool
}

// Summary reports what a run did.
type Summary struct {
	Files   int
	Bytes   int64
	Archive string // path of the archive, empty without compression
	Skipped []scanner.Skipped
}

// Packager runs the scan, prepare, copy and compress steps.
type Packager struct {
	cfg      Config
	archiver *archiver.Archiver
	printer  *display.Printer
	log      *logger.ConsoleLogger
	stats    *stats.Stats
}

// Option configures a Packager.
type Option func(*Packager)

// WithArchiver replaces the default tar-backed archiver.
func WithArchiver(a *archiver.Archiver) Option {
	return func(p *Packager) { p.archiver = a }
}

// WithPrinter sets where progress and status lines go.
func WithPrinter(pr *display.Printer) Option {
	return func(p *Packager) { p.printer = pr }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logger.ConsoleLogger) Option {
	return func(p *Packager) { p.log = l }
}

// WithStats records phase timings into s.
func WithStats(s *stats.Stats) Option {
	return func(p *Packager) { p.stats = s }
}

// New creates a Packager.
func New(cfg Config, opts ...Option) *Packager {
	cfg.SrcRoot = scanner.CleanRoot(cfg.SrcRoot)
	cfg.DstRoot = scanner.CleanRoot(cfg.DstRoot)

	p := &Packager{cfg: cfg}
	for _, o := range opts {
		o(p)
	}
	if p.archiver == nil {
		p.archiver = archiver.New(nil)
	}
	if p.log == nil {
		p.log = logger.Discard()
	}
	if p.stats == nil {
		p.stats = stats.New()
	}
	return p
}

// Run performs the whole packaging run. Validation, traversal and planning
// happen before anything is created; the destination's parent directory
// then holds a lock file for the rest of the run.
func (p *Packager) Run(ctx context.Context) (*Summary, error) {
	src, dst := p.cfg.SrcRoot, p.cfg.DstRoot

	if err := Validate(src, dst); err != nil {
		return nil, err
	}

	sum := &Summary{}

	var mappings []Mapping
	err := p.stats.Track(PhaseScan, func() error {
		res, err := scanner.ScanMany(src, p.cfg.SubDirs, scanner.Options{
			Filter:    p.cfg.Filter,
			Recursive: true,
			Symlinks:  p.cfg.Symlinks,
		})
		if err != nil {
			return err
		}
		for _, s := range res.Skipped {
			p.log.Warnf("skipped %s: %s", s.Rel, s.Reason)
		}
		sum.Skipped = res.Skipped
		p.stats.FilesScanned = len(res.Entries)
		p.stats.Ignored = p.cfg.Filter.IgnoredCount()

		mappings, err = Plan(res.Entries, src, dst)
		return err
	})
	if err != nil {
		return nil, err
	}

	unlock, err := p.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Another run may have finished between validation and locking.
	if err := checkFresh(dst); err != nil {
		return nil, err
	}

	if err := p.stats.Track(PhasePrepare, func() error { return p.prepare(mappings) }); err != nil {
		return nil, err
	}

	err = p.stats.Track(PhaseCopy, func() error {
		progress := p.printer.NewProgress(len(mappings))
		n, err := Copy(ctx, mappings, func(_, _ int, m Mapping) {
			progress.Step(m.Src)
			p.log.Debugf("copy %s -> %s", m.Src, m.Dst)
		})
		sum.Bytes = n
		if err != nil {
			return err
		}
		sum.Files = len(mappings)
		p.printer.Copied(len(mappings))
		return nil
	})
	p.stats.FilesCopied, p.stats.BytesCopied = sum.Files, sum.Bytes
	if err != nil {
		return sum, err
	}

	if p.cfg.Compress {
		if err := p.stats.Track(PhaseCompress, func() error { return p.compress(ctx) }); err != nil {
			return sum, err
		}
		sum.Archive = archiver.Path(dst)
	}

	p.stats.Finish()
	return sum, nil
}

func (p *Packager) lock() (func(), error) {
	dst := p.cfg.DstRoot
	if err := ensureDir(filepath.Dir(dst)); err != nil {
		return nil, err
	}

	fl := filelock.For(dst)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errs.FileSystem("lock", fl.Path(), err)
	}
	if !ok {
		return nil, errs.Config("another run is packaging into %s (lock held on %s)", dst, fl.Path())
	}
	p.log.Debugf("locked %s", fl.Path())

	return func() {
		if err := fl.Unlock(); err != nil {
			p.log.Warnf("%v", err)
		}
	}, nil
}

func (p *Packager) prepare(mappings []Mapping) error {
	if p.cfg.Compress {
		removed, err := p.archiver.RemoveStale(p.cfg.DstRoot)
		if err != nil {
			return err
		}
		if removed {
			p.printer.Removed(archiver.Path(p.cfg.DstRoot))
		}
	}
	return PrepareDirs(mappings, p.cfg.DstRoot)
}

func (p *Packager) compress(ctx context.Context) error {
	p.printer.CompressStart()
	if err := p.archiver.Compress(ctx, p.cfg.DstRoot); err != nil {
		p.log.Errorf("keeping uncompressed tree %s", p.cfg.DstRoot)
		return err
	}
	p.printer.CompressDone()

	if err := archiver.RemoveTree(p.cfg.DstRoot); err != nil {
		return err
	}
	p.printer.Removed(p.cfg.DstRoot)
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.FileSystem("create directory", dir, err)
	}
	return nil
}
