package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repokit/repokit/internal/config"
	"github.com/repokit/repokit/internal/display"
	"github.com/repokit/repokit/internal/errs"
	"github.com/repokit/repokit/internal/filter"
	"github.com/repokit/repokit/internal/packager"
	"github.com/repokit/repokit/internal/scanner"
	"github.com/repokit/repokit/internal/stats"
)

type packOptions struct {
	commonOptions

	compress bool
	src      string
	dst      string
	subDirs  []string
	symlinks string
}

// NewPackCommand returns the pkgfiles root command.
func NewPackCommand() *cobra.Command {
	opts := &packOptions{}

	c := newCommand("pkgfiles",
		"Copy matching files into a fresh tree and optionally compress it",
		`pkgfiles copies every file under the source root whose name ends with
one of the configured suffixes into the destination root, keeping the
relative layout. The destination must not exist yet. With -c the result
is packed into <dst>.tar.gz next to it and the copied tree is removed.

Settings are read from .pkgfiles.yaml (or .pkgfiles.toml) in the current
directory; flags override them.

Examples:
  pkgfiles
  pkgfiles -c
  pkgfiles --src data --dst /tmp/pkg --sub-dir plans --suffix .plan
  pkgfiles --symlinks skip --stats

Config file (.pkgfiles.yaml):
  src_root: test-data
  dst_root: ../test-data
  sub_dirs: [a, b]
  suffixes: [.index, .data, .plan]
  ignore: [scratch.data]
  compress: false
  symlinks: follow`)
	c.Args = exactArgs(0, "pkgfiles [-c] [flags]")
	c.RunE = func(c *cobra.Command, _ []string) error {
		return runPack(c, opts)
	}

	f := c.Flags()
	f.BoolVarP(&opts.compress, "compress", "c", false, "Pack the destination into <dst>.tar.gz and remove the tree")
	f.StringVar(&opts.src, "src", "", "Source root (default from config: "+config.DefaultSrcRoot+")")
	f.StringVar(&opts.dst, "dst", "", "Destination root, must not exist (default from config: "+config.DefaultDstRoot+")")
	f.StringSliceVar(&opts.subDirs, "sub-dir", nil, "Only copy these directories under the source root (can be repeated)")
	f.StringVar(&opts.symlinks, "symlinks", "",
		"Symbolic link policy: "+strings.Join(scanner.ValidSymlinkPolicies(), ", "))
	opts.register(c, config.PackageFileName)

	return c
}

func runPack(c *cobra.Command, opts *packOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	log, err := opts.newLogger(c)
	if err != nil {
		return err
	}

	cfg, err := loadPackageConfig(c, opts)
	if err != nil {
		return err
	}

	f, err := filter.New(opts.filterRules(cfg.Suffixes, cfg.Ignore, cfg.IgnorePatterns))
	if err != nil {
		return errs.Config("%v", err)
	}
	policy, err := scanner.ParseSymlinkPolicy(cfg.Symlinks)
	if err != nil {
		return errs.Config("%v", err)
	}

	log.Debugf("packaging %s -> %s (sub dirs %v, compress %t)", cfg.SrcRoot, cfg.DstRoot, cfg.SubDirs, cfg.Compress)
	logFilter(log, f)

	perf := stats.New()
	p := packager.New(packager.Config{
		SrcRoot:  cfg.SrcRoot,
		DstRoot:  cfg.DstRoot,
		SubDirs:  cfg.SubDirs,
		Filter:   f,
		Symlinks: policy,
		Compress: cfg.Compress,
	},
		packager.WithPrinter(display.New(c.OutOrStdout())),
		packager.WithLogger(log),
		packager.WithStats(perf),
	)

	sum, err := p.Run(c.Context())
	if err != nil {
		return err
	}
	if ph, ok := perf.Phase(packager.PhaseCopy); ok {
		log.Infof("copied %d file(s), %s in %s",
			sum.Files, stats.FormatBytes(uint64(sum.Bytes)), stats.FormatDuration(ph.Duration()))
	}
	if sum.Archive != "" {
		log.Infof("wrote %s", sum.Archive)
	}

	if opts.showStats {
		fmt.Fprint(c.OutOrStdout(), perf.String())
	}
	return nil
}

// loadPackageConfig reads the configuration and applies flag overrides.
func loadPackageConfig(c *cobra.Command, opts *packOptions) (*config.PackageConfig, error) {
	var (
		cfg *config.PackageConfig
		err error
	)
	switch {
	case opts.noConfig:
		cfg = config.DefaultPackage()
	case opts.configPath != "":
		if _, statErr := os.Stat(opts.configPath); statErr != nil {
			return nil, configError(opts.configPath, statErr)
		}
		cfg, err = config.LoadPackageFrom(opts.configPath)
	default:
		cfg, err = config.LoadPackage(".")
	}
	if err != nil {
		return nil, configError(opts.configPath, err)
	}

	flags := c.Flags()
	if flags.Changed("src") {
		cfg.SrcRoot = filepath.Clean(opts.src)
	}
	if flags.Changed("dst") {
		cfg.DstRoot = filepath.Clean(opts.dst)
	}
	if flags.Changed("sub-dir") {
		cfg.SubDirs = opts.subDirs
	}
	if flags.Changed("suffix") {
		cfg.Suffixes = opts.suffixes
	}
	if flags.Changed("symlinks") {
		cfg.Symlinks = strings.ToLower(opts.symlinks)
	}
	if opts.compress {
		cfg.Compress = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, errs.Config("invalid config: %v", err)
	}
	return cfg, nil
}
