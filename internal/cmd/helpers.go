// Package cmd builds the cobra commands for the ghlinks and pkgfiles binaries.
package cmd

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repokit/repokit/internal/errs"
	"github.com/repokit/repokit/internal/filter"
	"github.com/repokit/repokit/internal/logger"
)

// commonOptions holds the flags shared by both commands.
type commonOptions struct {
	suffixes       []string
	ignore         []string
	ignorePatterns []string
	configPath     string
	noConfig       bool
	logLevel       string
	showStats      bool
}

func (o *commonOptions) register(c *cobra.Command, configName string) {
	f := c.Flags()
	f.StringSliceVar(&o.suffixes, "suffix", nil,
		"File suffixes to match, replacing the configured list (can be repeated or comma-separated)")
	f.StringSliceVar(&o.ignore, "ignore", nil,
		"File names to skip, added to the configured list (can be repeated)")
	f.StringSliceVar(&o.ignorePatterns, "ignore-pattern", nil,
		"Glob patterns of paths to skip, added to the configured list (can be repeated)")
	f.StringVar(&o.configPath, "config", "",
		"Read configuration from this file instead of "+configName)
	f.BoolVar(&o.noConfig, "no-config", false,
		"Skip loading "+configName)
	f.StringVar(&o.logLevel, "log-level", "warn",
		"Diagnostic level on stderr: "+strings.Join(logger.ValidLevels(), ", "))
	f.BoolVar(&o.showStats, "stats", false,
		"Print per-phase timing when done")
}

func (o *commonOptions) validate() error {
	if o.configPath != "" && o.noConfig {
		return errs.Usage("--config and --no-config are mutually exclusive")
	}
	return nil
}

// newLogger creates the stderr diagnostics logger for c.
func (o *commonOptions) newLogger(c *cobra.Command) (*logger.ConsoleLogger, error) {
	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return nil, errs.Usage("%v", err)
	}
	return logger.New(c.ErrOrStderr(), level), nil
}

// filterRules merges the ignore flags into the configured lists. Suffixes
// are taken as given; --suffix has already replaced them.
func (o *commonOptions) filterRules(suffixes, ignore, patterns []string) filter.Config {
	return filter.Config{
		Suffixes:       slices.Clone(suffixes),
		IgnoreNames:    append(slices.Clone(ignore), o.ignore...),
		IgnorePatterns: append(slices.Clone(patterns), o.ignorePatterns...),
	}
}

// logFilter reports the active rules at debug level and warns when none
// restrict the selection.
func logFilter(log *logger.ConsoleLogger, f *filter.Filter) {
	if !f.HasRules() {
		log.Warnf("no suffix or ignore rules configured, every visible file matches")
		return
	}
	suffixes, names, patterns := f.Stats()
	log.Debugf("filter: %d suffix(es), %d ignored name(s), %d ignore pattern(s)", suffixes, names, patterns)
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return errs.Usage("usage: %s", usage)
		}
		return nil
	}
}

// flagError turns flag parsing failures into usage errors.
func flagError(_ *cobra.Command, err error) error {
	return errs.Usage("%v", err)
}

func configError(path string, err error) error {
	if path == "" {
		return errs.Config("loading config: %v", err)
	}
	return errs.Config("loading config %s: %v", path, err)
}

func newCommand(use, short, long string) *cobra.Command {
	c := &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.SetFlagErrorFunc(flagError)
	return c
}
