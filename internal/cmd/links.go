package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/repokit/repokit/internal/config"
	"github.com/repokit/repokit/internal/errs"
	"github.com/repokit/repokit/internal/filter"
	"github.com/repokit/repokit/internal/links"
	"github.com/repokit/repokit/internal/logger"
	"github.com/repokit/repokit/internal/output"
	"github.com/repokit/repokit/internal/scanner"
	"github.com/repokit/repokit/internal/stats"
	"github.com/repokit/repokit/internal/ui"
	"github.com/repokit/repokit/internal/verify"
)

type linksOptions struct {
	commonOptions

	user        string
	host        string
	insertion   string
	format      string
	outputFile  string
	interactive bool
	verify      bool
	timeout     time.Duration
}

// NewLinksCommand returns the ghlinks root command.
func NewLinksCommand() *cobra.Command {
	opts := &linksOptions{}

	c := newCommand("ghlinks <project-root>",
		"Print Markdown download links for files in a git project",
		`ghlinks walks a git project and prints one Markdown link per matching
file, pointing at the file's raw content on the hosting remote:

  [book.epub](https://github.com/<user>/<project>/raw/master/docs/book.epub)

The project root must contain a .git directory. Hidden files and
directories are skipped. Settings are read from the nearest .ghlinks.yaml
at or above the project root; flags override them.

Examples:
  ghlinks .
  ghlinks ~/src/books --user alice --suffix .pdf,.epub
  ghlinks . --insertion raw/main --format json
  ghlinks . --output links.html
  ghlinks . --interactive
  ghlinks . --verify

Config file (.ghlinks.yaml):
  host: https://github.com
  username: alice
  insertion: raw/master
  suffixes: [.pdf, .epub]
  ignore: [draft.pdf]
  ignore_patterns: ["old/**"]`)
	c.Args = exactArgs(1, "ghlinks <project-root>")
	c.RunE = func(c *cobra.Command, args []string) error {
		return runLinks(c, args[0], opts)
	}

	f := c.Flags()
	f.StringVarP(&opts.user, "user", "u", "", "Repository owner on the remote (default from config: "+config.DefaultUsername+")")
	f.StringVar(&opts.host, "host", "", "Remote base URL (default from config: "+config.DefaultHost+")")
	f.StringVar(&opts.insertion, "insertion", "", "URL segment before the file path (default from config: "+config.DefaultInsertion+")")
	f.StringVarP(&opts.format, "format", "f", "",
		"Output format for stdout: "+strings.Join(output.ValidFormats(), ", "))
	f.StringVarP(&opts.outputFile, "output", "o", "",
		"Write links to file (format inferred from extension)")
	f.BoolVarP(&opts.interactive, "interactive", "i", false,
		"Pick links in a terminal UI and print the selected ones")
	f.BoolVar(&opts.verify, "verify", false,
		"Check that every link resolves on the remote and warn about the ones that don't")
	f.DurationVar(&opts.timeout, "timeout", verify.DefaultTimeout, "Per-request timeout for --verify")
	opts.register(c, config.LinksFileName)

	return c
}

func runLinks(c *cobra.Command, root string, opts *linksOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if opts.format != "" && opts.outputFile != "" {
		return errs.Usage("--format and --output are mutually exclusive; " +
			"use --format for stdout output, or --output for file output")
	}
	if opts.interactive && (opts.format != "" || opts.outputFile != "" || opts.verify) {
		return errs.Usage("--interactive cannot be combined with --format, --output or --verify")
	}

	log, err := opts.newLogger(c)
	if err != nil {
		return err
	}

	if err := links.CheckProjectRoot(root); err != nil {
		return err
	}

	cfg, err := loadLinksConfig(c, root, opts)
	if err != nil {
		return err
	}

	f, err := filter.New(opts.filterRules(cfg.Suffixes, cfg.Ignore, cfg.IgnorePatterns))
	if err != nil {
		return errs.Config("%v", err)
	}

	linkOpts := links.Options{Host: cfg.Host, Username: cfg.Username, Insertion: cfg.Insertion}
	log.Debugf("url prefix %s, insertion %q, suffixes %v", linkOpts.Prefix(), cfg.Insertion, f.Suffixes())
	logFilter(log, f)

	perf := stats.New()
	generate := func() ([]links.Link, error) {
		var list []links.Link
		err := perf.Track("scan", func() error {
			res, err := scanner.Scan(root, scanner.Options{Filter: f, Recursive: true})
			if err != nil {
				return err
			}
			for _, s := range res.Skipped {
				log.Warnf("skipped %s: %s", s.Rel, s.Reason)
			}
			perf.FilesScanned = len(res.Entries)
			list, err = links.Generate(root, res.Entries, linkOpts)
			return err
		})
		perf.LinksFound = len(list)
		perf.Ignored = len(nonSuffixReasons(f.Ignored()))
		return list, err
	}

	if opts.interactive {
		return runPicker(c, root, generate)
	}

	list, err := generate()
	if err != nil {
		return err
	}

	project, err := links.ProjectName(root)
	if err != nil {
		return err
	}
	if opts.verify {
		_ = perf.Track("verify", func() error {
			verifyLinks(c, log, list, opts.timeout)
			return nil
		})
	}

	report := output.NewReport(root, project, list, f.Ignored())

	err = perf.Track("output", func() error {
		if opts.outputFile != "" {
			if err := output.WriteToFile(report, opts.outputFile); err != nil {
				return errs.FileSystem("write", opts.outputFile, err)
			}
			log.Infof("wrote %d link(s) to %s", len(list), opts.outputFile)
			return nil
		}

		data, err := output.FormatReport(report, output.Format(cfg.Format))
		if err != nil {
			return err
		}
		_, err = c.OutOrStdout().Write(data)
		return err
	})
	if err != nil {
		return err
	}

	if opts.showStats {
		perf.Finish()
		fmt.Fprint(c.ErrOrStderr(), perf.String())
	}
	return nil
}

// loadLinksConfig reads the configuration and applies flag overrides.
func loadLinksConfig(c *cobra.Command, root string, opts *linksOptions) (*config.LinksConfig, error) {
	var (
		cfg *config.LinksConfig
		err error
	)
	switch {
	case opts.noConfig:
		cfg = config.DefaultLinks()
	case opts.configPath != "":
		if _, statErr := os.Stat(opts.configPath); statErr != nil {
			return nil, configError(opts.configPath, statErr)
		}
		cfg, err = config.LoadLinksFrom(opts.configPath)
	default:
		cfg, err = config.FindLinks(root)
	}
	if err != nil {
		return nil, configError(opts.configPath, err)
	}

	flags := c.Flags()
	if flags.Changed("user") {
		cfg.Username = strings.Trim(opts.user, "/")
	}
	if flags.Changed("host") {
		cfg.Host = strings.TrimRight(opts.host, "/")
	}
	if flags.Changed("insertion") {
		cfg.Insertion = strings.Trim(opts.insertion, "/")
	}
	if flags.Changed("suffix") {
		cfg.Suffixes = opts.suffixes
	}
	if opts.format != "" {
		cfg.Format = strings.ToLower(opts.format)
	}
	if cfg.Format == "" {
		cfg.Format = config.DefaultFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, errs.Config("invalid config: %v", err)
	}
	return cfg, nil
}

// runPicker lets the user choose links in a terminal UI. The UI draws on
// stderr so the chosen Markdown lines on stdout can be piped.
func runPicker(c *cobra.Command, root string, load ui.Loader) error {
	p := tea.NewProgram(ui.New(root, load),
		tea.WithContext(c.Context()),
		tea.WithOutput(os.Stderr),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running interactive mode: %w", err)
	}

	m, ok := final.(ui.Model)
	if !ok {
		return nil
	}
	if err := m.Err(); err != nil {
		return err
	}
	if !m.Confirmed() {
		return nil
	}
	for _, line := range links.MarkdownLines(m.Selected()) {
		fmt.Fprintln(c.OutOrStdout(), line)
	}
	return nil
}

// verifyLinks checks list against the remote and logs every link that
// does not resolve. The generated output is not affected.
func verifyLinks(c *cobra.Command, log *logger.ConsoleLogger, list []links.Link, timeout time.Duration) {
	v := verify.New(verify.DefaultOptions().WithTimeout(timeout))
	results := v.Verify(c.Context(), list)

	failed := verify.Failed(results)
	for _, r := range failed {
		log.Warnf("unreachable %s: %s", r.Link.URL, r.Problem())
	}
	log.Infof("verified %d link(s), %d unreachable", len(results), len(failed))
}

func nonSuffixReasons(reasons []filter.Reason) []filter.Reason {
	var out []filter.Reason
	for _, r := range reasons {
		if r.Type != filter.ReasonSuffix {
			out = append(out, r)
		}
	}
	return out
}
