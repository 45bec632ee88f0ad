// Command pkgfiles copies the files matching a suffix list into a fresh
// directory tree and optionally packs it into a tar.gz archive.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"

	"github.com/repokit/repokit/internal/cmd"
	"github.com/repokit/repokit/internal/errs"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := fang.Execute(
		ctx,
		cmd.NewPackCommand(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
	stop()
	os.Exit(errs.ExitCode(err)) //nolint:revive // deep-exit is acceptable for CLI entry points
}
