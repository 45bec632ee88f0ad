// Command ghlinks prints Markdown download links for the files of a git project.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/repokit/repokit/internal/cmd"
	"github.com/repokit/repokit/internal/errs"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	err := fang.Execute(
		context.Background(),
		cmd.NewLinksCommand(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
	os.Exit(errs.ExitCode(err)) //nolint:revive // deep-exit is acceptable for CLI entry points
}
