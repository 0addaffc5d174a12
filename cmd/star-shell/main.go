package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/kcaldas/star-shell/cmd/cli"
	"github.com/kcaldas/star-shell/pkg/version"
)

func main() {
	// fang prints the error, just exit with error code
	if err := fang.Execute(context.Background(), cli.RootCmd,
		fang.WithVersion(version.GetVersion()),
		fang.WithCommit(version.Commit),
	); err != nil {
		os.Exit(1)
	}
}
