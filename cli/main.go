package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nellarium/tokenfarm/internal/cli"
	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/config"
	"github.com/nellarium/tokenfarm/internal/domain"
)

// Set with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		if errors.Is(err, domain.ErrInteractiveDisabled) {
			fmt.Fprintln(os.Stderr, render.FormatWarning("Pass the value as an argument or drop --non-interactive"))
		}
		os.Exit(1)
	}
}
