// Command branchctl prints the latest PipelineRun per branch of a repository
// straight from the dashboard API, without a running branchpanel server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "branchctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var verbose bool

	return &cli.App{
		Name:  "branchctl",
		Usage: "Show the latest pipeline run of every branch of a repository",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Log requests to stderr",
				Destination: &verbose,
			},
		},
		Before: func(*cli.Context) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Commands: []*cli.Command{
			branchesCommand(),
			filtersCommand(),
		},
	}
}
