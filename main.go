package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"profilebook/config"
	"profilebook/logging"
	"profilebook/store"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		slog.Error("got error running profilebook", slog.Any("error", err))
		os.Exit(1)
	}
}

// app is the state shared by the subcommands once the global flags are read
type app struct {
	out    io.Writer
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.cfg.Store(a.logger))
}

func newCommand(out io.Writer) *cli.Command {
	a := &app{out: out}

	return &cli.Command{
		Name:  "profilebook",
		Usage: "collect personal profiles into a local SQLite table",
		Flags: config.Flags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.FromCommand(cmd)
			if err != nil {
				return ctx, err
			}

			logger, closer, err := logging.New(cfg)
			if err != nil {
				return ctx, err
			}
			slog.SetDefault(logger)

			a.cfg, a.logger, a.closer = cfg, logger, closer
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if a.closer == nil {
				return nil
			}
			return a.closer.Close()
		},
		Commands: []*cli.Command{
			serveCommand(a),
			addCommand(a),
			listCommand(a),
			seedCommand(a),
		},
	}
}
