// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/interop"
	"github.com/jacs-foundation/jacs/lib/serve"
)

type serveParams struct {
	Config string
	Listen string
}

func serveCommand() *cli.Command {
	var params serveParams

	return &cli.Command{
		Name:    "serve",
		Summary: "Serve this agent's discovery documents over HTTP",
		Usage:   "jacs serve [flags]",
		Description: `Serve the agent card and its companion documents at their
well-known paths so peers can discover and verify this agent. Runs
until interrupted; SIGINT and SIGTERM trigger graceful shutdown.`,
		Examples: []cli.Example{
			{
				Description: "Serve on the configured listen address",
				Command:     "jacs serve",
			},
			{
				Description: "Serve on all interfaces",
				Command:     "jacs serve --listen :8317",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to jacs.yaml (default: JACS_CONFIG)")
			flagSet.StringVar(&params.Listen, "listen", "", "TCP listen address (default: configured address)")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			documents, err := buildDocuments(cfg)
			if err != nil {
				return err
			}

			listen := params.Listen
			if listen == "" {
				listen = cfg.Serve.Listen
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := serve.NewServer(serve.ServerConfig{
				Address: listen,
				Handler: interop.NewHandler(documents, logger),
				Logger:  logger,
			})
			return server.Serve(ctx)
		},
	}
}
