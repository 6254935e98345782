package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultkeeper/cmd/app/commands"
	"github.com/allisson/vaultkeeper/internal/app"
	"github.com/allisson/vaultkeeper/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations (creates indexes for mongodb)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if container.IsMongoDB() {
					return container.EnsureIndexes(ctx)
				}
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
