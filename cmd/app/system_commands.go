package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/startupheroes/package-events/cmd/app/commands"
	"github.com/startupheroes/package-events/internal/app"
	"github.com/startupheroes/package-events/internal/config"
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
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "create-topic",
			Usage: "Create the event topic and the dead-letter topic when configured",
			Flags: []cli.Flag{newFormatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return err
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.TopicAdmin()
				if err != nil {
					return err
				}

				return commands.RunCreateTopic(
					ctx,
					admin,
					container.Logger(),
					commands.DefaultIO().Writer,
					container.TopicSpec(),
					cfg.DeadLetterTopic,
					cmd.String("format"),
				)
			},
		},
	}
}
