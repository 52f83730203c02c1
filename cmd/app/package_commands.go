package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/startupheroes/package-events/cmd/app/commands"
	"github.com/startupheroes/package-events/internal/app"
	"github.com/startupheroes/package-events/internal/config"
)

func getPackageCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seed-packages",
			Usage: "Load package fixtures from a YAML file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Required: true,
					Usage:    "Path to the YAML fixture file",
				},
				newFormatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				seedUseCase, err := container.SeedUseCase()
				if err != nil {
					return err
				}

				return commands.RunSeedPackages(
					ctx,
					seedUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("file"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "send-package",
			Usage: "Publish the event of one package",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Package ID",
				},
				newFormatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return err
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.PackageEventUseCase()
				if err != nil {
					return err
				}

				producer, err := container.Producer()
				if err != nil {
					return err
				}

				return commands.RunSendPackage(
					ctx,
					useCase,
					producer,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Int64("id"),
					cfg.ProducerFlushTimeout,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "bootstrap-packages",
			Usage: "Publish the events of every non-cancelled package",
			Flags: []cli.Flag{newFormatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return err
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.PackageEventUseCase()
				if err != nil {
					return err
				}

				producer, err := container.Producer()
				if err != nil {
					return err
				}

				return commands.RunBootstrapPackages(
					ctx,
					useCase,
					producer,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.ProducerFlushTimeout,
					cmd.String("format"),
				)
			},
		},
	}
}

func newFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
