package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/caseguard/caseguard/cmd/app/commands"
	"github.com/caseguard/caseguard/internal/app"
	"github.com/caseguard/caseguard/internal/config"
)

func getActorCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-actor",
			Usage: "Create an actor and grant the default attributes of its role",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Display name",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Login email",
				},
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Role: judge, secretary, auditor or super_admin",
				},
				&cli.StringFlag{
					Name:    "catalog",
					Aliases: []string{"c"},
					Usage:   "ABAC catalogue file (defaults to the built-in catalogue)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				catalog, err := commands.LoadCatalog(cmd.String("catalog"))
				if err != nil {
					return err
				}

				actorUseCase, err := container.ActorUseCase()
				if err != nil {
					return err
				}

				seeder, err := container.Seeder()
				if err != nil {
					return err
				}

				return commands.RunCreateActor(
					ctx,
					actorUseCase,
					seeder,
					catalog,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("email"),
					cmd.String("role"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "seed-abac",
			Usage: "Create the catalogue's attributes and policies and grant role defaults",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"c"},
					Usage:   "ABAC catalogue file (defaults to the built-in catalogue)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				seeder, err := container.Seeder()
				if err != nil {
					return err
				}

				return commands.RunSeedABAC(
					ctx,
					seeder,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("file"),
					cmd.String("format"),
				)
			},
		},
	}
}
