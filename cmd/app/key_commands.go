package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/caseguard/caseguard/cmd/app/commands"
	"github.com/caseguard/caseguard/internal/app"
	"github.com/caseguard/caseguard/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-signing-key",
			Usage: "Generate the root secret for token and access-log signing keys",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Usage: "KMS provider: localsecrets, gcpkms, awskms, azurekeyvault, hashivault",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI used to encrypt the generated secret",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateSigningKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
