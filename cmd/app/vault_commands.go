package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultkeeper/cmd/app/commands"
	"github.com/allisson/vaultkeeper/internal/app"
	"github.com/allisson/vaultkeeper/internal/config"
	cryptoService "github.com/allisson/vaultkeeper/internal/crypto/service"
)

var vaultFileFlag = &cli.StringFlag{
	Name:    "file",
	Aliases: []string{"F"},
	Value:   "vaultkeeper.vault",
	Usage:   "Path to the local vault file",
	Sources: cli.EnvVars("VAULT_FILE"),
}

// withVault builds the cipher from ENCRYPTION_PASSPHRASE and ENCRYPTION_SALT
// (unwrapped through KMS_KEY_URI when set) and hands it to fn.
func withVault(
	fn func(ctx context.Context, cmd *cli.Command, container *app.Container, cipher *cryptoService.SecretCipher) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() { _ = container.Shutdown(ctx) }()

		cipher, err := container.SecretCipher(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, container, cipher)
	}
}

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "vault",
			Usage: "Manage a local file of passphrase-sealed secrets",
			Commands: []*cli.Command{
				{
					Name:      "put",
					Usage:     "Store a value under a name",
					ArgsUsage: "<name>",
					Flags: []cli.Flag{
						vaultFileFlag,
						&cli.StringFlag{
							Name:    "value",
							Aliases: []string{"v"},
							Usage:   "Value to store (omit to be prompted)",
						},
					},
					Action: withVault(func(
						ctx context.Context, cmd *cli.Command, container *app.Container, cipher *cryptoService.SecretCipher,
					) error {
						return commands.RunVaultPut(
							cipher,
							container.Logger(),
							cmd.String("file"),
							cmd.Args().First(),
							cmd.String("value"),
							commands.DefaultIO(),
						)
					}),
				},
				{
					Name:      "get",
					Usage:     "Print the value stored under a name",
					ArgsUsage: "<name>",
					Flags:     []cli.Flag{vaultFileFlag},
					Action: withVault(func(
						ctx context.Context, cmd *cli.Command, container *app.Container, cipher *cryptoService.SecretCipher,
					) error {
						return commands.RunVaultGet(cipher, cmd.String("file"), cmd.Args().First(), commands.DefaultIO())
					}),
				},
				{
					Name:      "rm",
					Usage:     "Remove a name from the vault",
					ArgsUsage: "<name>",
					Flags:     []cli.Flag{vaultFileFlag},
					Action: withVault(func(
						ctx context.Context, cmd *cli.Command, container *app.Container, cipher *cryptoService.SecretCipher,
					) error {
						return commands.RunVaultRemove(cipher, container.Logger(), cmd.String("file"), cmd.Args().First())
					}),
				},
				{
					Name:  "ls",
					Usage: "List the stored names",
					Flags: []cli.Flag{
						vaultFileFlag,
						&cli.StringFlag{
							Name:    "format",
							Aliases: []string{"f"},
							Value:   "text",
							Usage:   "Output format: 'text' or 'json'",
						},
					},
					Action: withVault(func(
						ctx context.Context, cmd *cli.Command, container *app.Container, cipher *cryptoService.SecretCipher,
					) error {
						return commands.RunVaultList(cipher, cmd.String("file"), cmd.String("format"), commands.DefaultIO())
					}),
				},
			},
		},
	}
}
