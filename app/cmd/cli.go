package cmd

import (
	"context"
	"os"

	"github.com/Rakhulsr/go-shoppingmall/app/configs"
	"github.com/Rakhulsr/go-shoppingmall/app/db/seeders"
	"github.com/Rakhulsr/go-shoppingmall/app/models/migrations"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// NewCommand builds the application CLI. Running it without a subcommand
// starts the web server.
func NewCommand(env configs.ENV, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "shoppingmall",
		Usage: "Shopping mall web application",
		Action: func(ctx context.Context, c *cli.Command) error {
			return Serve(ctx, env, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, env, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					logger.Info("Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill an empty database with sample categories, products and accounts",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "products",
						Usage: "products per small category",
						Value: int64(seeders.DefaultOptions().ProductsPerCategory),
					},
					&cli.StringFlag{
						Name:  "admin-password",
						Usage: "password of the seeded admin account",
						Value: seeders.DefaultOptions().AdminPassword,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}

					opts := seeders.DefaultOptions()
					opts.ProductsPerCategory = int(c.Int("products"))
					opts.AdminPassword = c.String("admin-password")
					return seeders.DBSeed(ctx, db, opts, logger)
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication, encryption and CSRF keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "file to write the keys to",
						Value: ".env.new_keys",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateSessionKeys(os.Stdout, c.String("out")); err != nil {
						return err
					}
					logger.Info("Key generation complete. Copy the keys to your .env file.", zap.String("file", c.String("out")))
					return nil
				},
			},
		},
	}
}
