// migrate administra el esquema de la base y las cuentas iniciales.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down --steps 1
//	go run ./cmd/migrate version
//	go run ./cmd/migrate seed-admin --admin-email admin@garansi.id --admin-password ...
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/garansi-api/internal/infrastructure/postgres"
	"github.com/jhoicas/garansi-api/pkg/config"
	"github.com/jhoicas/garansi-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	app := &cli.App{
		Name:  "garansi-migrate",
		Usage: "migraciones y cuentas iniciales de garansi-api",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "aplica las migraciones pendientes",
				Action: func(c *cli.Context) error {
					return withMigrator(cfg, func(mg *postgres.Migrator) error {
						if err := mg.Up(); err != nil {
							return err
						}
						log.Info().Msg("migraciones aplicadas")
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "revierte migraciones",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "número de migraciones a revertir"},
				},
				Action: func(c *cli.Context) error {
					steps := c.Int("steps")
					if steps < 1 {
						return cli.Exit("--steps debe ser mayor que cero", 1)
					}
					return withMigrator(cfg, func(mg *postgres.Migrator) error {
						if err := mg.Down(steps); err != nil {
							return err
						}
						log.Info().Int("steps", steps).Msg("migraciones revertidas")
						return nil
					})
				},
			},
			{
				Name:  "version",
				Usage: "muestra la versión aplicada",
				Action: func(c *cli.Context) error {
					return withMigrator(cfg, func(mg *postgres.Migrator) error {
						v, dirty, err := mg.Version()
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "version=%d dirty=%t\n", v, dirty)
						return nil
					})
				},
			},
			{
				Name:  "seed-admin",
				Usage: "crea las cuentas ADMIN y SERVICE_CENTER si no existen",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "admin-email", Required: true, EnvVars: []string{"SEED_ADMIN_EMAIL"}},
					&cli.StringFlag{Name: "admin-password", Required: true, EnvVars: []string{"SEED_ADMIN_PASSWORD"}},
					&cli.StringFlag{Name: "service-email", EnvVars: []string{"SEED_SERVICE_EMAIL"}},
					&cli.StringFlag{Name: "service-password", EnvVars: []string{"SEED_SERVICE_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					ctx := c.Context
					pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
					if err != nil {
						return err
					}
					defer pool.Close()

					seeder := newSeeder(postgres.NewUserRepository(pool))
					accounts := []seedAccount{
						{Email: c.String("admin-email"), Password: c.String("admin-password"), Name: "Administrator", Role: roleAdmin},
					}
					if c.String("service-email") != "" {
						accounts = append(accounts, seedAccount{
							Email:    c.String("service-email"),
							Password: c.String("service-password"),
							Name:     "Service Center",
							Role:     roleServiceCenter,
						})
					}
					for _, acc := range accounts {
						created, err := seeder.Seed(ctx, acc)
						if err != nil {
							return fmt.Errorf("seed %s: %w", acc.Role, err)
						}
						log.Info().Str("email", acc.Email).Str("role", acc.Role).Bool("created", created).Msg("cuenta inicial")
					}
					return nil
				},
			},
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("migrate")
		os.Exit(1)
	}
}

func withMigrator(cfg *config.Config, fn func(*postgres.Migrator) error) error {
	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		return err
	}
	defer func() { _ = mg.Close() }()
	return fn(mg)
}
