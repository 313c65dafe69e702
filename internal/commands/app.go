// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"techblog/internal/config"
	"techblog/internal/logger"
)

// NewApp builds the root command with every subcommand registered. With
// no subcommand it runs the web server.
func NewApp(version string) *cli.Command {
	flags := &Flags{}

	app := &cli.Command{
		Name:      "techblog",
		Usage:     "Team tech blog server and terminal reader",
		UsageText: "techblog [global options] [command [command options]]",
		Description: `Serves the tech blog over HTTP. Content comes from the remote REST API,
a local PostgreSQL database or the built-in sample catalog (CONTENT_SOURCE).

Run 'techblog' with no arguments to start the server.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "dotenv file loaded before reading the environment",
				Value:       ".env",
				Destination: &flags.EnvFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error); overrides LOG_LEVEL",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "credentials",
				Usage:       "credential file used by login, logout and whoami",
				Sources:     cli.EnvVars("TECHBLOG_CREDENTIALS"),
				Destination: &flags.CredentialsPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := config.LoadDotEnv(flags.EnvFile); err != nil {
				return ctx, err
			}
			cfg, err := config.Load()
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.LogLevel != "" {
				cfg.LogLevel = flags.LogLevel
			}
			l, err := logger.Setup(cfg.LogLevel, cfg.IsDev())
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			flags.Config = cfg
			log.Debug().Str("source", cfg.ContentSource).Msg("configuration loaded")
			return l.WithContext(ctx), nil
		},
	}

	app = NewServeCmd(flags).Register(app)
	app = NewDBCmd(flags).Register(app)
	app = NewReadCmd(flags).Register(app)
	app = NewAuthCmd(flags).Register(app)

	return app
}
