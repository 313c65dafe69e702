// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"techblog/internal/cache"
)

type DBCmd struct {
	flags *Flags
}

// NewDBCmd creates the migrate and seed commands.
func NewDBCmd(flags *Flags) *DBCmd {
	return &DBCmd{flags: flags}
}

// Register adds migrate and seed to the application.
func (cmd *DBCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:  "migrate",
			Usage: "Apply pending PostgreSQL migrations",
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmd.run(ctx, c, false)
			},
		},
		&cli.Command{
			Name:  "seed",
			Usage: "Migrate and load the sample catalog into an empty database",
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmd.run(ctx, c, true)
			},
		},
	)
	return app
}

func (cmd *DBCmd) run(ctx context.Context, c *cli.Command, seed bool) error {
	db, err := openDatabase(ctx, cmd.flags.Config, seed)
	if err != nil {
		return err
	}
	defer db.Close()

	if seed {
		flushPageCache(ctx, cmd.flags)
	}

	log.Info().Bool("seeded", seed).Msg("database ready")
	_, _ = fmt.Fprintln(c.Root().Writer, "database is up to date")
	return nil
}

// flushPageCache drops cached pages so freshly seeded content shows up.
// A missing or unreachable Valkey only logs a warning.
func flushPageCache(ctx context.Context, flags *Flags) {
	cfg := flags.Config
	if !cfg.ValkeyEnabled() {
		return
	}
	client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		log.Warn().Err(err).Msg("page cache not flushed")
		return
	}
	defer client.Close()
	cache.NewPageCache(client, cfg.CacheTTL).InvalidateAll(ctx)
}
