// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package commands implements the techblog command line: the web server
// plus a few terminal commands that read the blog through the same
// content sources.
package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"techblog/internal/backend"
	"techblog/internal/config"
	"techblog/internal/database"
	"techblog/internal/handlers"
	"techblog/internal/offline"
	"techblog/internal/session"
	"techblog/internal/store"
)

// Flags holds the global flags and the configuration loaded from them.
type Flags struct {
	EnvFile         string
	LogLevel        string
	CredentialsPath string

	// Config is populated by the root command's Before hook.
	Config *config.Config
}

// Credentials returns the CLI credential file.
func (f *Flags) Credentials() *session.File {
	path := f.CredentialsPath
	if path == "" {
		path = session.DefaultFilePath()
	}
	return session.NewFile(path)
}

// content is an opened content source with its optional member backend.
type content struct {
	handlers.Source
	// client is set when the source is the remote API.
	client *backend.Client
	db     *sql.DB
}

func (c *content) Close() {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}
}

// openContent connects the configured content source. The fallback store
// is used by the remote client when a request context carries none.
func openContent(ctx context.Context, cfg *config.Config, fallback session.CredentialStore) (*content, error) {
	switch cfg.ContentSource {
	case config.SourceRemote:
		opts := []backend.Option{backend.WithTimeout(cfg.APITimeout)}
		if fallback != nil {
			opts = append(opts, backend.WithStore(fallback))
		}
		client, err := backend.New(cfg.APIBaseURL, opts...)
		if err != nil {
			return nil, err
		}
		log.Info().Str("url", client.BaseURL()).Msg("using remote content source")
		return &content{Source: client, client: client}, nil

	case config.SourcePostgres:
		db, err := openDatabase(ctx, cfg, cfg.IsDev())
		if err != nil {
			return nil, err
		}
		return &content{Source: store.NewLocal(db), db: db}, nil

	case config.SourceMemory:
		src, err := offline.NewSample()
		if err != nil {
			return nil, fmt.Errorf("load sample catalog: %w", err)
		}
		log.Info().Msg("using in-memory sample content")
		return &content{Source: src}, nil
	}
	return nil, fmt.Errorf("unknown content source %q", cfg.ContentSource)
}

// openDatabase connects, applies migrations and optionally seeds the
// sample catalog.
func openDatabase(ctx context.Context, cfg *config.Config, seed bool) (*sql.DB, error) {
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if seed {
		cat, err := offline.LoadSample()
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("load sample catalog: %w", err)
		}
		if err := database.Seed(ctx, db, cat); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// remoteClient builds an API client that authenticates with the CLI
// credential file.
func remoteClient(f *Flags) (*backend.Client, *session.File, error) {
	if f.Config.ContentSource != config.SourceRemote {
		return nil, nil, fmt.Errorf("signing in needs CONTENT_SOURCE=%s", config.SourceRemote)
	}
	creds := f.Credentials()
	client, err := backend.New(f.Config.APIBaseURL,
		backend.WithTimeout(f.Config.APITimeout),
		backend.WithStore(creds),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, creds, nil
}
