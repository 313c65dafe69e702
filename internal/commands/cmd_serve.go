// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"techblog/internal/cache"
	"techblog/internal/config"
	"techblog/internal/editor"
	"techblog/internal/handlers"
	"techblog/internal/middleware"
	"techblog/internal/render"
	"techblog/internal/router"
	"techblog/internal/search"
	"techblog/internal/session"
	"techblog/internal/storage"
	"techblog/web"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 30 * time.Second

type ServeCmd struct {
	flags *Flags
}

// NewServeCmd creates the serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application and makes it the
// default action.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "serve",
		Usage:  "Run the blog web server",
		Action: cmd.run,
	})
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'techblog --help' for usage", c.Args().First())
		}
		return cmd.run(ctx, c)
	}
	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("env", cfg.Env).
		Str("addr", cfg.Addr()).
		Str("source", cfg.ContentSource).
		Msg("configuration loaded")

	// Valkey is optional unless it backs the sessions.
	var valkey *redis.Client
	if cfg.ValkeyEnabled() {
		var err error
		valkey, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return err
		}
		defer valkey.Close()
	}

	var sessions session.Provider
	switch cfg.SessionBackend {
	case config.SessionValkey:
		sessions = session.NewValkeyProvider(valkey, cfg.SecureCookies())
	default:
		p, err := session.NewCookieProvider(cfg.SessionSecret, cfg.SecureCookies())
		if err != nil {
			return fmt.Errorf("session provider: %w", err)
		}
		sessions = p
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initialize templates: %w", err)
	}

	src, err := openContent(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer src.Close()

	pageCache := cache.NewPageCache(valkey, cfg.CacheTTL)
	if pageCache == nil {
		log.Warn().Msg("valkey not configured, page cache disabled")
	}

	var identity handlers.Identity
	if src.client != nil {
		identity = src.client
	}
	site := handlers.NewSite(renderer, identity)

	h := router.Handlers{
		Public: handlers.NewPublic(site, src, pageCache, search.NewDebouncer(search.QuietPeriod)),
	}

	// Members sign in and write through the remote API only.
	if src.client != nil {
		uploader, err := imageUploader(cfg, src.client)
		if err != nil {
			return err
		}
		h.Auth = handlers.NewAuth(site, cfg.SecureCookies())
		h.Dashboard = handlers.NewDashboard(site, src.client, editor.NewImageInserter(uploader), pageCache)
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.WriteRateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(router.Options{
		Sessions:      sessions,
		SecureCookies: cfg.SecureCookies(),
		WriteLimiter:  limiter,
		Static:        static,
	}, h)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}

// imageUploader picks where editor images go. In auto mode object storage
// wins when configured and the API's upload endpoint serves otherwise.
func imageUploader(cfg *config.Config, api editor.Uploader) (editor.Uploader, error) {
	switch cfg.EditorImages {
	case config.ImagesInline:
		log.Info().Msg("editor images are inlined as data URLs")
		return editor.DataURLUploader{}, nil
	case config.ImagesAPI:
		return api, nil
	}

	s3, err := storage.New(cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("initialize object storage: %w", err)
	}
	if s3 == nil {
		return api, nil
	}
	log.Info().Str("bucket", cfg.S3.Bucket).Msg("editor images go to object storage")
	return s3, nil
}
