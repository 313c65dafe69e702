// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// blog. It organizes routes into the public site, the login flow and the
// member dashboard with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"techblog/internal/handlers"
	"techblog/internal/middleware"
	"techblog/internal/session"
)

// Handlers bundles the handler groups. Auth and Dashboard are nil when the
// content source has no member backend.
type Handlers struct {
	Public    *handlers.Public
	Auth      *handlers.Auth
	Dashboard *handlers.Dashboard
}

// Options holds the cross-cutting pieces of the middleware stack.
type Options struct {
	Sessions      session.Provider
	SecureCookies bool
	// WriteLimiter throttles form and upload endpoints per client IP. It
	// may be nil.
	WriteLimiter *middleware.RateLimiter
	// Static is served under /static/. It may be nil.
	Static fs.FS
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CSRF(opts.SecureCookies))
	r.Use(middleware.Credentials(opts.Sessions))

	write := func(r chi.Router) chi.Router {
		if opts.WriteLimiter == nil {
			return r
		}
		return r.With(opts.WriteLimiter.Middleware)
	}

	r.Get("/health", healthHandler)
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(opts.Static)))
	}

	r.NotFound(h.Public.NotFound)

	// Public site.
	r.Get("/", h.Public.Home)
	r.Get("/search", h.Public.Search)
	r.Get("/search/live", h.Public.LiveSearch)
	r.Get("/subscribe", h.Public.SubscribeForm)
	write(r).Post("/subscribe", h.Public.Subscribe)
	r.Get("/author/{id}", h.Public.Author)
	r.Route("/article/{id}", func(r chi.Router) {
		r.Get("/", h.Public.Article)
		write(r).Post("/comments", h.Public.CreateComment)
		write(r).Post("/comments/{commentID}/replies", h.Public.CreateReply)
	})
	r.Get("/{category}", h.Public.Category)

	// Login flow, backed by the remote API.
	if h.Auth != nil {
		r.Get(middleware.LoginPath, h.Auth.Login)
		r.Get("/auth/callback", h.Auth.Callback)
		r.Post("/logout", h.Auth.Logout)
	}

	// Member dashboard.
	if h.Dashboard != nil {
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", h.Dashboard.Overview)
			r.Post("/activate", h.Dashboard.Activate)
			r.Get("/write", h.Dashboard.WriteForm)
			write(r).Post("/write", h.Dashboard.Write)
			r.Get("/profile", h.Dashboard.ProfileForm)
			r.Post("/profile", h.Dashboard.Profile)
			r.Get("/members/search", h.Dashboard.MemberSearch)

			r.Route("/editor", func(r chi.Router) {
				r.Post("/apply", h.Dashboard.EditorApply)
				r.Post("/key", h.Dashboard.EditorKey)
				write(r).Post("/image", h.Dashboard.EditorImage)
			})
		})
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
