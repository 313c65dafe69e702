// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"techblog/internal/middleware"
	"techblog/internal/session"
)

// redirectCookie remembers where to send the visitor after the backend's
// login round trip.
const redirectCookie = "tb_redirect"

const (
	msgNoCredentials  = "인증 정보를 받지 못했습니다."
	msgLoginUnstored  = "로그인 처리 중 오류가 발생했습니다."
	msgLoginInfoError = "로그인 정보를 불러오지 못했습니다."
)

// Auth groups the login flow handlers. The backend performs the actual
// sign-in and hands the token pair back on the callback URL.
type Auth struct {
	*Site
	secure bool
}

// NewAuth creates a new Auth handler group.
func NewAuth(site *Site, secure bool) *Auth {
	return &Auth{Site: site, secure: secure}
}

// Login shows the login page. The redirect target is kept in a short-lived
// cookie until the callback arrives.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if a.identity == nil {
		a.NotFound(w, r)
		return
	}

	target := middleware.SafeRedirect(r.URL.Query().Get("redirect"))
	if middleware.Authenticated(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookie,
		Value:    url.QueryEscape(target),
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})

	data := map[string]any{}
	status := http.StatusOK
	info, err := a.identity.LoginInfo(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load login info")
		data["Error"] = msgLoginInfoError
		data["LoginURL"] = middleware.LoginURL(target)
		status = http.StatusBadGateway
	} else {
		data["LoginURL"] = info.URL
		data["Description"] = info.Description
	}

	a.renderer.Page(w, r, status, "login", a.page(r, "로그인", "login", data))
}

// Callback receives the token pair (or an error) from the backend's login
// flow, stores the pair and returns the visitor to where they started.
func (a *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if msg := q.Get("error"); msg != "" {
		a.loginFailed(w, r, msg)
		return
	}

	access, refresh := q.Get("accessToken"), q.Get("refreshToken")
	if access == "" || refresh == "" {
		a.loginFailed(w, r, msgNoCredentials)
		return
	}

	store, ok := session.FromContext(r.Context())
	if !ok {
		a.loginFailed(w, r, msgLoginUnstored)
		return
	}
	if err := store.SetCredentials(access, refresh); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("store credentials")
		a.loginFailed(w, r, msgLoginUnstored)
		return
	}

	target := "/"
	if c, err := r.Cookie(redirectCookie); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil {
			target = middleware.SafeRedirect(v)
		}
	}
	a.clearRedirect(w)

	zerolog.Ctx(r.Context()).Info().Msg("member signed in")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout forgets the visitor's credentials.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if store, ok := session.FromContext(r.Context()); ok {
		if err := store.ClearCredentials(); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("clear credentials")
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *Auth) loginFailed(w http.ResponseWriter, r *http.Request, msg string) {
	a.clearRedirect(w)
	a.renderer.Page(w, r, http.StatusUnauthorized, "login", a.page(r, "로그인 실패", "login", map[string]any{
		"Error":    msg,
		"LoginURL": middleware.LoginPath,
	}))
}

func (a *Auth) clearRedirect(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
