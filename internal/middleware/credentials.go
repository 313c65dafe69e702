// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"techblog/internal/session"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Credentials opens the visitor's credential store and places it in the
// request context, where the backend client picks it up. It does not
// enforce authentication.
func Credentials(p session.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := p.Open(w, r)
			next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), store)))
		})
	}
}

// Authenticated reports whether the request carries a usable credential
// pair.
func Authenticated(r *http.Request) bool {
	store, ok := session.FromContext(r.Context())
	return ok && session.Load(store).Authenticated()
}

// RequireAuth redirects visitors without credentials to the login page,
// remembering where they were headed. Must run after Credentials.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Authenticated(r) {
			RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectToLogin sends the visitor to the login page with the current
// URL as the return target. Non-GET requests return to the referring page
// when it is on this site.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		target = "/"
		if ref, err := url.Parse(r.Referer()); err == nil && ref.Host == r.Host {
			target = ref.RequestURI()
		}
	}
	http.Redirect(w, r, LoginURL(target), http.StatusSeeOther)
}

// LoginURL builds the login path for a return target.
func LoginURL(target string) string {
	return LoginPath + "?redirect=" + url.QueryEscape(target)
}

// SafeRedirect returns target when it is a same-site path and "/"
// otherwise.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return "/"
	}
	return target
}
