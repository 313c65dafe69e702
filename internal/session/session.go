// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session holds the access/refresh credential pair issued by the
// REST backend. Every network call reads the bearer token through the
// CredentialStore interface; only login, refresh and logout write it.
//
// Stores are scoped: the HTTP server opens one per request through a
// Provider (cookie- or Valkey-backed), the CLI uses a File store, tests use
// Memory.
package session

import (
	"context"
	"net/http"
	"time"
)

const (
	// CookieName is the name of the credential cookie sent to the browser.
	CookieName = "tb_session"

	// TTL is the fixed persistence window for a credential pair.
	TTL = 7 * 24 * time.Hour
)

// Credentials is the access/refresh token pair.
type Credentials struct {
	AccessToken  string `json:"access_token" yaml:"access_token"`
	RefreshToken string `json:"refresh_token" yaml:"refresh_token"`
}

// Authenticated reports whether the pair can be used or refreshed. A
// missing refresh token means "not authenticated".
func (c Credentials) Authenticated() bool {
	return c.RefreshToken != ""
}

// CredentialStore persists one credential pair. Implementations must be
// safe for concurrent use.
type CredentialStore interface {
	// AccessToken returns the bearer token, or "" if none is stored.
	AccessToken() string
	// RefreshToken returns the refresh token, or "" if none is stored.
	RefreshToken() string
	// SetCredentials persists both tokens for TTL.
	SetCredentials(access, refresh string) error
	// ClearCredentials deletes both tokens.
	ClearCredentials() error
}

// Provider opens the credential store bound to one HTTP exchange.
type Provider interface {
	Open(w http.ResponseWriter, r *http.Request) CredentialStore
}

// Load returns the pair currently held by s.
func Load(s CredentialStore) Credentials {
	if s == nil {
		return Credentials{}
	}
	return Credentials{AccessToken: s.AccessToken(), RefreshToken: s.RefreshToken()}
}

type storeKey struct{}

// WithStore returns a context carrying the given credential store.
func WithStore(ctx context.Context, s CredentialStore) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext extracts the credential store placed by WithStore.
func FromContext(ctx context.Context) (CredentialStore, bool) {
	s, ok := ctx.Value(storeKey{}).(CredentialStore)
	return s, ok && s != nil
}
