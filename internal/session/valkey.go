// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// keyPrefix namespaces credential keys in Valkey.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32

	// opTimeout bounds each Valkey round trip made from a jar.
	opTimeout = 3 * time.Second
)

// ValkeyProvider keeps credentials server-side in Valkey. The browser only
// holds an opaque session ID.
type ValkeyProvider struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewValkeyProvider creates a provider backed by the given Valkey client.
func NewValkeyProvider(client *redis.Client, secure bool) *ValkeyProvider {
	return &ValkeyProvider{client: client, ttl: TTL, secure: secure}
}

// Open binds a jar to the exchange. Valkey is read lazily on first access.
func (p *ValkeyProvider) Open(w http.ResponseWriter, r *http.Request) CredentialStore {
	j := &ValkeyJar{p: p, w: w, ctx: r.Context()}
	if c, err := r.Cookie(CookieName); err == nil {
		j.id = c.Value
	}
	return j
}

// ValkeyJar is the per-request view of a Valkey-held credential pair.
type ValkeyJar struct {
	p   *ValkeyProvider
	w   http.ResponseWriter
	ctx context.Context

	mu     sync.Mutex
	id     string
	loaded bool
	creds  Credentials
}

func (j *ValkeyJar) load() Credentials {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.loaded || j.id == "" {
		return j.creds
	}
	j.loaded = true

	ctx, cancel := context.WithTimeout(context.WithoutCancel(j.ctx), opTimeout)
	defer cancel()

	payload, err := j.p.client.Get(ctx, keyPrefix+j.id).Bytes()
	if errors.Is(err, redis.Nil) {
		return j.creds
	}
	if err != nil {
		log.Warn().Err(err).Msg("credential lookup failed")
		return j.creds
	}
	if err := json.Unmarshal(payload, &j.creds); err != nil {
		log.Warn().Err(err).Msg("credential payload corrupt")
	}
	return j.creds
}

func (j *ValkeyJar) AccessToken() string  { return j.load().AccessToken }
func (j *ValkeyJar) RefreshToken() string { return j.load().RefreshToken }

func (j *ValkeyJar) SetCredentials(access, refresh string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.id == "" {
		id, err := generateID()
		if err != nil {
			return fmt.Errorf("session create: %w", err)
		}
		j.id = id
	}

	creds := Credentials{AccessToken: access, RefreshToken: refresh}
	payload, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(j.ctx), opTimeout)
	defer cancel()

	if err := j.p.client.Set(ctx, keyPrefix+j.id, payload, j.p.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	j.creds, j.loaded = creds, true

	http.SetCookie(j.w, &http.Cookie{
		Name:     CookieName,
		Value:    j.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.p.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(j.p.ttl.Seconds()),
	})
	return nil
}

func (j *ValkeyJar) ClearCredentials() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.creds, j.loaded = Credentials{}, true
	if j.id == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(j.ctx), opTimeout)
	defer cancel()

	if err := j.p.client.Del(ctx, keyPrefix+j.id).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	j.id = ""

	http.SetCookie(j.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
