// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/hkdf"
)

const (
	accessKey  = "access_token"
	refreshKey = "refresh_token"

	// keyLength is the size of each derived key (HMAC-SHA256 and AES-256).
	keyLength = 32
)

// DeriveKeys expands one secret into the hash and block keys used by the
// signed+encrypted cookie codec.
func DeriveKeys(secret string) (hashKey, blockKey []byte, err error) {
	if secret == "" {
		return nil, nil, fmt.Errorf("session secret is empty")
	}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("techblog credential cookie"))
	hashKey = make([]byte, keyLength)
	blockKey = make([]byte, keyLength)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive hash key: %w", err)
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive block key: %w", err)
	}
	return hashKey, blockKey, nil
}

// CookieProvider keeps credentials inside an encrypted browser cookie.
type CookieProvider struct {
	store *sessions.CookieStore
}

// NewCookieProvider creates a provider whose cookies expire after TTL.
// In non-development environments cookies are marked Secure.
func NewCookieProvider(secret string, secure bool) (*CookieProvider, error) {
	hashKey, blockKey, err := DeriveKeys(secret)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(TTL.Seconds()))
	return &CookieProvider{store: store}, nil
}

// Open decodes the request cookie. A cookie that fails to decode (rotated
// secret, tampering) reads as an empty store.
func (p *CookieProvider) Open(w http.ResponseWriter, r *http.Request) CredentialStore {
	sess, err := p.store.Get(r, CookieName)
	if err != nil {
		log.Debug().Err(err).Msg("discarding undecodable credential cookie")
		sess, _ = p.store.New(r, CookieName)
	}
	return &CookieJar{w: w, r: r, sess: sess}
}

// CookieJar is the per-request view of the credential cookie.
type CookieJar struct {
	mu   sync.Mutex
	w    http.ResponseWriter
	r    *http.Request
	sess *sessions.Session
}

func (j *CookieJar) value(key string) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, _ := j.sess.Values[key].(string)
	return v
}

func (j *CookieJar) AccessToken() string  { return j.value(accessKey) }
func (j *CookieJar) RefreshToken() string { return j.value(refreshKey) }

func (j *CookieJar) SetCredentials(access, refresh string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.sess.Values[accessKey] = access
	j.sess.Values[refreshKey] = refresh
	j.sess.Options.MaxAge = int(TTL.Seconds())
	if err := j.sess.Save(j.r, j.w); err != nil {
		return fmt.Errorf("save credential cookie: %w", err)
	}
	return nil
}

func (j *CookieJar) ClearCredentials() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.sess.Values, accessKey)
	delete(j.sess.Values, refreshKey)
	j.sess.Options.MaxAge = -1
	if err := j.sess.Save(j.r, j.w); err != nil {
		return fmt.Errorf("clear credential cookie: %w", err)
	}
	return nil
}
