// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"techblog/internal/session"
)

// authTransport attaches the bearer token to every request and, on a 401
// or 403, refreshes the credential pair and replays the request exactly
// once. It never retries a replay.
type authTransport struct {
	base     http.RoundTripper
	refresh  func(ctx context.Context, refreshToken string) (session.Credentials, error)
	fallback session.CredentialStore

	group singleflight.Group
}

func (t *authTransport) storeFor(req *http.Request) session.CredentialStore {
	if s, ok := session.FromContext(req.Context()); ok {
		return s
	}
	return t.fallback
}

func (t *authTransport) send(req *http.Request, access string) (*http.Response, error) {
	out := req.Clone(req.Context())
	if access != "" {
		out.Header.Set("Authorization", "Bearer "+access)
	} else {
		out.Header.Del("Authorization")
	}
	return t.base.RoundTrip(out)
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	store := t.storeFor(req)
	if store == nil {
		return t.base.RoundTrip(req)
	}

	resp, err := t.send(req, store.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	refreshToken := store.RefreshToken()
	if refreshToken == "" {
		return resp, nil
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		// The body was consumed and cannot be replayed.
		return resp, nil
	}

	drain(resp)

	creds, err := t.refreshOnce(req.Context(), refreshToken)
	if err != nil {
		if clearErr := store.ClearCredentials(); clearErr != nil {
			log.Warn().Err(clearErr).Msg("clearing credentials after failed refresh")
		}
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	if err := store.SetCredentials(creds.AccessToken, creds.RefreshToken); err != nil {
		return nil, fmt.Errorf("persist refreshed credentials: %w", err)
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	return t.send(retry, creds.AccessToken)
}

// refreshOnce collapses concurrent refreshes of the same token into one
// backend call; every waiter receives the same pair.
func (t *authTransport) refreshOnce(ctx context.Context, refreshToken string) (session.Credentials, error) {
	v, err, shared := t.group.Do(refreshToken, func() (any, error) {
		return t.refresh(context.WithoutCancel(ctx), refreshToken)
	})
	if shared {
		log.Debug().Msg("joined in-flight token refresh")
	}
	if err != nil {
		return session.Credentials{}, err
	}
	return v.(session.Credentials), nil
}

// refreshCredentials calls POST /auth/refresh with a transport that has no
// interceptor, so a rejected refresh can never recurse.
func (c *Client) refreshCredentials(ctx context.Context, refreshToken string) (session.Credentials, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return session.Credentials{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/auth/refresh", nil), bytes.NewReader(payload))
	if err != nil {
		return session.Credentials{}, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.plain.Do(req)
	if err != nil {
		return session.Credentials{}, fmt.Errorf("refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return session.Credentials{}, decodeError(resp)
	}

	var pair wireTokenPair
	if err := decodeEnvelope(resp.Body, &pair); err != nil {
		return session.Credentials{}, fmt.Errorf("refresh: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return session.Credentials{}, fmt.Errorf("refresh: incomplete token pair")
	}
	return session.Credentials{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
