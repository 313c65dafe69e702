// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techblog/internal/models"
	"techblog/internal/session"
)

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"message": "ok", "status": 200, "data": data})
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": code, "message": msg}})
}

func newTestClient(t *testing.T, h http.Handler, store session.CredentialStore) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithStore(store), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestRefreshFiresAtMostOncePerRequest(t *testing.T) {
	var refreshes, calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		writeData(w, map[string]string{"accessToken": "new-access", "refreshToken": "new-refresh"})
	})
	mux.HandleFunc("GET /members/me", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeErr(w, http.StatusForbidden, "FORBIDDEN", "denied")
	})

	store := session.NewMemory("old-access", "old-refresh")
	c := newTestClient(t, mux, store)

	_, err := c.CurrentMember(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "new-access", store.AccessToken())
}

func TestRefreshReplaysWithNewTokenAndBody(t *testing.T) {
	var seen []string
	var bodies []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "r1", in["refreshToken"])
		assert.Empty(t, r.Header.Get("Authorization"))
		writeData(w, map[string]string{"accessToken": "a2", "refreshToken": "r2"})
	})
	mux.HandleFunc("POST /articles/7/comments", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if r.Header.Get("Authorization") != "Bearer a2" {
			writeErr(w, http.StatusUnauthorized, "EXPIRED", "token expired")
			return
		}
		writeData(w, map[string]any{"id": 99, "author": "kim", "content": "hi", "createdAt": "2024-03-01T12:34:56"})
	})

	store := session.NewMemory("a1", "r1")
	c := newTestClient(t, mux, store)

	got, err := c.CreateComment(context.Background(), "7", models.CommentInput{Author: "kim", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "99", got.ID)
	assert.Equal(t, "2024-03-01 12:34", got.CreatedAt)

	assert.Equal(t, []string{"Bearer a1", "Bearer a2"}, seen)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, session.Credentials{AccessToken: "a2", RefreshToken: "r2"}, session.Load(store))
}

func TestRefreshFailureClearsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusUnauthorized, "INVALID_REFRESH", "bad token")
	})
	mux.HandleFunc("GET /members/me", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusUnauthorized, "", "")
	})

	store := session.NewMemory("a", "r")
	c := newTestClient(t, mux, store)

	_, err := c.CurrentMember(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_REFRESH", apiErr.Code)
	assert.Equal(t, session.Credentials{}, session.Load(store))
}

func TestNoRefreshTokenReturnsOriginalError(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
	})
	mux.HandleFunc("GET /members/me", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusForbidden, "FORBIDDEN", "no")
	})

	store := session.NewMemory("stale", "")
	c := newTestClient(t, mux, store)

	_, err := c.CurrentMember(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, refreshes.Load())
	assert.Equal(t, "stale", store.AccessToken())
}

func TestNonAuthErrorsPropagate(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) { refreshes.Add(1) })
	mux.HandleFunc("GET /articles/1", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusInternalServerError, "BOOM", "kaput")
	})
	mux.HandleFunc("GET /articles/2", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "missing")
	})

	c := newTestClient(t, mux, session.NewMemory("a", "r"))

	_, err := c.GetArticle(context.Background(), "1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)

	_, err = c.GetArticle(context.Background(), "2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, refreshes.Load())
}

func TestConcurrentRefreshIsCoalesced(t *testing.T) {
	var refreshes atomic.Int32
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		<-release
		writeData(w, map[string]string{"accessToken": "fresh", "refreshToken": "r2"})
	})
	mux.HandleFunc("GET /members/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeErr(w, http.StatusUnauthorized, "", "")
			return
		}
		writeData(w, map[string]any{"id": 1, "name": "kim"})
	})

	store := session.NewMemory("stale", "r1")
	c := newTestClient(t, mux, store)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.CurrentMember(context.Background())
			errs <- err
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestContextStoreTakesPrecedence(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ctx-token" {
			writeErr(w, http.StatusUnauthorized, "", "")
			return
		}
		writeData(w, map[string]any{"authenticated": true, "memberId": 5, "name": "lee", "role": "admin", "activated": true})
	})

	c := newTestClient(t, mux, session.NewMemory("default-token", ""))

	info, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.False(t, info.Authenticated)

	ctx := session.WithStore(context.Background(), session.NewMemory("ctx-token", "r"))
	info, err = c.Me(ctx)
	require.NoError(t, err)
	assert.True(t, info.Authenticated)
	assert.Equal(t, "5", info.MemberID)
	assert.Equal(t, models.RoleAdmin, info.Role)
}

func TestNoStoreSendsAnonymously(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tags", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeData(w, []any{map[string]any{"id": 1, "name": "go"}})
	})
	c := newTestClient(t, mux, nil)

	tags, err := c.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: "1", Name: "go"}}, tags)
}

func TestTransportErrorPropagates(t *testing.T) {
	c, err := New("http://127.0.0.1:1", WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.Tags(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
