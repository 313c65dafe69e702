// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techblog/internal/backend"
	"techblog/internal/session"
)

func testAuth(t *testing.T, fm *fakeMembers) *Auth {
	t.Helper()
	return NewAuth(NewSite(testRenderer(t), fm), false)
}

func cookieNamed(rr interface{ Result() *http.Response }, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginShowsBackendURLAndRemembersTarget(t *testing.T) {
	fm := &fakeMembers{login: backend.LoginInfo{URL: "https://auth.example.com/authorize", Description: "학교 계정으로 로그인"}}
	a := testAuth(t, fm)

	rr := serve(t, a.Login, http.MethodGet, "/login", get("/login?redirect=%2Fdashboard%2Fwrite"), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `href="https://auth.example.com/authorize"`)
	assert.Contains(t, rr.Body.String(), "학교 계정으로 로그인")

	c := cookieNamed(rr, redirectCookie)
	require.NotNil(t, c)
	v, err := url.QueryUnescape(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/write", v)
	assert.True(t, c.HttpOnly)
}

func TestLoginRejectsOffsiteRedirect(t *testing.T) {
	a := testAuth(t, &fakeMembers{})
	rr := serve(t, a.Login, http.MethodGet, "/login", get("/login?redirect=https%3A%2F%2Fevil.example"), nil)

	c := cookieNamed(rr, redirectCookie)
	require.NotNil(t, c)
	assert.Equal(t, url.QueryEscape("/"), c.Value)
}

func TestLoginWhenSignedInRedirects(t *testing.T) {
	a := testAuth(t, &fakeMembers{})
	rr := serve(t, a.Login, http.MethodGet, "/login", get("/login?redirect=%2Fdashboard"), session.NewMemory("a", "r"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestLoginInfoFailure(t *testing.T) {
	a := testAuth(t, &fakeMembers{loginErr: errors.New("backend down")})
	rr := serve(t, a.Login, http.MethodGet, "/login", get("/login"), nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), msgLoginInfoError)
}

func TestLoginUnavailableWithoutBackend(t *testing.T) {
	a := NewAuth(NewSite(testRenderer(t), nil), false)
	rr := serve(t, a.Login, http.MethodGet, "/login", get("/login"), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCallbackStoresCredentials(t *testing.T) {
	a := testAuth(t, &fakeMembers{})
	creds := session.NewMemory("", "")

	req := get("/auth/callback?accessToken=acc-1&refreshToken=ref-1")
	req.AddCookie(&http.Cookie{Name: redirectCookie, Value: url.QueryEscape("/dashboard?tab=1")})
	rr := serve(t, a.Callback, http.MethodGet, "/auth/callback", req, creds)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard?tab=1", rr.Header().Get("Location"))
	assert.Equal(t, session.Credentials{AccessToken: "acc-1", RefreshToken: "ref-1"}, session.Load(creds))

	c := cookieNamed(rr, redirectCookie)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
}

func TestCallbackError(t *testing.T) {
	a := testAuth(t, &fakeMembers{})
	creds := session.NewMemory("", "")

	rr := serve(t, a.Callback, http.MethodGet, "/auth/callback", get("/auth/callback?error=%EA%B6%8C%ED%95%9C+%EC%97%86%EC%9D%8C"), creds)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "권한 없음")
	assert.False(t, session.Load(creds).Authenticated())
}

func TestCallbackMissingTokens(t *testing.T) {
	a := testAuth(t, &fakeMembers{})
	rr := serve(t, a.Callback, http.MethodGet, "/auth/callback", get("/auth/callback?accessToken=only"), nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), msgNoCredentials)
}

func TestLogoutClearsCredentials(t *testing.T) {
	a := testAuth(t, &fakeMembers{})
	creds := session.NewMemory("a", "r")

	rr := serve(t, a.Logout, http.MethodPost, "/logout", postForm("/logout", ""), creds)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, session.Load(creds).Authenticated())
}
