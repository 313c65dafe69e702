// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handlers_test.go provides shared test infrastructure for handler tests.
// Public handlers run against the in-memory sample source; the dashboard
// runs against a scripted member backend.
package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"techblog/internal/backend"
	"techblog/internal/middleware"
	"techblog/internal/models"
	"techblog/internal/offline"
	"techblog/internal/render"
	"techblog/internal/search"
	"techblog/internal/session"
	"techblog/internal/store"
)

var (
	_ Source = (*offline.Source)(nil)
	_ Source = (*store.Local)(nil)
)

// memProvider hands every request the same credential store.
type memProvider struct {
	store *session.Memory
}

func (p memProvider) Open(http.ResponseWriter, *http.Request) session.CredentialStore {
	return p.store
}

// fakeMembers is a scripted member backend.
type fakeMembers struct {
	mu sync.Mutex

	me       models.Member
	meErr    error
	articles []models.Article
	login    backend.LoginInfo
	loginErr error

	created    *models.ArticleDraft
	thumbnail  backend.File
	createErr  error
	activated  string
	activeErr  error
	profile    *models.ProfileUpdate
	profileErr error
	found      []models.Member
}

func (f *fakeMembers) LoginInfo(context.Context) (backend.LoginInfo, error) {
	return f.login, f.loginErr
}

func (f *fakeMembers) Me(context.Context) (models.AuthInfo, error) {
	if f.meErr != nil {
		return models.AuthInfo{}, f.meErr
	}
	return models.AuthInfo{Authenticated: true, MemberID: f.me.ID, Name: f.me.Name, Role: f.me.Role, Activated: f.me.Activated}, nil
}

func (f *fakeMembers) CurrentMember(context.Context) (models.Member, error) {
	return f.me, f.meErr
}

func (f *fakeMembers) MemberArticles(_ context.Context, _ string, page, limit int) (models.Page[models.Article], error) {
	return models.Slice(f.articles, page, limit), nil
}

func (f *fakeMembers) CreateArticle(_ context.Context, draft models.ArticleDraft, thumb backend.File) (models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Article{}, f.createErr
	}
	f.created = &draft
	f.thumbnail = thumb
	return models.Article{ID: "42", Title: draft.Title}, nil
}

func (f *fakeMembers) UploadImage(_ context.Context, name, _ string, _ []byte) (string, error) {
	return "https://cdn.example.com/" + name, nil
}

func (f *fakeMembers) ActivateMember(_ context.Context, key string) (models.Member, error) {
	if f.activeErr != nil {
		return models.Member{}, f.activeErr
	}
	f.activated = key
	m := f.me
	m.Activated = true
	return m, nil
}

func (f *fakeMembers) UpdateProfile(_ context.Context, in models.ProfileUpdate) (models.Member, error) {
	if f.profileErr != nil {
		return models.Member{}, f.profileErr
	}
	f.profile = &in
	m := f.me
	m.Name = in.Name
	m.ProfileImage = in.ProfileImage
	return m, nil
}

func (f *fakeMembers) SearchMembers(context.Context, string) ([]models.Member, error) {
	return f.found, nil
}

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rn, err := render.New()
	require.NoError(t, err)
	return rn
}

func testPublic(t *testing.T) *Public {
	t.Helper()
	src, err := offline.NewSample()
	require.NoError(t, err)
	return NewPublic(NewSite(testRenderer(t), nil), src, nil, search.NewDebouncer(0))
}

// serve routes a single request through a one-route chi router so URL
// parameters resolve, with the given credential store attached.
func serve(t *testing.T, h http.HandlerFunc, method, pattern string, req *http.Request, creds *session.Memory) *httptest.ResponseRecorder {
	t.Helper()
	if creds == nil {
		creds = session.NewMemory("", "")
	}
	r := chi.NewRouter()
	r.Use(middleware.Credentials(memProvider{store: creds}))
	r.Method(method, pattern, h)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func postForm(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a multipart POST with plain fields and at most
// one file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = io.Copy(fw, bytes.NewReader(file))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
