// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the blog: the public
// site, the login flow and the member dashboard.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"techblog/internal/backend"
	"techblog/internal/middleware"
	"techblog/internal/models"
	"techblog/internal/render"
)

// Source is the content backend behind the public site. It is satisfied
// by the remote API client, the PostgreSQL store and the in-memory sample.
type Source interface {
	ListArticles(ctx context.Context, category models.Category, page, limit int) (models.Page[models.Article], error)
	GetArticle(ctx context.Context, id string) (models.Article, error)
	PopularArticles(ctx context.Context, limit int) ([]models.Article, error)
	SearchArticles(ctx context.Context, query string, page, limit int) (models.Page[models.Article], error)
	Comments(ctx context.Context, articleID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, articleID string, in models.CommentInput) (models.Comment, error)
	CreateReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (models.Comment, error)
	Author(ctx context.Context, id string) (models.Member, error)
	AuthorArticles(ctx context.Context, id string, page, limit int) (models.Page[models.Article], error)
	Tags(ctx context.Context) ([]models.Tag, error)
	Subscribe(ctx context.Context, in models.SubscribeInput) error
}

// Identity resolves the signed-in member. Only the remote backend has one.
type Identity interface {
	LoginInfo(ctx context.Context) (backend.LoginInfo, error)
	Me(ctx context.Context) (models.AuthInfo, error)
}

// Members is the authenticated backend surface used by the dashboard.
type Members interface {
	Identity
	CurrentMember(ctx context.Context) (models.Member, error)
	MemberArticles(ctx context.Context, id string, page, limit int) (models.Page[models.Article], error)
	CreateArticle(ctx context.Context, draft models.ArticleDraft, thumbnail backend.File) (models.Article, error)
	UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error)
	ActivateMember(ctx context.Context, secretKey string) (models.Member, error)
	UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Member, error)
	SearchMembers(ctx context.Context, query string) ([]models.Member, error)
}

var (
	_ Source  = (*backend.Client)(nil)
	_ Members = (*backend.Client)(nil)
)

const msgLoadFailed = "데이터를 불러오는데 실패했습니다."

// Site holds what every page handler shares: the renderer and, when the
// remote backend is in use, the identity lookup for the navigation bar.
type Site struct {
	renderer *render.Renderer
	identity Identity
}

// NewSite creates the shared page state. identity may be nil, in which
// case login and the dashboard are unavailable.
func NewSite(renderer *render.Renderer, identity Identity) *Site {
	return &Site{renderer: renderer, identity: identity}
}

// page builds the common page data for a request.
func (s *Site) page(r *http.Request, title, section string, data map[string]any) *render.PageData {
	if data == nil {
		data = map[string]any{}
	}
	return &render.PageData{
		Title:     title,
		Section:   section,
		CSRFToken: middleware.CSRFToken(r),
		Auth:      s.auth(r),
		Dashboard: s.identity != nil,
		Data:      data,
	}
}

// auth asks the backend who the visitor is. Anonymous visitors cost no
// request.
func (s *Site) auth(r *http.Request) models.AuthInfo {
	if s.identity == nil || !middleware.Authenticated(r) {
		return models.AuthInfo{}
	}
	info, err := s.identity.Me(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("resolve identity")
		return models.AuthInfo{}
	}
	return info
}

// NotFound renders the not-found page with a 404 status.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	s.renderer.Page(w, r, http.StatusNotFound, "not_found", s.page(r, "페이지를 찾을 수 없습니다", "", map[string]any{
		"Message": "요청하신 페이지가 존재하지 않습니다.",
	}))
}

// fail maps a source error onto a response: expired sessions go to the
// login page, missing resources get a 404 and anything else the error page.
func (s *Site) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backend.ErrSessionExpired), errors.Is(err, backend.ErrUnauthorized):
		middleware.RedirectToLogin(w, r)
	case errors.Is(err, models.ErrNotFound):
		s.NotFound(w, r)
	case errors.Is(err, context.Canceled):
		// The visitor went away; nobody is left to answer.
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("load page data")
		s.renderer.Page(w, r, http.StatusBadGateway, "error", s.page(r, "오류", "", map[string]any{
			"Message": msgLoadFailed,
		}))
	}
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
