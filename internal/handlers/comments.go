// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"techblog/internal/backend"
	"techblog/internal/middleware"
	"techblog/internal/models"
)

const msgCommentFailed = "댓글 작성에 실패했습니다. 다시 시도해주세요."

// CreateComment posts a top-level comment.
func (p *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	p.submitComment(w, r, "")
}

// CreateReply posts a reply under a top-level comment.
func (p *Public) CreateReply(w http.ResponseWriter, r *http.Request) {
	p.submitComment(w, r, chi.URLParam(r, "commentID"))
}

// submitComment validates and forwards a comment. On success the visitor
// is redirected back to the article, which refetches the whole tree. On
// failure the article is re-rendered with the message and the input kept.
func (p *Public) submitComment(w http.ResponseWriter, r *http.Request, parentID string) {
	ctx := r.Context()
	articleID := chi.URLParam(r, "id")

	in := models.CommentInput{
		Author:  strings.TrimSpace(r.FormValue("author")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}

	if err := validateComment(in); err != nil {
		msg := firstMessage(fieldMessages(err), "author", "content")
		p.commentFailed(w, r, http.StatusUnprocessableEntity, articleID, commentForm{ReplyTo: parentID, Input: in, Error: msg})
		return
	}

	var err error
	if parentID == "" {
		_, err = p.source.CreateComment(ctx, articleID, in)
	} else {
		_, err = p.source.CreateReply(ctx, articleID, parentID, in)
	}

	switch {
	case err == nil:
	case errors.Is(err, backend.ErrSessionExpired):
		middleware.RedirectToLogin(w, r)
		return
	case errors.Is(err, models.ErrNotFound):
		p.NotFound(w, r)
		return
	default:
		zerolog.Ctx(ctx).Error().Err(err).Str("article", articleID).Str("parent", parentID).Msg("create comment")
		p.commentFailed(w, r, http.StatusBadGateway, articleID, commentForm{ReplyTo: parentID, Input: in, Error: msgCommentFailed})
		return
	}

	p.pageCache.InvalidateArticle(ctx, articleID)

	anchor := "#comments"
	if parentID != "" {
		anchor = "#comment-" + parentID
	}
	http.Redirect(w, r, "/article/"+articleID+anchor, http.StatusSeeOther)
}

func (p *Public) commentFailed(w http.ResponseWriter, r *http.Request, status int, articleID string, form commentForm) {
	data, err := p.articlePage(r, articleID, form)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.renderer.Page(w, r, status, "article", data)
}
