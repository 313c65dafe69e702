// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"net/http"
	"net/url"

	"techblog/internal/comments"
	"techblog/internal/models"
)

func commentsPath(articleID string) string {
	return "/articles/" + url.PathEscape(articleID) + "/comments"
}

// Comments returns the comment tree of an article.
func (c *Client) Comments(ctx context.Context, articleID string) ([]models.Comment, error) {
	var raw []comments.Raw
	if err := c.get(ctx, commentsPath(articleID), nil, &raw); err != nil {
		return nil, err
	}
	return comments.Normalize(articleID, raw), nil
}

// CreateComment posts a top-level comment.
func (c *Client) CreateComment(ctx context.Context, articleID string, in models.CommentInput) (models.Comment, error) {
	var raw comments.Raw
	if err := c.sendJSON(ctx, http.MethodPost, commentsPath(articleID), in, &raw); err != nil {
		return models.Comment{}, err
	}
	return mapComment(articleID, raw, ""), nil
}

// CreateReply posts a reply under commentID.
func (c *Client) CreateReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (models.Comment, error) {
	path := commentsPath(articleID) + "/" + url.PathEscape(commentID) + "/replies"
	var raw comments.Raw
	if err := c.sendJSON(ctx, http.MethodPost, path, in, &raw); err != nil {
		return models.Comment{}, err
	}
	return mapComment(articleID, raw, commentID), nil
}
