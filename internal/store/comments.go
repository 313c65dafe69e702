// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"techblog/internal/comments"
	"techblog/internal/models"
)

const isoLayout = "2006-01-02T15:04:05"

// Comments returns the comment tree of an article: top level newest first,
// replies oldest first.
func (s *Local) Comments(ctx context.Context, articleID string) ([]models.Comment, error) {
	n, err := s.requireArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	rows, err := s.sb.Select("id", "parent_id", "author", "content", "created_at").
		From(tableComments).
		Where(sq.Eq{"article_id": n}).
		OrderBy("created_at ASC", "id ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var top []comments.Raw
	pos := make(map[int64]int)
	for rows.Next() {
		var (
			id      int64
			parent  sql.NullInt64
			r       comments.Raw
			created time.Time
		)
		if err := rows.Scan(&id, &parent, &r.Author, &r.Content, &created); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		r.ID = comments.ID(formatID(id))
		r.CreatedAt = created.UTC().Format(isoLayout)

		if !parent.Valid {
			pos[id] = len(top)
			top = append(top, r)
			continue
		}
		// Replies only hang off top-level comments; deeper rows are dropped.
		if i, ok := pos[parent.Int64]; ok {
			top[i].Replies = append(top[i].Replies, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	slices.Reverse(top)
	return comments.Normalize(articleID, top), nil
}

// CreateComment adds a top-level comment.
func (s *Local) CreateComment(ctx context.Context, articleID string, in models.CommentInput) (models.Comment, error) {
	n, err := s.requireArticle(ctx, articleID)
	if err != nil {
		return models.Comment{}, err
	}
	return s.insertComment(ctx, articleID, n, nil, in)
}

// CreateReply adds a reply under a top-level comment of the article.
func (s *Local) CreateReply(ctx context.Context, articleID, commentID string, in models.CommentInput) (models.Comment, error) {
	n, err := s.requireArticle(ctx, articleID)
	if err != nil {
		return models.Comment{}, err
	}
	parent, err := parseID("comment", commentID)
	if err != nil {
		return models.Comment{}, err
	}

	var one int
	err = s.sb.Select("1").From(tableComments).
		Where(sq.Eq{"id": parent, "article_id": n, "parent_id": nil}).
		QueryRowContext(ctx).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, &notFoundError{kind: "comment", id: commentID}
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("check parent comment: %w", err)
	}
	return s.insertComment(ctx, articleID, n, &parent, in)
}

func (s *Local) insertComment(ctx context.Context, articleID string, n int64, parent *int64, in models.CommentInput) (models.Comment, error) {
	var (
		id      int64
		created time.Time
	)
	err := s.sb.Insert(tableComments).
		Columns("article_id", "parent_id", "author", "content", "created_at").
		Values(n, parent, in.Author, in.Content, s.now().UTC()).
		Suffix("RETURNING id, created_at").
		QueryRowContext(ctx).Scan(&id, &created)
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	c := models.Comment{
		ID:        formatID(id),
		ArticleID: articleID,
		Author:    in.Author,
		Content:   in.Content,
		CreatedAt: comments.MinuteTimestamp(created.UTC().Format(isoLayout)),
		Replies:   []models.Comment{},
	}
	if parent != nil {
		pid := formatID(*parent)
		c.ParentID = &pid
	}
	return c, nil
}

func (s *Local) requireArticle(ctx context.Context, articleID string) (int64, error) {
	n, err := parseID("article", articleID)
	if err != nil {
		return 0, err
	}
	var one int
	err = s.sb.Select("1").From(tableArticles).Where(sq.Eq{"id": n}).
		QueryRowContext(ctx).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &notFoundError{kind: "article", id: articleID}
	}
	if err != nil {
		return 0, fmt.Errorf("check article: %w", err)
	}
	return n, nil
}
