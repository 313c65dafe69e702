// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store serves blog content from PostgreSQL. Local satisfies the
// same read and comment surface as the remote backend client, so the
// public site can run against a self-hosted database.
package store

import (
	"database/sql"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"techblog/internal/models"
)

const (
	tableArticles       = "articles"
	tableArticleAuthors = "article_authors"
	tableArticleTags    = "article_tags"
	tableAuthors        = "authors"
	tableTags           = "tags"
	tableComments       = "comments"
	tableSubscribers    = "subscribers"
)

// Local is a PostgreSQL-backed content source.
type Local struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

// NewLocal creates a Local source on an open, migrated connection pool.
func NewLocal(db *sql.DB) *Local {
	return &Local{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db),
		now: time.Now,
	}
}

// parseID converts a public identifier to a primary key. Identifiers that
// are not numeric cannot exist in the database.
func parseID(kind, id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, &notFoundError{kind: kind, id: id}
	}
	return n, nil
}

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

type notFoundError struct {
	kind string
	id   string
}

func (e *notFoundError) Error() string {
	return e.kind + " " + e.id + ": " + models.ErrNotFound.Error()
}

func (e *notFoundError) Unwrap() error {
	return models.ErrNotFound
}
