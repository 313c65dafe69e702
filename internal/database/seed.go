// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog/log"

	"techblog/internal/offline"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Seed loads the sample catalog into an empty database. It does nothing
// when articles already exist.
func Seed(ctx context.Context, db *sql.DB, cat offline.Catalog) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count); err != nil {
		return fmt.Errorf("seed check articles: %w", err)
	}
	if count > 0 {
		log.Info().Msg("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	if err := seedAuthors(ctx, tx, cat.Authors); err != nil {
		return err
	}

	tagIDs := make(map[string]int64)
	for _, a := range cat.Articles {
		if err := seedArticle(ctx, tx, a, tagIDs); err != nil {
			return err
		}
	}

	for _, table := range []string{"articles", "comments"} {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)", table)
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("seed reset %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	log.Info().Int("authors", len(cat.Authors)).Int("articles", len(cat.Articles)).Msg("database seeded with sample content")
	return nil
}

func seedAuthors(ctx context.Context, tx *sql.Tx, authors []offline.SampleAuthor) error {
	if len(authors) == 0 {
		return nil
	}
	q := psql.Insert("authors").Columns("id", "name", "email", "role", "activated", "grade", "room", "number")
	for _, a := range authors {
		q = q.Values(a.ID, a.Name, a.Email, a.Role, a.Activated, a.Grade, a.Room, a.Number)
	}
	if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("seed authors: %w", err)
	}
	return nil
}

func seedArticle(ctx context.Context, tx *sql.Tx, a offline.SampleArticle, tagIDs map[string]int64) error {
	id, err := strconv.ParseInt(a.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("seed article id %q: %w", a.ID, err)
	}
	created, err := parseSampleTime(a.CreatedAt)
	if err != nil {
		return fmt.Errorf("seed article %d: %w", id, err)
	}

	_, err = psql.Insert("articles").
		Columns("id", "title", "content", "category", "thumbnail", "views", "created_at").
		Values(id, a.Title, a.Content, a.Category, a.Thumbnail, a.Views, created).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("seed article %d: %w", id, err)
	}

	for pos, authorID := range a.Authors {
		_, err := psql.Insert("article_authors").
			Columns("article_id", "author_id", "position").
			Values(id, authorID, pos).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("seed article %d author %s: %w", id, authorID, err)
		}
	}

	for _, name := range a.Tags {
		tagID, ok := tagIDs[name]
		if !ok {
			err := psql.Insert("tags").Columns("name").Values(name).
				Suffix("RETURNING id").
				RunWith(tx).QueryRowContext(ctx).Scan(&tagID)
			if err != nil {
				return fmt.Errorf("seed tag %s: %w", name, err)
			}
			tagIDs[name] = tagID
		}
		_, err := psql.Insert("article_tags").Columns("article_id", "tag_id").Values(id, tagID).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("seed article %d tag %s: %w", id, name, err)
		}
	}

	return seedComments(ctx, tx, id, nil, a.Comments)
}

func seedComments(ctx context.Context, tx *sql.Tx, articleID int64, parentID *int64, list []offline.SampleComment) error {
	for _, c := range list {
		id, err := strconv.ParseInt(c.ID, 10, 64)
		if err != nil {
			return fmt.Errorf("seed comment id %q: %w", c.ID, err)
		}
		created, err := parseSampleTime(c.CreatedAt)
		if err != nil {
			return fmt.Errorf("seed comment %d: %w", id, err)
		}
		_, err = psql.Insert("comments").
			Columns("id", "article_id", "parent_id", "author", "content", "created_at").
			Values(id, articleID, parentID, c.Author, c.Content, created).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("seed comment %d: %w", id, err)
		}
		if err := seedComments(ctx, tx, articleID, &id, c.Replies); err != nil {
			return err
		}
	}
	return nil
}

func parseSampleTime(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}
