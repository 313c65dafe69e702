// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"techblog/internal/models"
)

func articleColumns() []string {
	return []string{"a.id", "a.title", "a.content", "a.category", "a.thumbnail", "a.views", "a.created_at"}
}

func scanArticle(row sq.RowScanner) (models.Article, error) {
	var (
		a       models.Article
		id      int64
		created time.Time
	)
	if err := row.Scan(&id, &a.Title, &a.Content, &a.Category, &a.Thumbnail, &a.Views, &created); err != nil {
		return models.Article{}, err
	}
	a.ID = formatID(id)
	a.CreatedAt = created.UTC().Format("2006-01-02")
	a.Authors = []models.Author{}
	a.Tags = []string{}
	return a, nil
}

// ListArticles returns one page of articles, newest first. An empty
// category lists every article.
func (s *Local) ListArticles(ctx context.Context, category models.Category, page, limit int) (models.Page[models.Article], error) {
	var where sq.Sqlizer = sq.Expr("TRUE")
	if category != "" {
		where = sq.Eq{"a.category": string(category)}
	}
	return s.pageArticles(ctx, "list articles", where, page, limit)
}

// GetArticle returns an article and counts the view.
func (s *Local) GetArticle(ctx context.Context, id string) (models.Article, error) {
	n, err := parseID("article", id)
	if err != nil {
		return models.Article{}, err
	}

	row := s.sb.Update(tableArticles + " a").
		Set("views", sq.Expr("a.views + 1")).
		Where(sq.Eq{"a.id": n}).
		Suffix("RETURNING " + strings.Join(articleColumns(), ", ")).
		QueryRowContext(ctx)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, &notFoundError{kind: "article", id: id}
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("get article: %w", err)
	}

	list := []models.Article{a}
	if err := s.hydrate(ctx, list); err != nil {
		return models.Article{}, err
	}
	return list[0], nil
}

// PopularArticles returns the most viewed articles.
func (s *Local) PopularArticles(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 {
		limit = 5
	}
	q := s.sb.Select(articleColumns()...).
		From(tableArticles + " a").
		OrderBy("a.views DESC", "a.created_at DESC").
		Limit(uint64(limit))

	items, err := s.queryArticles(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("popular articles: %w", err)
	}
	return items, nil
}

// SearchArticles matches the query against titles, bodies and tag names,
// case-insensitively.
func (s *Local) SearchArticles(ctx context.Context, query string, page, limit int) (models.Page[models.Article], error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	where := sq.Or{
		sq.ILike{"a.title": pattern},
		sq.ILike{"a.content": pattern},
		sq.Expr(`EXISTS (SELECT 1 FROM `+tableArticleTags+` at JOIN `+tableTags+` t ON t.id = at.tag_id
			WHERE at.article_id = a.id AND t.name ILIKE ?)`, pattern),
	}
	return s.pageArticles(ctx, "search articles", where, page, limit)
}

// AuthorArticles returns one page of the articles an author is credited on.
func (s *Local) AuthorArticles(ctx context.Context, id string, page, limit int) (models.Page[models.Article], error) {
	where := sq.Expr(`EXISTS (SELECT 1 FROM `+tableArticleAuthors+` aa
		WHERE aa.article_id = a.id AND aa.author_id = ?)`, id)
	return s.pageArticles(ctx, "author articles", where, page, limit)
}

func (s *Local) pageArticles(ctx context.Context, op string, where sq.Sqlizer, page, limit int) (models.Page[models.Article], error) {
	var total int
	err := s.sb.Select("COUNT(*)").From(tableArticles + " a").Where(where).
		QueryRowContext(ctx).Scan(&total)
	if err != nil {
		return models.Page[models.Article]{}, fmt.Errorf("%s count: %w", op, err)
	}

	p := models.NewPagination(page, limit, total)
	q := s.sb.Select(articleColumns()...).
		From(tableArticles+" a").
		Where(where).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(p.Limit)).
		Offset(uint64((p.Page - 1) * p.Limit))

	items, err := s.queryArticles(ctx, q)
	if err != nil {
		return models.Page[models.Article]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.Page[models.Article]{Items: items, Pagination: p}, nil
}

func (s *Local) queryArticles(ctx context.Context, q sq.SelectBuilder) ([]models.Article, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.hydrate(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// hydrate fills bylines and tags for a batch of articles with one query
// each.
func (s *Local) hydrate(ctx context.Context, items []models.Article) error {
	if len(items) == 0 {
		return nil
	}
	index := make(map[int64]int, len(items))
	ids := make([]int64, 0, len(items))
	for i, a := range items {
		n, err := parseID("article", a.ID)
		if err != nil {
			return err
		}
		index[n] = i
		ids = append(ids, n)
	}

	rows, err := s.sb.Select("aa.article_id", "au.id", "au.name").
		From(tableArticleAuthors + " aa").
		Join(tableAuthors + " au ON au.id = aa.author_id").
		Where(sq.Eq{"aa.article_id": ids}).
		OrderBy("aa.article_id", "aa.position").
		QueryContext(ctx)
	if err != nil {
		return fmt.Errorf("load article authors: %w", err)
	}
	for rows.Next() {
		var (
			articleID int64
			au        models.Author
		)
		if err := rows.Scan(&articleID, &au.ID, &au.Name); err != nil {
			rows.Close()
			return fmt.Errorf("scan article author: %w", err)
		}
		if i, ok := index[articleID]; ok {
			items[i].Authors = append(items[i].Authors, au)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("load article authors: %w", err)
	}
	rows.Close()

	rows, err = s.sb.Select("at.article_id", "t.name").
		From(tableArticleTags + " at").
		Join(tableTags + " t ON t.id = at.tag_id").
		Where(sq.Eq{"at.article_id": ids}).
		OrderBy("at.article_id", "t.id").
		QueryContext(ctx)
	if err != nil {
		return fmt.Errorf("load article tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			articleID int64
			name      string
		)
		if err := rows.Scan(&articleID, &name); err != nil {
			return fmt.Errorf("scan article tag: %w", err)
		}
		if i, ok := index[articleID]; ok {
			items[i].Tags = append(items[i].Tags, name)
		}
	}
	return rows.Err()
}

// Tags returns every tag in creation order.
func (s *Local) Tags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.sb.Select("id", "name").From(tableTags).OrderBy("id").QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var (
			id  int64
			tag models.Tag
		)
		if err := rows.Scan(&id, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tag.ID = formatID(id)
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
