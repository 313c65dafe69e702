// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package offline

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"techblog/internal/comments"
	"techblog/internal/models"
)

// Source is an in-memory content source. Comment creation inserts into
// the local tree with comments.AddTopLevel and comments.AddReply.
type Source struct {
	mu          sync.RWMutex
	articles    []models.Article // newest first
	authors     map[string]models.Member
	comments    map[string][]models.Comment
	subscribers map[string]models.SubscribeInput
	nextComment int
	now         func() time.Time
}

// New builds a source from a catalog.
func New(cat Catalog) *Source {
	s := &Source{
		authors:     make(map[string]models.Member),
		comments:    make(map[string][]models.Comment),
		subscribers: make(map[string]models.SubscribeInput),
		now:         time.Now,
	}

	for _, a := range cat.Authors {
		s.authors[a.ID] = a.Member()
	}

	for _, sa := range cat.Articles {
		a := models.Article{
			ID:        sa.ID,
			Title:     sa.Title,
			Content:   sa.Content,
			Category:  models.Category(sa.Category),
			Tags:      slices.Clone(sa.Tags),
			Thumbnail: sa.Thumbnail,
			Views:     sa.Views,
			CreatedAt: datePart(sa.CreatedAt),
		}
		for _, id := range sa.Authors {
			if m, ok := s.authors[id]; ok {
				a.Authors = append(a.Authors, m.AsAuthor())
			}
		}
		s.articles = append(s.articles, a)

		list := comments.Normalize(sa.ID, toRaw(sa.Comments))
		slices.SortStableFunc(list, func(x, y models.Comment) int { return cmp.Compare(y.CreatedAt, x.CreatedAt) })
		for i := range list {
			slices.SortStableFunc(list[i].Replies, func(x, y models.Comment) int { return cmp.Compare(x.CreatedAt, y.CreatedAt) })
		}
		s.comments[sa.ID] = list

		comments.Walk(list, func(c *models.Comment, _ int) bool {
			if n, err := strconv.Atoi(c.ID); err == nil && n > s.nextComment {
				s.nextComment = n
			}
			return true
		})
	}

	slices.SortStableFunc(s.articles, func(x, y models.Article) int { return cmp.Compare(y.CreatedAt, x.CreatedAt) })
	return s
}

// NewSample builds a source from the embedded sample catalog.
func NewSample() (*Source, error) {
	cat, err := LoadSample()
	if err != nil {
		return nil, err
	}
	return New(cat), nil
}

func toRaw(in []SampleComment) []comments.Raw {
	out := make([]comments.Raw, 0, len(in))
	for _, c := range in {
		out = append(out, comments.Raw{
			ID:        comments.ID(c.ID),
			Author:    c.Author,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Replies:   toRaw(c.Replies),
		})
	}
	return out
}

func datePart(iso string) string {
	if i := strings.IndexByte(iso, 'T'); i >= 0 {
		return iso[:i]
	}
	return iso
}

func (s *Source) filter(keep func(*models.Article) bool) []models.Article {
	var out []models.Article
	for i := range s.articles {
		if keep(&s.articles[i]) {
			out = append(out, s.articles[i])
		}
	}
	return out
}

// ListArticles returns one page of articles, newest first.
func (s *Source) ListArticles(_ context.Context, category models.Category, page, limit int) (models.Page[models.Article], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.filter(func(a *models.Article) bool { return category == "" || a.Category == category })
	return models.Slice(items, page, limit), nil
}

// GetArticle returns an article and counts the view.
func (s *Source) GetArticle(_ context.Context, id string) (models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles[i].Views++
			return s.articles[i], nil
		}
	}
	return models.Article{}, fmt.Errorf("article %s: %w", id, models.ErrNotFound)
}

// PopularArticles returns the most viewed articles.
func (s *Source) PopularArticles(_ context.Context, limit int) ([]models.Article, error) {
	s.mu.RLock()
	items := slices.Clone(s.articles)
	s.mu.RUnlock()

	slices.SortStableFunc(items, func(x, y models.Article) int { return cmp.Compare(y.Views, x.Views) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// SearchArticles matches the query against titles, bodies and tags,
// case-insensitively.
func (s *Source) SearchArticles(_ context.Context, query string, page, limit int) (models.Page[models.Article], error) {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.filter(func(a *models.Article) bool {
		if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Content), q) {
			return true
		}
		return slices.ContainsFunc(a.Tags, func(t string) bool { return strings.Contains(strings.ToLower(t), q) })
	})
	return models.Slice(items, page, limit), nil
}

// Comments returns the tree of an article: top level newest first,
// replies oldest first.
func (s *Source) Comments(_ context.Context, articleID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasArticle(articleID) {
		return nil, fmt.Errorf("article %s: %w", articleID, models.ErrNotFound)
	}
	return s.comments[articleID], nil
}

// CreateComment adds a top-level comment.
func (s *Source) CreateComment(_ context.Context, articleID string, in models.CommentInput) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasArticle(articleID) {
		return models.Comment{}, fmt.Errorf("article %s: %w", articleID, models.ErrNotFound)
	}
	c := s.newComment(articleID, in)
	s.comments[articleID] = comments.AddTopLevel(s.comments[articleID], c)
	return c, nil
}

// CreateReply adds a reply under a top-level comment.
func (s *Source) CreateReply(_ context.Context, articleID, commentID string, in models.CommentInput) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.comments[articleID]
	c := s.newComment(articleID, in)
	updated := comments.AddReply(list, commentID, c)
	if comments.CountAll(updated) == comments.CountAll(list) {
		return models.Comment{}, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	s.comments[articleID] = updated

	pid := commentID
	c.ParentID = &pid
	return c, nil
}

func (s *Source) newComment(articleID string, in models.CommentInput) models.Comment {
	s.nextComment++
	return models.Comment{
		ID:        strconv.Itoa(s.nextComment),
		ArticleID: articleID,
		Author:    in.Author,
		Content:   in.Content,
		CreatedAt: s.now().Format("2006-01-02 15:04"),
		Replies:   []models.Comment{},
	}
}

func (s *Source) hasArticle(id string) bool {
	return slices.ContainsFunc(s.articles, func(a models.Article) bool { return a.ID == id })
}

// Author returns an author profile.
func (s *Source) Author(_ context.Context, id string) (models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.authors[id]
	if !ok {
		return models.Member{}, fmt.Errorf("author %s: %w", id, models.ErrNotFound)
	}
	return m, nil
}

// AuthorArticles returns one page of an author's articles.
func (s *Source) AuthorArticles(_ context.Context, id string, page, limit int) (models.Page[models.Article], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.filter(func(a *models.Article) bool { return a.HasAuthor(id) })
	return models.Slice(items, page, limit), nil
}

// Tags returns the distinct tags in first-seen order.
func (s *Source) Tags(_ context.Context) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var tags []models.Tag
	for _, a := range s.articles {
		for _, t := range a.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, models.Tag{ID: strconv.Itoa(len(tags) + 1), Name: t})
			}
		}
	}
	return tags, nil
}

// Subscribe records an email. Duplicates return ErrAlreadySubscribed.
func (s *Source) Subscribe(_ context.Context, in models.SubscribeInput) error {
	key := strings.ToLower(strings.TrimSpace(in.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscribers[key]; ok {
		return models.ErrAlreadySubscribed
	}
	s.subscribers[key] = in
	return nil
}
