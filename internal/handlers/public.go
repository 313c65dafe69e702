// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"techblog/internal/cache"
	"techblog/internal/middleware"
	"techblog/internal/models"
	"techblog/internal/pagination"
	"techblog/internal/render"
	"techblog/internal/search"
)

// Page sizes of the public listings.
const (
	listingPageSize = 20
	authorPageSize  = 9
	searchPageSize  = 10
	popularLimit    = 5
)

// csrfPlaceholder stands in for the visitor's CSRF token inside cached
// pages and is swapped for the real token on every hit.
const csrfPlaceholder = "__csrf_token__"

// Public groups handlers for the public-facing site. Anonymous page views
// go through the L2 Valkey page cache before hitting the content source.
type Public struct {
	*Site
	source    Source
	pageCache *cache.PageCache
	debounce  *search.Debouncer
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(site *Site, source Source, pageCache *cache.PageCache, debounce *search.Debouncer) *Public {
	if debounce == nil {
		debounce = search.NewDebouncer(search.QuietPeriod)
	}
	return &Public{Site: site, source: source, pageCache: pageCache, debounce: debounce}
}

// Home renders the listing of every category.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.listing(w, r, "")
}

// Category renders the listing of one category. Unknown slugs are 404s.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	cat, ok := models.CategoryFromSlug(chi.URLParam(r, "category"))
	if !ok {
		p.NotFound(w, r)
		return
	}
	p.listing(w, r, cat)
}

func (p *Public) listing(w http.ResponseWriter, r *http.Request, cat models.Category) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))
	key := cache.ListingKey(cat.Slug(), page)
	if p.serveCached(w, r, key) {
		return
	}

	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	var (
		list    models.Page[models.Article]
		listErr error
		popular []models.Article
		tags    []models.Tag
	)

	// The sidebar is best effort: its failures never fail the page.
	var g errgroup.Group
	g.Go(func() error {
		list, listErr = p.source.ListArticles(ctx, cat, page, listingPageSize)
		return nil
	})
	g.Go(func() error {
		var err error
		if popular, err = p.source.PopularArticles(ctx, popularLimit); err != nil {
			log.Warn().Err(err).Msg("load popular articles")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tags, err = p.source.Tags(ctx); err != nil {
			log.Warn().Err(err).Msg("load tags")
		}
		return nil
	})
	_ = g.Wait()

	if listErr != nil {
		log.Error().Err(listErr).Str("category", string(cat)).Msg("list articles")
	}

	basePath := "/"
	title := ""
	if cat != "" {
		basePath += cat.Slug()
		title = cat.Label()
	}

	data := p.page(r, title, cat.Slug(), map[string]any{
		"Articles": list.Items,
		"Pager":    pagination.NewView(basePath, nil, list.Pagination.Page, list.Pagination.TotalPages),
		"Error":    listErr != nil,
		"Popular":  popular,
		"Tags":     tags,
	})

	if listErr != nil {
		key = ""
	}
	p.renderCached(w, r, key, "home", data)
}

// Article renders one article with its comment tree.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if p.serveCached(w, r, cache.ArticleKey(id)) {
		return
	}

	data, err := p.articlePage(r, id, commentForm{})
	if err != nil {
		p.fail(w, r, err)
		return
	}
	key := cache.ArticleKey(id)
	if data.Data["CommentsUnavailable"] == true {
		key = ""
	}
	p.renderCached(w, r, key, "article", data)
}

// commentForm carries the values of a rejected comment back into the page.
type commentForm struct {
	ReplyTo string
	Input   models.CommentInput
	Error   string
}

// articlePage loads the article and its comments concurrently. A comment
// failure degrades to a message; an article failure is returned.
func (p *Public) articlePage(r *http.Request, id string, form commentForm) (*render.PageData, error) {
	var (
		article     models.Article
		list        []models.Comment
		commentsErr error
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		article, err = p.source.GetArticle(ctx, id)
		return err
	})
	g.Go(func() error {
		list, commentsErr = p.source.Comments(ctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if commentsErr != nil {
		zerolog.Ctx(r.Context()).Warn().Err(commentsErr).Str("article", id).Msg("load comments")
	}

	data := p.page(r, article.Title, article.Category.Slug(), nil)
	if p.cacheable(r) && form.Error == "" {
		data.CSRFToken = csrfPlaceholder
	}

	newComment := map[string]any{
		"Action":    "/article/" + id + "/comments",
		"CSRFToken": data.CSRFToken,
		"Author":    "",
		"Content":   "",
		"Reply":     false,
	}
	if form.ReplyTo == "" {
		newComment["Author"] = form.Input.Author
		newComment["Content"] = form.Input.Content
	}

	data.Data = map[string]any{
		"Article":             article,
		"Comments":            list,
		"CommentsUnavailable": commentsErr != nil,
		"CommentError":        form.Error,
		"NewComment":          newComment,
		"ReplyTo":             form.ReplyTo,
	}
	return data, nil
}

// Author renders an author's profile and their articles.
func (p *Public) Author(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	var (
		member models.Member
		list   models.Page[models.Article]
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		member, err = p.source.Author(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = p.source.AuthorArticles(ctx, id, page, authorPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		p.fail(w, r, err)
		return
	}

	p.renderer.Page(w, r, http.StatusOK, "author", p.page(r, member.Name, "", map[string]any{
		"Member":   member,
		"Articles": list.Items,
		"Pager":    pagination.NewView("/author/"+id, nil, list.Pagination.Page, list.Pagination.TotalPages),
	}))
}

// cacheable reports whether the response may be shared through the page
// cache: anonymous full-page views only.
func (p *Public) cacheable(r *http.Request) bool {
	return p.pageCache != nil && !middleware.Authenticated(r) && !render.IsFragment(r)
}

// serveCached writes a cached page, if there is one, with the visitor's
// own CSRF token swapped in.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if !p.cacheable(r) {
		return false
	}
	html, ok := p.pageCache.Get(r.Context(), key)
	if !ok {
		return false
	}
	writeHTML(w, http.StatusOK, withToken(html, middleware.CSRFToken(r)))
	return true
}

// renderCached renders a page and, when the request is cacheable and key
// is set, stores it in the page cache. Degraded pages pass an empty key.
func (p *Public) renderCached(w http.ResponseWriter, r *http.Request, key, name string, data *render.PageData) {
	if !p.cacheable(r) {
		p.renderer.Page(w, r, http.StatusOK, name, data)
		return
	}
	data.CSRFToken = csrfPlaceholder
	html, err := p.renderer.Bytes(name, data)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render template")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	if key != "" {
		p.pageCache.Set(r.Context(), key, html)
	}
	writeHTML(w, http.StatusOK, withToken(html, middleware.CSRFToken(r)))
}

func withToken(html []byte, token string) []byte {
	return bytes.ReplaceAll(html, []byte(csrfPlaceholder), []byte(token))
}

// searchValues returns the query parameters the search pager keeps.
func searchValues(q string) url.Values {
	return url.Values{"q": {q}}
}
