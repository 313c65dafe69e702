// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"techblog/internal/middleware"
	"techblog/internal/models"
	"techblog/internal/pagination"
	"techblog/internal/render"
	"techblog/internal/search"
)

// Search renders the full search page. Queries shorter than the minimum
// length show the hint and never reach the source.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := search.Prepare(r.URL.Query().Get("q"))
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	data := map[string]any{"Query": q}
	if !q.TooShort {
		res, err := p.source.SearchArticles(r.Context(), q.Text, page, searchPageSize)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("q", q.Text).Msg("search articles")
			data["Error"] = true
		}
		data["Articles"] = res.Items
		data["Pager"] = pagination.NewView("/search", searchValues(q.Text), res.Pagination.Page, res.Pagination.TotalPages)
	}

	p.renderer.Page(w, r, http.StatusOK, "search", p.page(r, "검색", "search", data))
}

// LiveSearch answers the search-as-you-type box with a results fragment.
// Keystroke bursts from one browser collapse into a single source request;
// superseded requests get 204 No Content. A too-short query cancels the
// pending one and answers with the hint.
func (p *Public) LiveSearch(w http.ResponseWriter, r *http.Request) {
	q := search.Prepare(r.URL.Query().Get("q"))
	data := map[string]any{"Query": q}

	if q.TooShort {
		p.debounce.Cancel(liveSearchKey(r))
	} else {
		var res models.Page[models.Article]
		err := p.debounce.Do(r.Context(), liveSearchKey(r), func(ctx context.Context) error {
			var err error
			res, err = p.source.SearchArticles(ctx, q.Text, 1, searchPageSize)
			return err
		})
		switch {
		case errors.Is(err, search.ErrSuperseded):
			w.WriteHeader(http.StatusNoContent)
			return
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return
		case err != nil:
			zerolog.Ctx(r.Context()).Error().Err(err).Str("q", q.Text).Msg("live search")
			data["Error"] = true
		}
		data["Articles"] = res.Items
	}

	// The fragment has no navigation, so the identity lookup is skipped.
	p.renderer.Page(w, r, http.StatusOK, "search_live", &render.PageData{Title: "검색", Data: data})
}

// liveSearchKey identifies the browser. The CSRF cookie is per browser and
// always present after the first page view.
func liveSearchKey(r *http.Request) string {
	if token := middleware.CSRFToken(r); token != "" {
		return token
	}
	return r.RemoteAddr
}
