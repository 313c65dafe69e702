// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination builds the page-number strip shown under listings.
package pagination

import (
	"net/url"
	"strconv"

	"techblog/internal/models"
)

// maxVisible is the number of page links shown besides first and last
// before ellipses kick in.
const maxVisible = 5

// Item is one entry of the strip: a page link or an ellipsis.
type Item struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Numbers returns the strip for the given page. It is empty when there is
// at most one page.
func Numbers(current, total int) []Item {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	page := func(n int) Item { return Item{Page: n, Current: n == current} }

	var items []Item
	if total <= maxVisible+2 {
		for i := 1; i <= total; i++ {
			items = append(items, page(i))
		}
		return items
	}

	items = append(items, page(1))
	if current > 3 {
		items = append(items, Item{Ellipsis: true})
	}
	for i := max(2, current-1); i <= min(total-1, current+1); i++ {
		items = append(items, page(i))
	}
	if current < total-2 {
		items = append(items, Item{Ellipsis: true})
	}
	return append(items, page(total))
}

// View is what listing templates render.
type View struct {
	Items    []Item
	Prev     int
	Next     int
	HasPrev  bool
	HasNext  bool
	BasePath string
	Query    url.Values
}

// NewView builds the strip plus prev/next links. query holds the extra
// parameters (search terms) each link keeps.
func NewView(basePath string, query url.Values, current, total int) View {
	return View{
		Items:    Numbers(current, total),
		Prev:     current - 1,
		Next:     current + 1,
		HasPrev:  current > 1,
		HasNext:  current < total,
		BasePath: basePath,
		Query:    query,
	}
}

// Href returns the link for page n.
func (v View) Href(n int) string {
	q := url.Values{}
	for k, vs := range v.Query {
		q[k] = vs
	}
	q.Set("page", strconv.Itoa(n))
	return v.BasePath + "?" + q.Encode()
}

// ParsePage reads a 1-based page number, defaulting to 1 and capped at
// models.MaxPage.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return min(n, models.MaxPage)
}
