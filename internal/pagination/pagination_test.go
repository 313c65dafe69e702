// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"techblog/internal/models"
)

func render(items []Item) []any {
	var out []any
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, "...")
		} else {
			out = append(out, it.Page)
		}
	}
	return out
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []any
	}{
		{"single page", 1, 1, nil},
		{"no pages", 1, 0, nil},
		{"all shown", 3, 7, []any{1, 2, 3, 4, 5, 6, 7}},
		{"start", 1, 20, []any{1, 2, "...", 20}},
		{"near start", 3, 20, []any{1, 2, 3, 4, "...", 20}},
		{"middle", 10, 20, []any{1, "...", 9, 10, 11, "...", 20}},
		{"near end", 18, 20, []any{1, "...", 17, 18, 19, 20}},
		{"end", 20, 20, []any{1, "...", 19, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(Numbers(tt.current, tt.total)))
		})
	}
}

func TestNumbersMarksCurrent(t *testing.T) {
	for _, it := range Numbers(4, 6) {
		assert.Equal(t, it.Page == 4, it.Current)
	}
}

func TestViewHref(t *testing.T) {
	v := NewView("/search", url.Values{"q": {"go lang"}}, 2, 5)
	assert.True(t, v.HasPrev)
	assert.True(t, v.HasNext)
	assert.Equal(t, "/search?page=3&q=go+lang", v.Href(v.Next))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 4, ParsePage("4"))
	assert.Equal(t, models.MaxPage, ParsePage("922337203685477581"))
	assert.Equal(t, 1, ParsePage("99999999999999999999999"))
}
