// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// MaxPage is the highest page number a listing serves. Larger requests are
// clamped so offsets stay far from integer overflow.
const MaxPage = 10000

// Pagination describes one page of a paginated listing. Page is 1-based.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	TotalCount int `json:"totalCount"`
}

// HasNext reports whether another page follows.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// Page is a paginated listing.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes page counts for an in-process listing.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	pages := (total + limit - 1) / limit
	return Pagination{Page: page, Limit: limit, TotalPages: pages, TotalCount: total}
}

// Slice returns the window of items that page/limit selects.
func Slice[T any](items []T, page, limit int) Page[T] {
	p := NewPagination(page, limit, len(items))
	start := len(items)
	if p.Page-1 <= len(items)/p.Limit {
		start = min((p.Page-1)*p.Limit, len(items))
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{Items: items[start:end], Pagination: p}
}
