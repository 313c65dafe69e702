// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the canonical data structures shared by every
// content source, the HTTP handlers and the CLI. Backend wire shapes are
// mapped into these types at the network boundary and never leak past it.
package models

import "strings"

// Category is the fixed article taxonomy used by the backend.
type Category string

const (
	CategoryDevelopment Category = "DEVELOPMENT"
	CategoryDesign      Category = "DESIGN"
	CategoryProduct     Category = "PRODUCT"
	CategoryInfra       Category = "INFRA"
)

// Categories lists the categories in navigation order.
var Categories = []Category{
	CategoryDevelopment,
	CategoryInfra,
	CategoryDesign,
	CategoryProduct,
}

var categoryLabels = map[Category]string{
	CategoryDevelopment: "개발",
	CategoryInfra:       "인프라",
	CategoryDesign:      "디자인",
	CategoryProduct:     "프로덕트",
}

// Label returns the display label for the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Slug returns the URL path segment for the category ("development").
func (c Category) Slug() string {
	return strings.ToLower(string(c))
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// CategoryFromSlug resolves a URL path segment back to a category.
func CategoryFromSlug(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Author is a byline entry on an article.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is a published blog post. Content is markdown. CreatedAt is the
// date part only (YYYY-MM-DD).
type Article struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  Category `json:"category"`
	Authors   []Author `json:"authors"`
	Tags      []string `json:"tags"`
	Thumbnail string   `json:"thumbnail"`
	Views     int      `json:"views"`
	CreatedAt string   `json:"createdAt"`
}

// AuthorNames joins the byline for display.
func (a *Article) AuthorNames() string {
	names := make([]string, 0, len(a.Authors))
	for _, au := range a.Authors {
		names = append(names, au.Name)
	}
	return strings.Join(names, ", ")
}

// HasAuthor reports whether the member with the given ID is on the byline.
func (a *Article) HasAuthor(id string) bool {
	for _, au := range a.Authors {
		if au.ID == id {
			return true
		}
	}
	return false
}

// Tag is a backend tag entry.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArticleDraft is the payload of a create-article submission. The
// thumbnail travels separately as a file part.
type ArticleDraft struct {
	Title     string   `json:"title"`
	AuthorIDs []string `json:"authorIds"`
	Category  Category `json:"category"`
	Tags      []string `json:"tags,omitempty"`
	Content   string   `json:"content"`
}

// ParseTags splits a comma-separated tag field, trimming blanks.
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
