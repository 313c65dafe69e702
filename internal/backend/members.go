// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"net/http"
	"net/url"

	"techblog/internal/models"
)

// Author returns a public author profile.
func (c *Client) Author(ctx context.Context, id string) (models.Member, error) {
	var w wireMember
	if err := c.get(ctx, "/authors/"+url.PathEscape(id), nil, &w); err != nil {
		return models.Member{}, err
	}
	return mapMember(w), nil
}

// AuthorArticles returns one page of an author's articles.
func (c *Client) AuthorArticles(ctx context.Context, id string, page, limit int) (models.Page[models.Article], error) {
	var w wireList[wireArticle]
	if err := c.get(ctx, "/authors/"+url.PathEscape(id)+"/articles", pageQuery(page, limit), &w); err != nil {
		return models.Page[models.Article]{}, err
	}
	return mapArticlePage(w), nil
}

// CurrentMember returns the signed-in member.
func (c *Client) CurrentMember(ctx context.Context) (models.Member, error) {
	var w wireMember
	if err := c.get(ctx, "/members/me", nil, &w); err != nil {
		return models.Member{}, err
	}
	return mapMember(w), nil
}

// Member returns a member by ID.
func (c *Client) Member(ctx context.Context, id string) (models.Member, error) {
	var w wireMember
	if err := c.get(ctx, "/members/"+url.PathEscape(id), nil, &w); err != nil {
		return models.Member{}, err
	}
	return mapMember(w), nil
}

// MemberArticles returns one page of a member's articles.
func (c *Client) MemberArticles(ctx context.Context, id string, page, limit int) (models.Page[models.Article], error) {
	var w wireList[wireArticle]
	if err := c.get(ctx, "/members/"+url.PathEscape(id)+"/articles", pageQuery(page, limit), &w); err != nil {
		return models.Page[models.Article]{}, err
	}
	return mapArticlePage(w), nil
}

// ActivateMember activates the signed-in member with a secret key handed
// out by an administrator.
func (c *Client) ActivateMember(ctx context.Context, secretKey string) (models.Member, error) {
	var w wireMember
	if err := c.sendJSON(ctx, http.MethodPost, "/members/activate", map[string]string{"secretKey": secretKey}, &w); err != nil {
		return models.Member{}, err
	}
	return mapMember(w), nil
}

// UpdateProfile edits the signed-in member's profile.
func (c *Client) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Member, error) {
	var w wireMember
	if err := c.sendJSON(ctx, http.MethodPatch, "/members/me", in, &w); err != nil {
		return models.Member{}, err
	}
	return mapMember(w), nil
}

// SearchMembers finds members by name, for picking co-authors.
func (c *Client) SearchMembers(ctx context.Context, query string) ([]models.Member, error) {
	q := pageQuery(1, 20)
	q.Set("q", query)
	var w wireList[wireMember]
	if err := c.get(ctx, "/members/search", q, &w); err != nil {
		return nil, err
	}
	items := w.items()
	out := make([]models.Member, 0, len(items))
	for _, m := range items {
		out = append(out, mapMember(m))
	}
	return out, nil
}
