// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"bytes"
	"encoding/json"
	"strings"

	"techblog/internal/comments"
	"techblog/internal/models"
)

// The backend has shipped several shapes for the same resources: numeric
// or string IDs, page or currentPage, lists under articles or data. The
// wire types below absorb all of them; only models leave this package.

// envelope is the success wrapper around every payload.
type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
}

// flexID accepts a JSON number or string.
type flexID = comments.ID

type wireAuthor struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

// wireTag accepts {"id":1,"name":"go"} or a bare "go".
type wireTag struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

func (t *wireTag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &t.Name)
	}
	type plain wireTag
	return json.Unmarshal(b, (*plain)(t))
}

type wireArticle struct {
	ID        flexID       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Category  string       `json:"category"`
	Thumbnail *string      `json:"thumbnail"`
	Views     int          `json:"views"`
	Authors   []wireAuthor `json:"authors"`
	Tags      []wireTag    `json:"tags"`
	CreatedAt string       `json:"createdAt"`
}

type wirePagination struct {
	Page        int `json:"page"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
}

type wireList[T any] struct {
	Articles   []T            `json:"articles"`
	Data       []T            `json:"data"`
	Members    []T            `json:"members"`
	Pagination wirePagination `json:"pagination"`
}

func (l wireList[T]) items() []T {
	switch {
	case l.Articles != nil:
		return l.Articles
	case l.Data != nil:
		return l.Data
	default:
		return l.Members
	}
}

type wireMember struct {
	ID           flexID `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	Role         string `json:"role"`
	Activated    bool   `json:"activated"`
	Grade        int    `json:"grade"`
	Room         int    `json:"room"`
	Number       int    `json:"number"`
}

type wireAuthInfo struct {
	Authenticated bool    `json:"authenticated"`
	MemberID      flexID  `json:"memberId"`
	Name          *string `json:"name"`
	Role          *string `json:"role"`
	Activated     bool    `json:"activated"`
	LoginURL      string  `json:"loginUrl"`
}

type wireLoginInfo struct {
	LoginURL    string `json:"loginUrl"`
	Description string `json:"description"`
}

type wireTokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type wireUpload struct {
	URL string `json:"url"`
}

func mapArticle(w wireArticle) models.Article {
	a := models.Article{
		ID:        string(w.ID),
		Title:     w.Title,
		Content:   w.Content,
		Category:  models.Category(strings.ToUpper(w.Category)),
		Views:     w.Views,
		Authors:   make([]models.Author, 0, len(w.Authors)),
		Tags:      make([]string, 0, len(w.Tags)),
		CreatedAt: datePart(w.CreatedAt),
	}
	if w.Thumbnail != nil {
		a.Thumbnail = *w.Thumbnail
	}
	for _, au := range w.Authors {
		a.Authors = append(a.Authors, models.Author{ID: string(au.ID), Name: au.Name})
	}
	for _, t := range w.Tags {
		a.Tags = append(a.Tags, t.Name)
	}
	return a
}

func mapArticles(ws []wireArticle) []models.Article {
	out := make([]models.Article, 0, len(ws))
	for _, w := range ws {
		out = append(out, mapArticle(w))
	}
	return out
}

func mapPagination(w wirePagination, count int) models.Pagination {
	p := models.Pagination{
		Page:       w.Page,
		Limit:      w.Limit,
		TotalPages: w.TotalPages,
		TotalCount: w.TotalCount,
	}
	if p.Page == 0 {
		p.Page = w.CurrentPage
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.TotalCount == 0 && p.TotalPages <= 1 {
		p.TotalCount = count
	}
	return p
}

func mapArticlePage(w wireList[wireArticle]) models.Page[models.Article] {
	items := w.items()
	return models.Page[models.Article]{
		Items:      mapArticles(items),
		Pagination: mapPagination(w.Pagination, len(items)),
	}
}

func mapMember(w wireMember) models.Member {
	return models.Member{
		ID:           string(w.ID),
		Name:         w.Name,
		Email:        w.Email,
		ProfileImage: w.ProfileImage,
		Role:         models.Role(strings.ToUpper(w.Role)),
		Activated:    w.Activated,
		Grade:        w.Grade,
		Room:         w.Room,
		Number:       w.Number,
	}
}

func mapAuthInfo(w wireAuthInfo) models.AuthInfo {
	info := models.AuthInfo{
		Authenticated: w.Authenticated,
		MemberID:      string(w.MemberID),
		Activated:     w.Activated,
		LoginURL:      w.LoginURL,
	}
	if w.Name != nil {
		info.Name = *w.Name
	}
	if w.Role != nil {
		info.Role = models.Role(strings.ToUpper(*w.Role))
	}
	return info
}

func mapComment(articleID string, raw comments.Raw, parentID string) models.Comment {
	c := comments.Normalize(articleID, []comments.Raw{raw})[0]
	if parentID != "" {
		pid := parentID
		c.ParentID = &pid
	}
	return c
}

// datePart keeps the YYYY-MM-DD prefix of an ISO timestamp.
func datePart(iso string) string {
	if i := strings.IndexByte(iso, 'T'); i >= 0 {
		return iso[:i]
	}
	return iso
}
