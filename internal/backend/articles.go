// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strconv"

	"techblog/internal/models"
)

// File is an uploaded file part.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ListArticles returns one page of articles, optionally filtered by
// category ("" for all).
func (c *Client) ListArticles(ctx context.Context, category models.Category, page, limit int) (models.Page[models.Article], error) {
	q := pageQuery(page, limit)
	if category != "" {
		q.Set("category", string(category))
	}
	var w wireList[wireArticle]
	if err := c.get(ctx, "/articles", q, &w); err != nil {
		return models.Page[models.Article]{}, err
	}
	return mapArticlePage(w), nil
}

// GetArticle returns one article. A missing article matches ErrNotFound.
func (c *Client) GetArticle(ctx context.Context, id string) (models.Article, error) {
	var w wireArticle
	if err := c.get(ctx, "/articles/"+url.PathEscape(id), nil, &w); err != nil {
		return models.Article{}, err
	}
	return mapArticle(w), nil
}

// PopularArticles returns the most viewed articles.
func (c *Client) PopularArticles(ctx context.Context, limit int) ([]models.Article, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var ws []wireArticle
	if err := c.get(ctx, "/articles/popular", q, &ws); err != nil {
		return nil, err
	}
	return mapArticles(ws), nil
}

// SearchArticles runs a full-text search.
func (c *Client) SearchArticles(ctx context.Context, query string, page, limit int) (models.Page[models.Article], error) {
	q := pageQuery(page, limit)
	q.Set("q", query)
	var w wireList[wireArticle]
	if err := c.get(ctx, "/articles/search", q, &w); err != nil {
		return models.Page[models.Article]{}, err
	}
	return mapArticlePage(w), nil
}

// CreateArticle publishes a draft. The draft travels as a JSON part named
// "article" next to the "thumbnail" file part.
func (c *Client) CreateArticle(ctx context.Context, draft models.ArticleDraft, thumbnail File) (models.Article, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	meta, err := json.Marshal(draft)
	if err != nil {
		return models.Article{}, fmt.Errorf("encode draft: %w", err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="article"; filename="article.json"`)
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return models.Article{}, fmt.Errorf("create article part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return models.Article{}, fmt.Errorf("write article part: %w", err)
	}

	if err := writeFilePart(mw, "thumbnail", thumbnail); err != nil {
		return models.Article{}, err
	}
	if err := mw.Close(); err != nil {
		return models.Article{}, fmt.Errorf("close multipart: %w", err)
	}

	var w wireArticle
	if err := c.do(ctx, "POST", "/articles", nil, body.Bytes(), mw.FormDataContentType(), &w); err != nil {
		return models.Article{}, err
	}
	return mapArticle(w), nil
}

// UploadImage stores an inline image and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := writeFilePart(mw, "image", File{Name: name, ContentType: contentType, Data: data}); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	var w wireUpload
	if err := c.do(ctx, "POST", "/upload/image", nil, body.Bytes(), mw.FormDataContentType(), &w); err != nil {
		return "", err
	}
	if w.URL == "" {
		return "", fmt.Errorf("upload image: empty url in response")
	}
	return w.URL, nil
}

func writeFilePart(mw *multipart.Writer, field string, f File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return fmt.Errorf("write %s part: %w", field, err)
	}
	return nil
}

// Tags returns every tag known to the backend.
func (c *Client) Tags(ctx context.Context) ([]models.Tag, error) {
	var ws []wireTag
	if err := c.get(ctx, "/tags", nil, &ws); err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(ws))
	for _, w := range ws {
		tags = append(tags, models.Tag{ID: string(w.ID), Name: w.Name})
	}
	return tags, nil
}
