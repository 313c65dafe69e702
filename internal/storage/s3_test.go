// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabled(t *testing.T) {
	c, err := New(Config{Endpoint: "http://localhost:9000"})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	key := ObjectKey(now, "My Diagram 최종.PNG", ".png")
	assert.Regexp(t, regexp.MustCompile(`^uploads/2026/03/[0-9a-f-]{36}-my-diagram-최종\.png$`), key)

	key = ObjectKey(now, "!!!.png", ".png")
	assert.Regexp(t, regexp.MustCompile(`^uploads/2026/03/[0-9a-f-]{36}\.png$`), key)
}

func TestFileURL(t *testing.T) {
	c := &Client{bucket: "media", endpoint: "https://s3.example.com"}
	assert.Equal(t, "https://s3.example.com/media/uploads/a.png", c.FileURL("uploads/a.png"))

	c.publicURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", c.FileURL("uploads/a.png"))
}

func TestUploadImage(t *testing.T) {
	var gotPath, gotType, gotACL string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotACL = r.Header.Get("X-Amz-Acl")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{Endpoint: srv.URL, AccessKey: "ak", SecretKey: "sk", Bucket: "media"})
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

	url, err := c.UploadImage(context.Background(), "shot.png", "image/png", []byte("pngdata"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/media/uploads/2026/01/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, "-shot.png"), gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "public-read", gotACL)
	assert.Contains(t, string(gotBody), "pngdata")
	assert.Equal(t, srv.URL+gotPath, url)
}
