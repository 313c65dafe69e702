// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"techblog/internal/imaging"
)

// ErrUploadInProgress is returned when an editor already has an image
// upload in flight.
var ErrUploadInProgress = errors.New("image upload already in progress")

// MaxImageBytes caps the size of an inserted image.
const MaxImageBytes = 10 << 20

// Image is a file picked for insertion.
type Image struct {
	Name string
	Data []byte
}

// Uploader stores an image and returns the URL to reference it by.
type Uploader interface {
	UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// DataURLUploader inlines the image as a base64 data URL. Used when no
// upload endpoint is available.
type DataURLUploader struct{}

func (DataURLUploader) UploadImage(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImageInserter uploads images and inserts their markdown at the cursor.
// At most one upload per editor key may be in flight.
type ImageInserter struct {
	uploader Uploader

	mu   sync.Mutex
	busy map[string]struct{}
}

// NewImageInserter creates an inserter that stores images with u.
func NewImageInserter(u Uploader) *ImageInserter {
	return &ImageInserter{uploader: u, busy: make(map[string]struct{})}
}

// Busy reports whether an upload is pending for the editor. The toolbar
// image control is disabled while true.
func (ii *ImageInserter) Busy(editorKey string) bool {
	ii.mu.Lock()
	defer ii.mu.Unlock()
	_, ok := ii.busy[editorKey]
	return ok
}

func (ii *ImageInserter) acquire(editorKey string) bool {
	ii.mu.Lock()
	defer ii.mu.Unlock()
	if _, ok := ii.busy[editorKey]; ok {
		return false
	}
	ii.busy[editorKey] = struct{}{}
	return true
}

func (ii *ImageInserter) release(editorKey string) {
	ii.mu.Lock()
	delete(ii.busy, editorKey)
	ii.mu.Unlock()
}

// Insert validates and uploads img, then returns buf with the image
// markdown inserted at the cursor. On failure buf is returned unchanged
// along with the error.
func (ii *ImageInserter) Insert(ctx context.Context, editorKey string, buf Buffer, img Image, loc Locale) (Buffer, error) {
	if !ii.acquire(editorKey) {
		return buf, ErrUploadInProgress
	}
	defer ii.release(editorKey)

	if len(img.Data) == 0 {
		return buf, fmt.Errorf("read image: empty file")
	}
	if len(img.Data) > MaxImageBytes {
		return buf, fmt.Errorf("read image: %w", imaging.ErrTooLarge)
	}

	info, err := imaging.Probe(img.Data)
	if err != nil {
		return buf, fmt.Errorf("read image: %w", err)
	}

	url, err := ii.uploader.UploadImage(ctx, img.Name, info.ContentType, img.Data)
	if err != nil {
		log.Warn().Err(err).Str("editor", editorKey).Str("file", img.Name).Msg("image upload failed")
		return buf, fmt.Errorf("upload image: %w", err)
	}

	return InsertAtCursor(buf, ImageMarkdown(loc.Text("image"), url)), nil
}
