// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

type fakeUploader struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	started chan struct{}
	err     error
}

func (f *fakeUploader) UploadImage(ctx context.Context, name, contentType string, _ []byte) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example/" + name + "?type=" + contentType, nil
}

func TestImageInserterInsertsAtCursor(t *testing.T) {
	ii := NewImageInserter(&fakeUploader{})
	buf := Buffer{Text: "ab", Selection: Selection{Start: 1, End: 2}}

	got, err := ii.Insert(context.Background(), "draft", buf, Image{Name: "a.png", Data: pngBytes(t)}, LocaleKorean)
	require.NoError(t, err)

	want := "a![이미지](https://cdn.example/a.png?type=image/png)\nb"
	assert.Equal(t, want, got.Text)
	assert.True(t, got.Selection.Empty())
	assert.False(t, ii.Busy("draft"))
}

func TestImageInserterRejectsConcurrentUpload(t *testing.T) {
	up := &fakeUploader{release: make(chan struct{}), started: make(chan struct{})}
	ii := NewImageInserter(up)
	img := Image{Name: "a.png", Data: pngBytes(t)}

	done := make(chan error, 1)
	go func() {
		_, err := ii.Insert(context.Background(), "draft", Buffer{}, img, LocaleKorean)
		done <- err
	}()
	<-up.started

	assert.True(t, ii.Busy("draft"))
	_, err := ii.Insert(context.Background(), "draft", Buffer{}, img, LocaleKorean)
	assert.ErrorIs(t, err, ErrUploadInProgress)

	close(up.release)
	require.NoError(t, <-done)
	assert.False(t, ii.Busy("draft"))
	assert.Equal(t, 1, up.calls)
}

func TestImageInserterKeysAreIndependent(t *testing.T) {
	up := &fakeUploader{release: make(chan struct{}), started: make(chan struct{})}
	ii := NewImageInserter(up)
	img := Image{Name: "a.png", Data: pngBytes(t)}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ii.Insert(context.Background(), "one", Buffer{}, img, LocaleKorean)
	}()
	<-up.started
	assert.True(t, ii.Busy("one"))
	assert.False(t, ii.Busy("two"))
	close(up.release)
	<-done
}

func TestImageInserterFailureLeavesBuffer(t *testing.T) {
	ii := NewImageInserter(&fakeUploader{err: errors.New("boom")})
	buf := Buffer{Text: "keep", Selection: Selection{Start: 2, End: 2}}

	got, err := ii.Insert(context.Background(), "draft", buf, Image{Name: "a.png", Data: pngBytes(t)}, LocaleKorean)
	assert.Error(t, err)
	assert.Equal(t, buf, got)
	assert.False(t, ii.Busy("draft"))
}

func TestImageInserterRejectsNonImage(t *testing.T) {
	up := &fakeUploader{}
	ii := NewImageInserter(up)

	_, err := ii.Insert(context.Background(), "draft", Buffer{}, Image{Name: "a.txt", Data: []byte("hello")}, LocaleKorean)
	assert.Error(t, err)
	assert.Zero(t, up.calls)

	_, err = ii.Insert(context.Background(), "draft", Buffer{}, Image{Name: "empty.png"}, LocaleKorean)
	assert.Error(t, err)
}

func TestDataURLUploader(t *testing.T) {
	url, err := DataURLUploader{}.UploadImage(context.Background(), "x.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.Equal(t, "data:image/png;base64,AQID", url)
}
