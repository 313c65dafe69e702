// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects and downsizes uploaded images. Probe reads only
// the header, so non-images and oversized dimensions are rejected before
// anything is uploaded or base64-encoded.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotImage is returned for data that no registered decoder accepts.
	ErrNotImage = errors.New("not a supported image")
	// ErrTooLarge is returned for images beyond the byte or pixel limits.
	ErrTooLarge = errors.New("image too large")
)

// MaxDimension bounds either side of an accepted image, in pixels.
const MaxDimension = 8000

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Info describes a probed image.
type Info struct {
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Extension returns the file extension for the format, with the dot.
func (i Info) Extension() string {
	if i.Format == "jpeg" {
		return ".jpg"
	}
	return "." + i.Format
}

// Probe decodes just the image header.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("imaging: probe: %w", ErrNotImage)
	}
	ct, ok := contentTypes[format]
	if !ok {
		return Info{}, fmt.Errorf("imaging: probe %s: %w", format, ErrNotImage)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return Info{}, fmt.Errorf("imaging: %dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)
	}
	return Info{Format: format, ContentType: ct, Width: cfg.Width, Height: cfg.Height}, nil
}

// Fit scales the image down to maxWidth, preserving aspect ratio. Images
// already narrow enough are returned untouched. Scaled output is PNG for
// PNG sources and JPEG otherwise.
func Fit(data []byte, maxWidth int) ([]byte, Info, error) {
	info, err := Probe(data)
	if err != nil {
		return nil, Info{}, err
	}
	if info.Width <= maxWidth || maxWidth <= 0 {
		return data, info, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("imaging: decode %s: %w", info.Format, err)
	}

	height := info.Height * maxWidth / info.Width
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	out := Info{Width: maxWidth, Height: height}
	if info.Format == "png" {
		err = png.Encode(&buf, dst)
		out.Format, out.ContentType = "png", "image/png"
	} else {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
		out.Format, out.ContentType = "jpeg", "image/jpeg"
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), out, nil
}
