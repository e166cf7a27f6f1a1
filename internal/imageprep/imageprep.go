// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package imageprep bounds upload size before an image is sent for
// recognition. Oversized scans are resized within maximum dimensions and
// re-encoded as JPEG at reduced quality; anything that fails along the way
// degrades to the original bytes, never to an error.
package imageprep

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

// Options controls when and how an image is recompressed.
type Options struct {
	MaxBytes    int // images at or below this size pass through untouched
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
}

// DefaultOptions returns the limits used for recognition uploads.
func DefaultOptions() Options {
	return Options{
		MaxBytes:    1 << 20,
		MaxWidth:    2048,
		MaxHeight:   2048,
		JPEGQuality: 80,
	}
}

// Compress shrinks data to fit within the configured limits. The original
// bytes are returned unchanged when the image is already small enough, when
// decoding fails, or when recompression does not actually shrink it.
func Compress(data []byte, opts Options) []byte {
	if opts.MaxBytes <= 0 || len(data) <= opts.MaxBytes {
		return data
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return data
	}

	scale := 1.0
	if opts.MaxWidth > 0 && w > opts.MaxWidth {
		scale = float64(opts.MaxWidth) / float64(w)
	}
	if opts.MaxHeight > 0 && float64(h)*scale > float64(opts.MaxHeight) {
		scale = float64(opts.MaxHeight) / float64(h)
	}

	target := img
	if scale < 1.0 {
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		target = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, target, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return data
	}
	if buf.Len() >= len(data) {
		return data
	}
	return buf.Bytes()
}

// Orientation reads the EXIF orientation tag. Scans from phone cameras
// often carry a rotation here that the recognition service needs hinted.
// Returns 1 (upright) when the tag is absent or unreadable.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}
