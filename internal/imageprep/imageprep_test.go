// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package imageprep

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// noisyJPEG encodes a w×h gradient at maximum quality so the fixture has
// enough entropy to exceed small byte thresholds.
func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 7 % 256), uint8(y * 13 % 256), uint8((x + y) % 256), 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestCompress_SmallImagePassesThrough(t *testing.T) {
	data := noisyJPEG(t, 50, 50)
	got := Compress(data, Options{MaxBytes: len(data) + 1, MaxWidth: 10, MaxHeight: 10, JPEGQuality: 50})
	if !bytes.Equal(got, data) {
		t.Error("image under threshold should pass through unchanged")
	}
}

func TestCompress_OversizedImageShrinks(t *testing.T) {
	data := noisyJPEG(t, 400, 300)
	opts := Options{MaxBytes: 1000, MaxWidth: 100, MaxHeight: 100, JPEGQuality: 60}
	got := Compress(data, opts)
	if len(got) >= len(data) {
		t.Fatalf("compressed size %d not smaller than original %d", len(got), len(data))
	}
	img, _, err := image.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("compressed output does not decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > 100 || b.Dy() > 100 {
		t.Errorf("dimensions %dx%d exceed 100x100", b.Dx(), b.Dy())
	}
}

func TestCompress_PreservesAspectRatio(t *testing.T) {
	data := noisyJPEG(t, 400, 200)
	got := Compress(data, Options{MaxBytes: 1000, MaxWidth: 100, MaxHeight: 100, JPEGQuality: 60})
	img, _, err := image.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("dimensions = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestCompress_UndecodableBytesDegradeToOriginal(t *testing.T) {
	data := []byte("not an image at all, but comfortably longer than the threshold")
	got := Compress(data, Options{MaxBytes: 10, MaxWidth: 100, MaxHeight: 100, JPEGQuality: 60})
	if !bytes.Equal(got, data) {
		t.Error("undecodable input should degrade to the original bytes")
	}
}

func TestCompress_ZeroThresholdDisables(t *testing.T) {
	data := noisyJPEG(t, 100, 100)
	if got := Compress(data, Options{}); !bytes.Equal(got, data) {
		t.Error("zero MaxBytes should disable compression")
	}
}

// exifJPEG builds a minimal JPEG whose APP1 segment carries a single EXIF
// orientation tag (little-endian TIFF, one IFD entry).
func exifJPEG(orientation byte) []byte {
	tiff := []byte{
		'I', 'I', 0x2A, 0x00, // TIFF header
		0x08, 0x00, 0x00, 0x00, // IFD0 at offset 8
		0x01, 0x00, // one entry
		0x12, 0x01, 0x03, 0x00, // tag 0x0112, type SHORT
		0x01, 0x00, 0x00, 0x00, // count 1
		orientation, 0x00, 0x00, 0x00, // inline value
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8}) // SOI
	buf.Write([]byte{0xFF, 0xE1, byte((len(payload) + 2) >> 8), byte((len(payload) + 2) & 0xFF)})
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9}) // EOI
	return buf.Bytes()
}

func TestOrientation_ReadsRotationTag(t *testing.T) {
	for _, want := range []int{2, 3, 6, 8} {
		if got := Orientation(exifJPEG(byte(want))); got != want {
			t.Errorf("Orientation = %d, want %d", got, want)
		}
	}
}

func TestOrientation_OutOfRangeTagDefaultsUpright(t *testing.T) {
	if got := Orientation(exifJPEG(9)); got != 1 {
		t.Errorf("Orientation = %d, want 1", got)
	}
}

func TestOrientation_MissingEXIFDefaultsUpright(t *testing.T) {
	if got := Orientation(noisyJPEG(t, 10, 10)); got != 1 {
		t.Errorf("Orientation = %d, want 1", got)
	}
	if got := Orientation([]byte("garbage")); got != 1 {
		t.Errorf("Orientation(garbage) = %d, want 1", got)
	}
}
