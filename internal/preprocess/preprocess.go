// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package preprocess turns an input file into something the extraction
// pipeline can work on. Photos pass through as raw bytes. PDFs are tried
// text-layer first: a scan-to-PDF with a usable text layer skips the
// recognition round-trip entirely. PDFs without one give up their largest
// embedded image instead.
package preprocess

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is the prepared input. Exactly one of Text and Image is set:
// Text when a PDF text layer sufficed, Image when recognition is needed.
type Document struct {
	Text  string
	Image []byte
}

// HasText reports whether recognition can be skipped.
func (d Document) HasText() bool { return d.Text != "" }

const maxPages = 20

// minTextChars is the threshold below which a PDF text layer is treated
// as absent. Scanner-produced PDFs often carry a few stray glyphs.
const minTextChars = 40

// Prepare loads path and decides how the pipeline should consume it.
func Prepare(path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return preparePDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read input: %w", err)
	}
	return Document{Image: data}, nil
}

func preparePDF(path string) (Document, error) {
	if text, err := pdfText(path); err == nil && usableText(text) {
		return Document{Text: text}, nil
	}

	img, err := pdfLargestImage(path)
	if err != nil {
		return Document{}, fmt.Errorf("pdf has no usable text layer and no extractable image: %w", err)
	}
	return Document{Image: img}, nil
}

// pdfText pulls the text layer page by page, reconstructing reading order
// from glyph coordinates. Row extraction can fail on exotic encodings, in
// which case the page falls back to plain text extraction.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var buf bytes.Buffer
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	ordered := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			ordered = append(ordered, row)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return averageY(ordered[i].Content) < averageY(ordered[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range ordered {
		line := rowText(row.Content)
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, e := range elements {
		total += e.Y
	}
	return total / float64(len(elements))
}

// rowText joins a row's glyph runs left to right, inserting a space where
// the horizontal gap exceeds a fraction of the font size.
func rowText(elements []pdf.Text) string {
	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		buf.WriteString(e.S)
		if i == len(sorted)-1 {
			continue
		}
		gap := sorted[i+1].X - (e.X + e.W)
		fontSize := e.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// usableText guards against scanner PDFs that carry a handful of stray
// glyphs instead of a real text layer.
func usableText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTextChars {
		return false
	}
	return len(strings.Fields(trimmed)) >= 5
}

// pdfLargestImage validates the PDF and extracts its embedded images into
// a scratch directory, returning the largest one. Identity documents are
// usually scanned as one full-page image; the largest file is the scan.
func pdfLargestImage(path string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	dir, err := os.MkdirTemp("", "idscan-pdf-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := api.ExtractImagesFile(path, dir, nil, conf); err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var best string
	var bestSize int64
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || entry.IsDir() {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return nil, fmt.Errorf("pdf contains no embedded images")
	}
	return os.ReadFile(best)
}
