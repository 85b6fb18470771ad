// Package document turns invoice files into per-page text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
)

// Source yields the text layer of a document, one string per page, with
// lines separated by "\n".
type Source interface {
	Pages(data []byte) ([]string, error)
}

// PDF reads the text layer of a PDF with MuPDF. It does not OCR scanned
// pages.
type PDF struct{}

// Pages implements Source.
func (PDF) Pages(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("extracting text from page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// ErrNotText is returned for input that is neither a PDF nor UTF-8 text,
// such as an image upload.
var ErrNotText = errors.New("document is not a PDF or UTF-8 text")

// Text reads plain text where pages are separated by form feeds, as
// written by pdftotext.
type Text struct{}

// Pages implements Source. A trailing form feed does not start a page.
// Binary input (invalid UTF-8 or NUL bytes) is rejected with ErrNotText.
func (Text) Pages(data []byte) ([]string, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, ErrNotText
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if text == "" {
		return nil, nil
	}
	pages := strings.Split(text, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}

var pdfMagic = []byte("%PDF-")

// Detect reads PDFs with PDF and anything else with Text.
type Detect struct{}

// Pages implements Source.
func (Detect) Pages(data []byte) ([]string, error) {
	if IsPDF(data) {
		return PDF{}.Pages(data)
	}
	return Text{}.Pages(data)
}

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\n\r "), pdfMagic)
}
