// Package pdftext turns raw PDF bytes into plain text.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrInvalidDocument reports bytes the parser could not read as a PDF.
	ErrInvalidDocument = errors.New("invalid pdf document")
	// ErrEmptyDocument reports a PDF without any readable text.
	ErrEmptyDocument = errors.New("pdf has no readable text")
)

// Result is the outcome of a successful extraction.
type Result struct {
	Text  string
	Pages int
}

// Extractor converts PDF bytes into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (Result, error)
}

// PDFExtractor reads text with ledongthuc/pdf and counts pages with pdfcpu.
type PDFExtractor struct{}

func init() {
	// pdfcpu otherwise writes a config directory under the user's home on first use.
	api.DisableConfigDir()
}

// NewExtractor returns the default extractor.
func NewExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the document's plain text and page count.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%w: no data", ErrInvalidDocument)
	}

	text, pages, err := readText(data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyDocument
	}

	if n, ok := countPages(data); ok {
		pages = n
	}
	return Result{Text: text, Pages: pages}, nil
}

// readText recovers from parser panics; the library panics on some malformed
// cross-reference tables.
func readText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, err
	}
	return buf.String(), reader.NumPage(), nil
}

func countPages(data []byte) (n int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n, ok = 0, false
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil || count <= 0 {
		return 0, false
	}
	return count, true
}
