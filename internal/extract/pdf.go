// Package extract turns uploaded documents into plain text for the generator.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// MaxChars bounds the text sent onward to the generator.
const MaxChars = 6000

var ErrEmptyDocument = errors.New("document is empty")

// PDFExtractor reads the text layer of a PDF page by page.
type PDFExtractor struct {
	maxChars int
	logger   *zap.Logger
}

// NewPDFExtractor returns an extractor truncating output to maxChars
// characters. A non-positive maxChars selects MaxChars.
func NewPDFExtractor(maxChars int, logger *zap.Logger) *PDFExtractor {
	if maxChars <= 0 {
		maxChars = MaxChars
	}
	return &PDFExtractor{maxChars: maxChars, logger: logger}
}

// Extract returns the document text, one line break after every page,
// truncated to the configured number of characters.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		sb.WriteString(content)
		sb.WriteString("\n")

		// Pages beyond the cap would be discarded anyway.
		if sb.Len() >= e.maxChars*4 {
			break
		}
	}

	e.logger.Debug("extracted pdf text", zap.Int("pages", pages), zap.Int("bytes", sb.Len()))
	return Truncate(sb.String(), e.maxChars), nil
}

// Truncate cuts s to at most n characters (runes), never splitting a
// multi-byte character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
