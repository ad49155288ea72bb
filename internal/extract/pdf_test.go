package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// buildPDF writes a minimal single-font PDF with one page per entry of pages.
func buildPDF(pages ...string) []byte {
	var objects []string
	pageCount := len(pages)

	kids := make([]string, pageCount)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	e := NewPDFExtractor(MaxChars, zap.NewNop())

	text, err := e.Extract(context.Background(), buildPDF("Hello World", "Second page"))

	require.NoError(t, err)
	assert.Contains(t, text, "Hello World")
	assert.Contains(t, text, "Second page")
	assert.Less(t, strings.Index(text, "Hello World"), strings.Index(text, "Second page"))
}

func TestExtract_Truncates(t *testing.T) {
	e := NewPDFExtractor(20, zap.NewNop())

	text, err := e.Extract(context.Background(), buildPDF(strings.Repeat("abcdefghij", 10)))

	require.NoError(t, err)
	assert.Equal(t, 20, utf8.RuneCountInString(text))
}

func TestExtract_Empty(t *testing.T) {
	e := NewPDFExtractor(MaxChars, zap.NewNop())

	_, err := e.Extract(context.Background(), nil)

	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtract_NotAPDF(t *testing.T) {
	e := NewPDFExtractor(MaxChars, zap.NewNop())

	_, err := e.Extract(context.Background(), []byte("this is plain text, not a document"))

	assert.Error(t, err)
}

func TestExtract_TruncatedPDF(t *testing.T) {
	e := NewPDFExtractor(MaxChars, zap.NewNop())
	data := buildPDF("Hello World")

	_, err := e.Extract(context.Background(), data[:len(data)/2])

	assert.Error(t, err)
}

func TestExtract_CancelledContext(t *testing.T) {
	e := NewPDFExtractor(MaxChars, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, buildPDF("Hello World"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPDFExtractor_DefaultCap(t *testing.T) {
	assert.Equal(t, MaxChars, NewPDFExtractor(0, zap.NewNop()).maxChars)
	assert.Equal(t, 100, NewPDFExtractor(100, zap.NewNop()).maxChars)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than cap", "abc", 6000, "abc"},
		{"exact", "abcdef", 6, "abcdef"},
		{"cut", "abcdef", 4, "abcd"},
		{"zero", "abc", 0, ""},
		{"multi-byte", "éléphant", 3, "élé"},
		{"multi-byte shorter in runes than bytes", "ééé", 4, "ééé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestTruncate_DefaultCap(t *testing.T) {
	in := strings.Repeat("x", MaxChars+500)

	assert.Len(t, Truncate(in, MaxChars), MaxChars)
}
