package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Format
	}{
		{name: "pdf magic", filename: "cv.bin", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), want: FormatPDF},
		{name: "plain text content", filename: "cv", data: []byte("John Smith\nEngineer\n"), want: FormatText},
		{name: "zip falls back to extension", filename: "CV.DOCX", data: []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), want: FormatDOCX},
		{name: "extension only", filename: "resume.pdf", data: nil, want: FormatPDF},
		{name: "unknown", filename: "photo.png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectFormat(tt.filename, tt.data))
		})
	}
}

func TestConvertPlainText(t *testing.T) {
	out := NewTextConverter().Convert(context.Background(), "cv.txt", []byte("  John Smith\njohn@example.com\n "))

	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	assert.Equal(t, FormatText, out.Format)
	assert.Equal(t, "John Smith\njohn@example.com", out.Text)
}

func TestConvertFailuresAreOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{name: "empty", filename: "cv.pdf", data: nil},
		{name: "whitespace only", filename: "cv.txt", data: []byte(" \n\t ")},
		{name: "broken pdf", filename: "cv.pdf", data: []byte("%PDF-1.4\nnot really a pdf")},
		{name: "broken docx", filename: "cv.docx", data: []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00garbage")},
		{name: "unsupported", filename: "photo.png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := NewTextConverter().Convert(context.Background(), tt.filename, tt.data)

			assert.False(t, out.OK())
			assert.Error(t, out.Err)
			assert.Empty(t, out.Text)
		})
	}
}

func TestConvertUnsupportedWrapsSentinel(t *testing.T) {
	out := NewTextConverter().Convert(context.Background(), "photo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))

	assert.True(t, errors.Is(out.Err, ErrUnsupportedFormat))
}

func TestConvertHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewTextConverter().Convert(ctx, "cv.txt", []byte("John Smith"))

	assert.ErrorIs(t, out.Err, context.Canceled)
}

func TestDocxPlainText(t *testing.T) {
	xml := `<w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>R&amp;D</w:t><w:tab/><w:t>Jan 2020 - Present</w:t></w:r></w:p></w:body>`

	assert.Equal(t, "Jane Doe\nR&D\tJan 2020 - Present\n", docxPlainText(xml))
}
