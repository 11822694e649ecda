// Package document turns resume files into plain text.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Outcome is the result of a conversion. Err is set when no text could be
// produced; Text is then empty.
type Outcome struct {
	Text   string
	Format Format
	Err    error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Converter is the document-to-text boundary.
type Converter interface {
	Convert(ctx context.Context, name string, data []byte) Outcome
}

// TextConverter extracts embedded text from PDF, DOCX and plain text files.
// Scanned documents without a text layer come back empty.
type TextConverter struct{}

func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

func (c *TextConverter) Convert(ctx context.Context, name string, data []byte) (out Outcome) {
	out.Format = DetectFormat(name, data)

	// Third-party parsers panic on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			out.Text = ""
			out.Err = fmt.Errorf("%s parser panic: %v", out.Format, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	if len(data) == 0 {
		out.Err = errors.New("empty document")
		return out
	}

	var (
		text string
		err  error
	)
	switch out.Format {
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	case FormatText:
		text = string(data)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimetype.Detect(data).String())
	}

	if err != nil {
		out.Err = err
		return out
	}

	out.Text = strings.TrimSpace(text)
	if out.Text == "" {
		out.Err = errors.New("document contains no extractable text")
	}

	return out
}

// DetectFormat sniffs the content first and falls back to the file extension.
func DetectFormat(name string, data []byte) Format {
	if len(data) > 0 {
		mt := mimetype.Detect(data)
		switch {
		case mt.Is(mimePDF):
			return FormatPDF
		case mt.Is(mimeDOCX):
			return FormatDOCX
		case mt.Is(mimeText):
			return FormatText
		}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".txt", ".text", ".md":
		return FormatText
	default:
		return FormatUnknown
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				words = append(words, t.S)
			}
			builder.WriteString(strings.Join(words, ""))
			builder.WriteString("\n")
		}
	}

	return builder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxPlainText(doc.Editable().GetContent()), nil
}

// docxPlainText reduces WordprocessingML to text, one paragraph per line.
func docxPlainText(content string) string {
	content = strings.NewReplacer("</w:p>", "\n", "<w:tab/>", "\t", "<w:br/>", "\n").Replace(content)

	var builder strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			builder.WriteRune(r)
		}
	}

	return html.UnescapeString(builder.String())
}
