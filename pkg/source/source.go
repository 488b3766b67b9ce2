// Package source turns files and streams into documents ready for the
// tokenizer. Markdown is rendered to HTML first so its structure shows up
// as tags; other formats are passed through as text.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-enry/go-enry/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/yaklabco/tagtok/pkg/document"
	"github.com/yaklabco/tagtok/pkg/fsutil"
)

// Metadata keys set on every document produced here.
const (
	MetaFormat       = "format"
	MetaSourceFormat = "source_format"
	MetaSize         = "size"

	// MetaSHA256 is set only for documents read from disk.
	MetaSHA256 = "sha256"
)

// ErrBinary is returned for content that looks like a binary file.
var ErrBinary = errors.New("binary content")

// Reader builds documents. The zero value is not usable; call NewReader.
type Reader struct {
	md goldmark.Markdown
}

// NewReader returns a Reader rendering Markdown with GitHub extensions.
// Raw HTML inside Markdown is kept so it can be tokenized.
func NewReader() *Reader {
	return &Reader{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// ReadFile reads path and returns its document.
func (r *Reader) ReadFile(ctx context.Context, path string) (*document.Document, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, err := r.FromBytes(ctx, path, content, "")
	if err != nil {
		return nil, err
	}
	doc.Metadata[MetaSHA256] = info.Digest()
	return doc, nil
}

// ReadFrom drains rd into a document called name.
func (r *Reader) ReadFrom(ctx context.Context, name string, rd io.Reader, format Format) (*document.Document, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return r.FromBytes(ctx, name, content, format)
}

// FromBytes converts content to a document. An empty format is detected
// from the name and content.
func (r *Reader) FromBytes(ctx context.Context, name string, content []byte, format Format) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if enry.IsBinary(content) {
		return nil, fmt.Errorf("%s: %w", name, ErrBinary)
	}

	if format == "" {
		format = Detect(name, content)
	}

	text := string(content)
	produced := format
	if format == FormatMarkdown {
		var buf bytes.Buffer
		if err := r.md.Convert(content, &buf); err != nil {
			return nil, fmt.Errorf("render markdown %s: %w", name, err)
		}
		text = buf.String()
		produced = FormatHTML
	}

	doc := document.New(name, text)
	doc.Metadata[MetaFormat] = string(produced)
	doc.Metadata[MetaSourceFormat] = string(format)
	doc.Metadata[MetaSize] = fmt.Sprint(len(content))
	return doc, nil
}

// FromText wraps already-decoded text without any conversion.
func FromText(name, text string) *document.Document {
	doc := document.New(name, text)
	doc.Metadata[MetaFormat] = string(FormatText)
	doc.Metadata[MetaSourceFormat] = string(FormatText)
	doc.Metadata[MetaSize] = fmt.Sprint(len(text))
	return doc
}
