package source_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtok/pkg/fsutil"
	"github.com/yaklabco/tagtok/pkg/source"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		expected source.Format
	}{
		{"html extension", "a.HTML", "", source.FormatHTML},
		{"htm extension", "a.htm", "", source.FormatHTML},
		{"xml extension", "feed.xml", "", source.FormatXML},
		{"markdown extension", "README.md", "", source.FormatMarkdown},
		{"text extension", "notes.txt", "<b>x</b>", source.FormatText},
		{"xml prolog", "noext", `<?xml version="1.0"?><a/>`, source.FormatXML},
		{"doctype", "noext", "<!DOCTYPE html><p>x</p>", source.FormatHTML},
		{"html element", "noext", "  <html><body>hi</body></html>", source.FormatHTML},
		{"empty", "noext", "   ", source.FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, source.Detect(tt.file, []byte(tt.content)))
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, ok := source.ParseFormat("MD")
	assert.True(t, ok)
	assert.Equal(t, source.FormatMarkdown, f)

	_, ok = source.ParseFormat("pdf")
	assert.False(t, ok)
}

func TestReadFileHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0o600))

	doc, err := source.NewReader().ReadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Name)
	assert.Equal(t, "<p>hi</p>", doc.Text)
	assert.Equal(t, "html", doc.Metadata[source.MetaFormat])
	assert.Equal(t, "9", doc.Metadata[source.MetaSize])
	assert.Len(t, doc.Metadata[source.MetaSHA256], 64)
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := source.NewReader().ReadFile(context.Background(), filepath.Join(t.TempDir(), "gone.html"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestReadFileMarkdownRendersHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nSome *text*.\n"), 0o600))

	doc, err := source.NewReader().ReadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "<h1>Title</h1>")
	assert.Contains(t, doc.Text, "<em>text</em>")
	assert.Equal(t, "html", doc.Metadata[source.MetaFormat])
	assert.Equal(t, "markdown", doc.Metadata[source.MetaSourceFormat])
}

func TestReadFileErrors(t *testing.T) {
	t.Parallel()

	reader := source.NewReader()

	_, err := reader.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = reader.FromBytes(context.Background(), "blob.bin", []byte{0, 1, 2, 0, 0, 3}, "")
	require.ErrorIs(t, err, source.ErrBinary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.FromBytes(ctx, "x.html", []byte("<p>"), "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadFromExplicitFormat(t *testing.T) {
	t.Parallel()

	doc, err := source.NewReader().ReadFrom(context.Background(), "-", strings.NewReader("*a*"), source.FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "<em>a</em>")
}

func TestFromText(t *testing.T) {
	t.Parallel()

	doc := source.FromText("inline", "hello")
	assert.Equal(t, "hello", doc.Text)
	assert.Equal(t, "text", doc.Metadata[source.MetaFormat])
}
