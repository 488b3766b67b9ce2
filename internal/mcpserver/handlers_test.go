package mcpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtok/internal/logging"
	"github.com/yaklabco/tagtok/internal/mcpserver"
	"github.com/yaklabco/tagtok/pkg/config"
	"github.com/yaklabco/tagtok/pkg/reporter"
)

func newHandlers(t *testing.T, dir string) *mcpserver.Handlers {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Fields = []string{"title"}
	h, err := mcpserver.NewHandlers(cfg, dir, logging.NewWithWriter(&bytes.Buffer{}, "debug"))
	require.NoError(t, err)
	return h
}

func decode(t *testing.T, result *mcp.CallToolResult) reporter.DocumentOutput {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var out reporter.DocumentOutput
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func terms(out reporter.DocumentOutput) []string {
	s := make([]string, 0, len(out.Terms))
	for _, term := range out.Terms {
		s = append(s, term.Term)
	}
	return s
}

func TestNewHandlers_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Stemmer = "nope"
	_, err := mcpserver.NewHandlers(cfg, t.TempDir(), nil)
	require.Error(t, err)
}

func TestTokenizeText(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, t.TempDir())
	result, structured, err := h.TokenizeText(context.Background(), nil, mcpserver.TokenizeTextArgs{
		Text: "<title>Hello World</title><p>Foo</p>",
	})
	require.NoError(t, err)
	assert.Nil(t, structured)

	out := decode(t, result)
	assert.Equal(t, "text", out.Name)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, []string{"Hello", "World", "Foo"}, terms(out))
	require.Len(t, out.Tags, 1)
	assert.Equal(t, reporter.TagOutput{Name: "title", Begin: 0, End: 2, CharBegin: 0, CharEnd: 18}, out.Tags[0])
}

func TestTokenizeText_FieldsOverride(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, t.TempDir())

	for range 2 {
		result, _, err := h.TokenizeText(context.Background(), nil, mcpserver.TokenizeTextArgs{
			Text:   "<title>Hello</title><p class=x>Foo</p>",
			Fields: []string{"p"},
			Name:   "inline",
		})
		require.NoError(t, err)

		out := decode(t, result)
		assert.Equal(t, "inline", out.Name)
		require.Len(t, out.Tags, 1)
		assert.Equal(t, "p", out.Tags[0].Name)
		assert.Equal(t, map[string]string{"class": "x"}, out.Tags[0].Attributes)
	}
}

func TestTokenizeText_NoHTMLEscaping(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, t.TempDir())
	result, _, err := h.TokenizeText(context.Background(), nil, mcpserver.TokenizeTextArgs{
		Text:   "<p>AT&amp;T &lt;3</p>",
		Format: "html",
	})
	require.NoError(t, err)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"AT&T"`)
	assert.Contains(t, text.Text, `"<3"`)
	assert.NotContains(t, text.Text, `\u0026`)
	assert.NotContains(t, text.Text, `\u003c`)

	assert.Equal(t, []string{"AT&T", "<3"}, terms(decode(t, result)))
}

func TestTokenizeText_Markdown(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, t.TempDir())
	result, _, err := h.TokenizeText(context.Background(), nil, mcpserver.TokenizeTextArgs{
		Text:   "# Heading\n\nbody",
		Format: "md",
		Fields: []string{"re:h[1-6]"},
	})
	require.NoError(t, err)

	out := decode(t, result)
	assert.Equal(t, []string{"Heading", "body"}, terms(out))
	require.Len(t, out.Tags, 1)
	assert.Equal(t, "h1", out.Tags[0].Name)
	assert.Equal(t, "markdown", out.Metadata["source_format"])
}

func TestTokenizeText_Errors(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, t.TempDir())
	ctx := context.Background()

	_, _, err := h.TokenizeText(ctx, nil, mcpserver.TokenizeTextArgs{Text: "  "})
	require.ErrorIs(t, err, mcpserver.ErrEmptyText)

	_, _, err = h.TokenizeText(ctx, nil, mcpserver.TokenizeTextArgs{Text: "x", Format: "pdf"})
	require.Error(t, err)

	_, _, err = h.TokenizeText(ctx, nil, mcpserver.TokenizeTextArgs{Text: "x", Fields: []string{"re:("}})
	require.Error(t, err)
}

func TestTokenizeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"),
		[]byte("<html><title>Doc</title>one two</html>"), 0o600))

	h := newHandlers(t, dir)
	result, _, err := h.TokenizeFile(context.Background(), nil, mcpserver.TokenizeFileArgs{Path: "page.html"})
	require.NoError(t, err)

	out := decode(t, result)
	assert.Equal(t, "page.html", out.Name)
	assert.Equal(t, []string{"Doc", "one", "two"}, terms(out))
	assert.Len(t, out.Metadata["sha256"], 64)
	require.Len(t, out.Tags, 1)
	assert.Equal(t, "title", out.Tags[0].Name)
}

func TestTokenizeFile_Errors(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, t.TempDir())

	_, _, err := h.TokenizeFile(context.Background(), nil, mcpserver.TokenizeFileArgs{})
	require.ErrorIs(t, err, mcpserver.ErrEmptyPath)

	_, _, err = h.TokenizeFile(context.Background(), nil, mcpserver.TokenizeFileArgs{Path: "missing.html"})
	require.Error(t, err)
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	server := mcpserver.NewServer(newHandlers(t, t.TempDir()), "test")
	assert.NotNil(t, server)
}
