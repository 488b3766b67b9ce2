package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtok/internal/ui/pretty"
	"github.com/yaklabco/tagtok/pkg/document"
	"github.com/yaklabco/tagtok/pkg/runner"
)

func sampleDocument() *document.Document {
	doc := document.New("page.html", "<title>Hello World</title>")
	doc.AddTerm("Hello", 7, 12)
	doc.AddTerm("World", 13, 18)
	doc.Tags = []document.Tag{{
		Name:       "title",
		Attributes: map[string]string{"lang": "en", "id": "t"},
		Begin:      0, End: 2, CharBegin: 0, CharEnd: 18,
	}}
	return doc
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "page.html", Document: sampleDocument()},
			{Path: "empty.html", Document: document.New("empty.html", "")},
			{Path: "broken.bin", Error: errors.New("binary content")},
		},
	}
}

func TestFileRows(t *testing.T) {
	t.Parallel()

	rows := pretty.FileRows(sampleResult())
	require.Len(t, rows, 3)

	assert.Equal(t, pretty.FileRow{File: "page.html", Terms: "2", Tags: "1", Detail: "title:1"}, rows[0])
	assert.Equal(t, pretty.FileRow{File: "empty.html", Terms: "0", Tags: "0", Detail: "no terms or tags", Empty: true}, rows[1])
	assert.Equal(t, pretty.FileRow{File: "broken.bin", Terms: "-", Tags: "-", Detail: "error: binary content", Failed: true}, rows[2])

	assert.Nil(t, pretty.FileRows(nil))
}

func TestFormatFileTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 80)
	out := formatter.FormatFileTable(sampleResult())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "DETAIL")
	assert.True(t, strings.HasPrefix(lines[1], "===="))
	assert.Contains(t, lines[2], "title:1")
	assert.Contains(t, lines[4], "error: binary content")
	assert.Contains(t, lines[6], "name:count")

	assert.Empty(t, formatter.FormatFileTable(&runner.Result{}))
}

func TestFormatFileTable_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("d/", 60) + "page.html"
	result := &runner.Result{Files: []runner.FileOutcome{{Path: long, Document: sampleDocument()}}}

	out := pretty.NewTableFormatter(pretty.NewStyles(false), false, 80).FormatFileTable(result)
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "page.html")
	assert.NotContains(t, out, long)
}

func TestFormatTermTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	out := formatter.FormatTermTable(sampleDocument())

	assert.Contains(t, out, "TERM")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "7:12")
	assert.Contains(t, out, "13:18")
	assert.Contains(t, out, `title [0,2) chars 0:18 id="t" lang="en"`)

	assert.Empty(t, formatter.FormatTermTable(nil))
}

func TestFormatTableSummary(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	out := formatter.FormatTableSummary(runner.Stats{FilesProcessed: 2, Terms: 7, Tags: 1, FilesErrored: 1})
	assert.Equal(t, " 2 files tokenized | 7 terms | 1 tags | 1 errors", out)
}
