package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/tagtok/internal/ui/pretty"
	"github.com/yaklabco/tagtok/pkg/runner"
)

func TestTopTags(t *testing.T) {
	t.Parallel()

	counts := map[string]int{"p": 4, "a": 2, "title": 1, "h1": 2}

	assert.Equal(t, []pretty.TagCount{
		{Name: "p", Count: 4},
		{Name: "a", Count: 2},
		{Name: "h1", Count: 2},
	}, pretty.TopTags(counts, 3))
	assert.Len(t, pretty.TopTags(counts, 0), 4)
	assert.Empty(t, pretty.TopTags(nil, 5))
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name: "no files",
			want: "No files to tokenize\n",
		},
		{
			name:  "clean",
			stats: runner.Stats{FilesDiscovered: 2, FilesProcessed: 2, Terms: 10, Tags: 1},
			want:  "10 terms, 1 tag in 2 files\n",
		},
		{
			name: "empty and errors",
			stats: runner.Stats{
				FilesDiscovered: 4, FilesProcessed: 3, FilesErrored: 1,
				EmptyDocuments: 2, Terms: 1, Tags: 0,
			},
			want: "1 term, 0 tags in 3 files (2 empty, 1 error)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out := styles.FormatSummary(runner.Stats{
		FilesDiscovered: 3,
		FilesProcessed:  3,
		Terms:           42,
		Tags:            5,
		TagsByName:      map[string]int{"p": 3, "title": 2},
		PoolEntries:     30,
	})

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Files tokenized:")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "Pooled strings:")
	assert.Contains(t, out, "Tags by name")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "Tokenization complete")
	assert.NotContains(t, out, "Empty documents:")
	assert.NotContains(t, out, "Files with errors:")
}

func TestFormatSummary_Problems(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out := styles.FormatSummary(runner.Stats{FilesDiscovered: 2, FilesProcessed: 1, EmptyDocuments: 1})
	assert.Contains(t, out, "Empty documents:")
	assert.Contains(t, out, "finished with empty documents")

	out = styles.FormatSummary(runner.Stats{FilesDiscovered: 2, FilesProcessed: 1, FilesErrored: 1})
	assert.Contains(t, out, "Files with errors:")
	assert.Contains(t, out, "finished with errors")
}
