package pretty

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/tagtok/pkg/runner"
)

const (
	summaryDividerWidth = 40
	summaryTopTags      = 10
)

// TagCount is one entry of a tag frequency listing.
type TagCount struct {
	Name  string
	Count int
}

// TopTags returns up to n tag names by descending count, ties by name.
// n <= 0 returns all of them.
func TopTags(counts map[string]int, n int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, TagCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "120 terms, 14 tags in 3 files (1 empty, 1 error)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to tokenize") + "\n"
	}

	line := fmt.Sprintf("%d %s, %d %s in %d %s",
		stats.Terms, plural(stats.Terms, "term", "terms"),
		stats.Tags, plural(stats.Tags, "tag", "tags"),
		stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files"),
	)

	var notes []string
	if stats.EmptyDocuments > 0 {
		notes = append(notes, s.Warning.Render(fmt.Sprintf("%d empty", stats.EmptyDocuments)))
	}
	if stats.FilesErrored > 0 {
		notes = append(notes, s.Error.Render(fmt.Sprintf("%d %s",
			stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}

	if stats.FilesErrored == 0 && stats.EmptyDocuments == 0 {
		return s.Success.Render(line) + "\n"
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files found", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Files tokenized", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.EmptyDocuments > 0 {
		row("Empty documents", s.Warning.Render(strconv.Itoa(stats.EmptyDocuments)))
	}
	if stats.FilesErrored > 0 {
		row("Files with errors", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")
	row("Terms", s.SummaryValue.Render(strconv.Itoa(stats.Terms)))
	row("Tags", s.SummaryValue.Render(strconv.Itoa(stats.Tags)))
	if stats.PoolEntries > 0 {
		row("Pooled strings", s.SummaryValue.Render(strconv.Itoa(stats.PoolEntries)))
	}

	if top := TopTags(stats.TagsByName, summaryTopTags); len(top) > 0 {
		builder.WriteString("\n")
		builder.WriteString(s.SummaryTitle.Render("  Tags by name"))
		builder.WriteString("\n")
		for _, tc := range top {
			builder.WriteString(fmt.Sprintf("    %-16s %s\n",
				s.TagName.Render(tc.Name), s.SummaryValue.Render(strconv.Itoa(tc.Count))))
		}
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Tokenization finished with errors"))
	case stats.EmptyDocuments > 0:
		builder.WriteString(s.Warning.Render("Tokenization finished with empty documents"))
	default:
		builder.WriteString(s.Success.Render("Tokenization complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
