package pretty

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/tagtok/pkg/document"
	"github.com/yaklabco/tagtok/pkg/runner"
)

const (
	tablePadding     = 2
	fileColumnCount  = 4 // FILE, TERMS, TAGS, DETAIL
	minFileWidth     = 20
	minCountWidth    = 6
	minDetailWidth   = 30
	rowTopTags       = 3
	spanColumnWidth  = 11
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// FileRow is one line of the per-file table.
type FileRow struct {
	File   string
	Terms  string
	Tags   string
	Detail string
	Empty  bool
	Failed bool
}

// TableFormatter renders results as aligned, width-constrained tables.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FileRows converts run outcomes to table rows.
func FileRows(result *runner.Result) []FileRow {
	if result == nil {
		return nil
	}

	rows := make([]FileRow, 0, len(result.Files))
	for _, file := range result.Files {
		row := FileRow{File: file.Path, Terms: "-", Tags: "-"}
		switch {
		case file.Error != nil:
			row.Failed = true
			row.Detail = "error: " + file.Error.Error()
		case file.Document != nil:
			doc := file.Document
			row.Terms = strconv.Itoa(doc.Len())
			row.Tags = strconv.Itoa(len(doc.Tags))
			if doc.IsEmpty() {
				row.Empty = true
				row.Detail = "no terms or tags"
			} else {
				row.Detail = formatTagCounts(doc.Tags)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func formatTagCounts(tags []document.Tag) string {
	counts := make(map[string]int)
	for _, tag := range tags {
		counts[tag.Name]++
	}
	parts := make([]string, 0, rowTopTags)
	for _, tc := range TopTags(counts, rowTopTags) {
		parts = append(parts, fmt.Sprintf("%s:%d", tc.Name, tc.Count))
	}
	return strings.Join(parts, " ")
}

type fileWidths struct {
	file   int
	terms  int
	tags   int
	detail int
}

func (w fileWidths) total() int {
	return w.file + w.terms + w.tags + w.detail + tablePadding*fileColumnCount
}

// FormatFileTable renders one row per file.
func (t *TableFormatter) FormatFileTable(result *runner.Result) string {
	rows := FileRows(result)
	if len(rows) == 0 {
		return ""
	}

	widths := t.fileColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(fmt.Sprintf(" %-*s  %*s  %*s  %-*s ",
		widths.file, "FILE",
		widths.terms, "TERMS",
		widths.tags, "TAGS",
		widths.detail, "DETAIL",
	)))
	builder.WriteString("\n")
	builder.WriteString(t.separator(widths.total(), heavySeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		content := fmt.Sprintf(" %-*s  %*s  %*s  %-*s ",
			widths.file, truncateFilePath(row.File, widths.file),
			widths.terms, row.Terms,
			widths.tags, row.Tags,
			widths.detail, truncateString(row.Detail, widths.detail),
		)
		builder.WriteString(t.rowStyle(row).Render(content))
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(widths.total(), heavySeparator))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) fileColumnWidths(rows []FileRow) fileWidths {
	widths := fileWidths{
		file:   minFileWidth,
		terms:  minCountWidth,
		tags:   minCountWidth,
		detail: minDetailWidth,
	}
	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.terms = max(widths.terms, len(row.Terms))
		widths.tags = max(widths.tags, len(row.Tags))
		widths.detail = max(widths.detail, len(row.Detail))
	}

	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.detail = max(minDetailWidth, widths.detail-excess)
		if excess = widths.total() - t.termWidth; excess > 0 {
			widths.file = max(minFileWidth, widths.file-excess)
		}
	}
	return widths
}

func (t *TableFormatter) rowStyle(row FileRow) lipgloss.Style {
	switch {
	case row.Failed:
		return t.styles.TableErrorRow
	case row.Empty:
		return t.styles.TableEmptyRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" DETAIL lists the most frequent tags as name:count")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s  %s  DETAIL = name:count",
		t.styles.TableErrorRow.Render("error"),
		t.styles.TableEmptyRow.Render("empty"),
	))
}

// FormatTermTable renders every term of doc with its index and byte span,
// followed by its tags.
func (t *TableFormatter) FormatTermTable(doc *document.Document) string {
	if doc == nil {
		return ""
	}

	indexWidth := max(len("#"), len(strconv.Itoa(doc.Len())))
	termWidth := len("TERM")
	for _, term := range doc.Terms {
		termWidth = max(termWidth, len(term))
	}
	termWidth = max(len("TERM"), min(termWidth, t.termWidth-indexWidth-spanColumnWidth-3*tablePadding))

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(fmt.Sprintf(" %*s  %-*s  %s",
		indexWidth, "#", termWidth, "TERM", "SPAN")))
	builder.WriteString("\n")
	builder.WriteString(t.separator(indexWidth+termWidth+spanColumnWidth+3*tablePadding, lightSeparator))
	builder.WriteString("\n")

	for i, term := range doc.Terms {
		span := doc.Span(i)
		builder.WriteString(fmt.Sprintf(" %*d  %s  %s\n",
			indexWidth, i,
			t.styles.Term.Render(fmt.Sprintf("%-*s", termWidth, truncateString(term, termWidth))),
			t.styles.Span.Render(fmt.Sprintf("%d:%d", span.Begin, span.End)),
		))
	}

	if len(doc.Tags) > 0 {
		builder.WriteString("\n")
		for _, tag := range doc.Tags {
			builder.WriteString(" ")
			builder.WriteString(t.FormatTag(tag))
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

// FormatTag renders a tag as "name [begin,end) chars a:b key=value".
func (t *TableFormatter) FormatTag(tag document.Tag) string {
	var builder strings.Builder
	builder.WriteString(t.styles.TagName.Render(tag.Name))
	builder.WriteString(" ")
	builder.WriteString(t.styles.Span.Render(fmt.Sprintf("[%d,%d) chars %d:%d",
		tag.Begin, tag.End, tag.CharBegin, tag.CharEnd)))

	keys := make([]string, 0, len(tag.Attributes))
	for k := range tag.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		builder.WriteString(" ")
		builder.WriteString(t.styles.Attr.Render(fmt.Sprintf("%s=%q", k, tag.Attributes[k])))
	}
	return builder.String()
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats) string {
	parts := []string{
		fmt.Sprintf("%d files tokenized", stats.FilesProcessed),
		fmt.Sprintf("%d terms", stats.Terms),
		fmt.Sprintf("%d tags", stats.Tags),
	}
	if stats.EmptyDocuments > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d empty", stats.EmptyDocuments)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", stats.FilesErrored)))
	}
	return " " + strings.Join(parts, " | ")
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath keeps the end of the path, where the file name is.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
