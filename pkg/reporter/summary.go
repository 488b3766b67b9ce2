package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/tagtok/internal/ui/pretty"
	"github.com/yaklabco/tagtok/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 80
	tagColWidth       = 30
	fileColWidth      = 50
	numColWidth       = 9
	maxTagNameLength  = 28
	maxFilePathLength = 48
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryReporter prints aggregate tag and file tables instead of terms.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// tagRow aggregates one tag name across a run.
type tagRow struct {
	name  string
	count int
	files int
	terms int
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to tokenize."))
		return nil
	}

	if rows := collectTagRows(result); len(rows) > 0 {
		r.renderTagTable(rows)
		fmt.Fprintln(r.bw)
	}
	r.renderFileTable(result)
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	return nil
}

func collectTagRows(result *runner.Result) []tagRow {
	byName := make(map[string]*tagRow)
	for _, doc := range result.Documents() {
		seen := make(map[string]bool)
		for _, tag := range doc.Tags {
			row, ok := byName[tag.Name]
			if !ok {
				row = &tagRow{name: tag.Name}
				byName[tag.Name] = row
			}
			row.count++
			row.terms += tag.Len()
			if !seen[tag.Name] {
				seen[tag.Name] = true
				row.files++
			}
		}
	}

	rows := make([]tagRow, 0, len(byName))
	for _, tc := range pretty.TopTags(result.Stats.TagsByName, 0) {
		if row, ok := byName[tc.Name]; ok {
			rows = append(rows, *row)
		}
	}
	return rows
}

func (r *SummaryReporter) renderTagTable(rows []tagRow) {
	fmt.Fprintln(r.bw, r.styles.Bold.Render("Tags Summary"))
	fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
	fmt.Fprintf(r.bw, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Tag", tagColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Terms", numColWidth)),
	)
	fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	for _, row := range rows {
		name := row.name
		if len(name) > maxTagNameLength {
			name = name[:maxTagNameLength] + "…"
		}
		fmt.Fprintf(r.bw, "%s %s %s %s\n",
			r.styles.TagName.Render(padRight(name, tagColWidth)),
			padLeft(strconv.Itoa(row.count), numColWidth),
			padLeft(strconv.Itoa(row.files), numColWidth),
			padLeft(strconv.Itoa(row.terms), numColWidth),
		)
	}
}

func (r *SummaryReporter) renderFileTable(result *runner.Result) {
	fmt.Fprintln(r.bw, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
	fmt.Fprintf(r.bw, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Terms", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Tags", numColWidth)),
	)
	fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-maxFilePathLength:]
		}
		padded := padRight(path, fileColWidth)

		switch {
		case file.Error != nil:
			fmt.Fprintf(r.bw, "%s %s\n", r.styles.TableErrorRow.Render(padded), r.styles.Error.Render("error"))
		case file.Document != nil:
			style := r.styles.FilePath
			if file.Document.IsEmpty() {
				style = r.styles.TableEmptyRow
			}
			fmt.Fprintf(r.bw, "%s %s %s\n",
				style.Render(padded),
				padLeft(strconv.Itoa(file.Document.Len()), numColWidth),
				padLeft(strconv.Itoa(len(file.Document.Tags)), numColWidth),
			)
		}
	}
}
