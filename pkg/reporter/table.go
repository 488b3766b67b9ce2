package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/tagtok/internal/ui/pretty"
	"github.com/yaklabco/tagtok/pkg/runner"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter formats results as a styled per-file table.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, getTerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to tokenize."))
		}
		return nil
	}

	if r.opts.PerFile {
		r.reportPerFile(result)
	} else {
		fmt.Fprint(r.bw, r.formatter.FormatFileTable(r.relative(result)))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats))
	}
	return nil
}

// reportPerFile prints a term table under a header for each document.
func (r *TableReporter) reportPerFile(result *runner.Result) {
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		fmt.Fprintln(r.bw, r.styles.Bold.Render(path))

		if file.Error != nil {
			fmt.Fprintln(r.bw, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			fmt.Fprintln(r.bw)
			continue
		}
		if file.Document != nil {
			fmt.Fprint(r.bw, r.formatter.FormatTermTable(file.Document))
		}
		fmt.Fprintln(r.bw)
	}
}

// relative returns a shallow copy of result with display paths.
func (r *TableReporter) relative(result *runner.Result) *runner.Result {
	if r.opts.WorkingDir == "" {
		return result
	}
	out := &runner.Result{Files: make([]runner.FileOutcome, len(result.Files)), Stats: result.Stats}
	for i, file := range result.Files {
		file.Path = r.opts.displayPath(file.Path)
		out.Files[i] = file
	}
	return out
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
