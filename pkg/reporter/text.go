package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/tagtok/internal/ui/pretty"
	"github.com/yaklabco/tagtok/pkg/document"
	"github.com/yaklabco/tagtok/pkg/runner"
)

// TextReporter prints each document's terms on one line followed by its tags.
type TextReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	return &TextReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, 0),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (err error) {
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

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Document == nil {
			continue
		}

		r.writeDocument(path, file.Document)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}
	return nil
}

func (r *TextReporter) writeDocument(path string, doc *document.Document) {
	header := fmt.Sprintf("%s %s", r.styles.FilePath.Render(path),
		r.styles.Dim.Render(fmt.Sprintf("(%d terms, %d tags)", doc.Len(), len(doc.Tags))))
	if doc.IsEmpty() {
		header += " " + r.styles.Warning.Render("empty")
	}
	fmt.Fprintln(r.bw, header)

	if doc.Len() > 0 {
		terms := make([]string, 0, doc.Len())
		for i, term := range doc.Terms {
			rendered := r.styles.Term.Render(term)
			if r.opts.ShowSpans {
				span := doc.Span(i)
				rendered += r.styles.Span.Render(fmt.Sprintf("@%d:%d", span.Begin, span.End))
			}
			terms = append(terms, rendered)
		}
		fmt.Fprintf(r.bw, "  %s\n", strings.Join(terms, " "))
	}

	for _, tag := range doc.Tags {
		fmt.Fprintf(r.bw, "  %s\n", r.formatter.FormatTag(tag))
	}
	fmt.Fprintln(r.bw)
}
