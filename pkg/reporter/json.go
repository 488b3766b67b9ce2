package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/tagtok/pkg/document"
	"github.com/yaklabco/tagtok/pkg/runner"
)

// OutputVersion identifies the structured output schema.
const OutputVersion = "1"

// Output is the top-level structure shared by the JSON and YAML reporters.
type Output struct {
	Version   string           `json:"version" yaml:"version"`
	Documents []DocumentOutput `json:"documents" yaml:"documents"`
	Errors    []FileError      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Stats     runner.Stats     `json:"stats" yaml:"stats"`
}

// DocumentOutput is one tokenized document.
type DocumentOutput struct {
	ID       string            `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string            `json:"name" yaml:"name"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Terms    []TermOutput      `json:"terms" yaml:"terms"`
	Tags     []TagOutput       `json:"tags" yaml:"tags"`
}

// TermOutput is a term with its token index and byte span.
type TermOutput struct {
	Index int    `json:"index" yaml:"index"`
	Term  string `json:"term" yaml:"term"`
	Begin int    `json:"begin" yaml:"begin"`
	End   int    `json:"end" yaml:"end"`
}

// TagOutput carries both the term span and the byte span of a tag.
type TagOutput struct {
	Name       string            `json:"name" yaml:"name"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Begin      int               `json:"begin" yaml:"begin"`
	End        int               `json:"end" yaml:"end"`
	CharBegin  int               `json:"char_begin" yaml:"char_begin"`
	CharEnd    int               `json:"char_end" yaml:"char_end"`
}

// FileError records an input that could not be tokenized.
type FileError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// NewDocumentOutput converts doc. Raw text is copied only when withText is
// set.
func NewDocumentOutput(doc *document.Document, withText bool) DocumentOutput {
	out := DocumentOutput{
		ID:       doc.ID,
		Name:     doc.Name,
		Metadata: doc.Metadata,
		Terms:    make([]TermOutput, 0, doc.Len()),
		Tags:     make([]TagOutput, 0, len(doc.Tags)),
	}
	if withText {
		out.Text = doc.Text
	}

	for i, term := range doc.Terms {
		span := doc.Span(i)
		out.Terms = append(out.Terms, TermOutput{Index: i, Term: term, Begin: span.Begin, End: span.End})
	}
	for _, tag := range doc.Tags {
		out.Tags = append(out.Tags, TagOutput{
			Name:       tag.Name,
			Attributes: tag.Attributes,
			Begin:      tag.Begin,
			End:        tag.End,
			CharBegin:  tag.CharBegin,
			CharEnd:    tag.CharEnd,
		})
	}
	return out
}

// BuildOutput converts a run result into the structured output model.
func BuildOutput(result *runner.Result, opts Options) *Output {
	output := &Output{
		Version:   OutputVersion,
		Documents: make([]DocumentOutput, 0),
	}
	if result == nil {
		output.Stats = runner.NewResult().Stats
		return output
	}

	output.Stats = result.Stats
	for _, file := range result.Files {
		path := opts.displayPath(file.Path)
		if file.Error != nil {
			output.Errors = append(output.Errors, FileError{Path: path, Error: file.Error.Error()})
			continue
		}
		if file.Document == nil {
			continue
		}
		doc := NewDocumentOutput(file.Document, opts.IncludeText)
		doc.Name = path
		output.Documents = append(output.Documents, doc)
	}
	return output
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(BuildOutput(result, r.opts)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
