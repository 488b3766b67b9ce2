// Package document defines the carrier types passed between producers,
// the tokenizer, and downstream consumers.
package document

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned by Validate when the term and span slices
// disagree in length.
var ErrLengthMismatch = errors.New("term and span lengths differ")

// ErrTagOrder is returned by Validate when tags are not sorted or a tag ends
// before it begins.
var ErrTagOrder = errors.New("tags out of order")

// Span is the byte range of a term in the original text.
type Span struct {
	// Begin is the byte offset where the term begins (inclusive).
	Begin int

	// End is the byte offset where the term ends (exclusive).
	End int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Begin
}

// Document holds raw text on input and terms, spans, and tags after
// tokenization.
type Document struct {
	// ID is an opaque identifier assigned by the producer or runner.
	ID string

	// Name identifies the document in logs (usually a file path).
	Name string

	// Text is the raw marked-up input.
	Text string

	// Terms is the ordered term sequence; the index is the token position.
	Terms []string

	// TermCharBegin holds the byte offset where each term begins.
	TermCharBegin []int

	// TermCharEnd holds the byte offset where each term ends (exclusive).
	TermCharEnd []int

	// Tags are the whitelisted structural tags sorted by (Begin, End).
	Tags []Tag

	// Metadata carries producer-supplied key/value pairs (e.g. "format").
	Metadata map[string]string
}

// New returns a document wrapping text.
func New(name, text string) *Document {
	return &Document{
		Name:     name,
		Text:     text,
		Metadata: make(map[string]string),
	}
}

// Len returns the number of terms.
func (d *Document) Len() int {
	return len(d.Terms)
}

// Span returns the byte span of term i.
func (d *Document) Span(i int) Span {
	return Span{Begin: d.TermCharBegin[i], End: d.TermCharEnd[i]}
}

// AddTerm appends a term and its span.
func (d *Document) AddTerm(term string, begin, end int) {
	d.Terms = append(d.Terms, term)
	d.TermCharBegin = append(d.TermCharBegin, begin)
	d.TermCharEnd = append(d.TermCharEnd, end)
}

// Reset clears all tokenization output while keeping Text and identity.
func (d *Document) Reset() {
	d.Terms = nil
	d.TermCharBegin = nil
	d.TermCharEnd = nil
	d.Tags = nil
}

// IsEmpty reports whether tokenization produced neither terms nor tags.
// An empty document is a valid outcome.
func (d *Document) IsEmpty() bool {
	return len(d.Terms) == 0 && len(d.Tags) == 0
}

// Validate checks the length invariant and tag ordering.
func (d *Document) Validate() error {
	if len(d.Terms) != len(d.TermCharBegin) || len(d.Terms) != len(d.TermCharEnd) {
		return fmt.Errorf("%w: terms=%d begin=%d end=%d",
			ErrLengthMismatch, len(d.Terms), len(d.TermCharBegin), len(d.TermCharEnd))
	}

	for i, tag := range d.Tags {
		if tag.Begin > tag.End {
			return fmt.Errorf("%w: tag %q begins at %d after end %d", ErrTagOrder, tag.Name, tag.Begin, tag.End)
		}
		if i > 0 && d.Tags[i].Less(d.Tags[i-1]) {
			return fmt.Errorf("%w: tag %d (%q) sorts before tag %d", ErrTagOrder, i, tag.Name, i-1)
		}
	}

	return nil
}
