// Package tokenize converts marked-up text into normalized terms with byte
// spans and whitelisted structural tags with term spans.
//
// A Tokenizer scans each document once, left to right. It is reusable across
// documents but not safe for concurrent use; run one Tokenizer per worker.
package tokenize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/tagtok/internal/logging"
	"github.com/yaklabco/tagtok/pkg/document"
)

// ErrNilDocument is returned when Tokenize is called without a document.
var ErrNilDocument = errors.New("nil document")

// DefaultIgnoreTags are tags whose content is skipped verbatim.
func DefaultIgnoreTags() []string {
	return []string{"script", "style"}
}

// Options configures a Tokenizer.
type Options struct {
	// Fields are the whitelist patterns for tags kept in the output.
	Fields []string

	// IgnoreTags name tags whose content is never tokenized.
	IgnoreTags []string

	// NoSplitTags name tags whose content is buffered as one run: split
	// characters inside do not end a term.
	NoSplitTags []string

	// Entities selects the named character reference table.
	Entities EntityTable

	// Normalize controls per-rune term normalization.
	Normalize NormalizeOptions
}

// DefaultOptions returns options with no fields, the default ignore tags,
// the basic entity table and default normalization.
func DefaultOptions() Options {
	return Options{
		IgnoreTags: DefaultIgnoreTags(),
		Entities:   EntitiesBasic,
		Normalize:  DefaultNormalizeOptions(),
	}
}

// tagAction is what the scanner does when it opens a tag.
type tagAction uint8

const (
	// actionRecord pushes the tag on the stack.
	actionRecord tagAction = iota

	// actionIgnore skips content until the matching end tag.
	actionIgnore

	// actionNoSplit pushes the tag and disables splitting until it closes.
	actionNoSplit
)

// Tokenizer is a single-pass tag-aware tokenizer.
type Tokenizer struct {
	whitelist *Whitelist
	entities  EntityTable
	actions   map[string]tagAction
	norm      *normalizer
	state     scanState
}

// New builds a Tokenizer. Invalid field patterns and unknown entity tables
// are reported here rather than per document.
func New(opts Options) (*Tokenizer, error) {
	whitelist, err := NewWhitelist(opts.Fields)
	if err != nil {
		return nil, err
	}

	entities, err := ParseEntityTable(string(opts.Entities))
	if err != nil {
		return nil, err
	}

	actions := make(map[string]tagAction, len(opts.IgnoreTags)+len(opts.NoSplitTags))
	for _, name := range opts.NoSplitTags {
		actions[strings.ToLower(name)] = actionNoSplit
	}
	for _, name := range opts.IgnoreTags {
		actions[strings.ToLower(name)] = actionIgnore
	}

	t := &Tokenizer{
		whitelist: whitelist,
		entities:  entities,
		actions:   actions,
		norm:      newNormalizer(opts.Normalize),
	}
	t.state.tags = newTagStack()
	return t, nil
}

// Whitelist returns the compiled field whitelist.
func (t *Tokenizer) Whitelist() *Whitelist {
	return t.whitelist
}

// Reset clears all scan state. Tokenize calls it before every document.
func (t *Tokenizer) Reset() {
	t.state.reset()
}

// Tokenize fills doc.Terms, doc.TermCharBegin, doc.TermCharEnd and doc.Tags
// from doc.Text, replacing any previous output.
//
// Malformed markup never fails tokenization. If scanning panics part way
// through, the terms and tags gathered so far are kept, a warning naming the
// document is logged, and Tokenize returns nil.
func (t *Tokenizer) Tokenize(ctx context.Context, doc *document.Document) error {
	if doc == nil {
		return ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("tokenize %s: %w", doc.Name, err)
	}

	t.Reset()
	doc.Reset()

	st := &t.state
	st.text = doc.Text
	st.doc = doc

	t.scanRecovering(ctx, st)

	forced := st.tags.forceCloseAll(len(doc.Terms), len(st.text))
	doc.Tags = coalesce(forced, st.closed, t.whitelist)

	st.text = ""
	st.doc = nil

	return nil
}

// TokenizeText wraps text in a new document and tokenizes it.
func (t *Tokenizer) TokenizeText(ctx context.Context, name, text string) (*document.Document, error) {
	doc := document.New(name, text)
	if err := t.Tokenize(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (t *Tokenizer) scanRecovering(ctx context.Context, st *scanState) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Warn("parse failure; keeping partial output",
				logging.FieldDocument, st.doc.Name,
				logging.FieldPosition, st.pos,
				logging.FieldTerms, len(st.doc.Terms),
				logging.FieldError, r,
			)
		}
	}()

	t.scan(st)
}

func (t *Tokenizer) actionFor(name string) tagAction {
	return t.actions[name]
}
