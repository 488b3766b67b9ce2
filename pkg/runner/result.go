package runner

import "github.com/yaklabco/tagtok/pkg/document"

// FileOutcome is the result for one input.
type FileOutcome struct {
	Path string

	// Document is nil when Error is set.
	Document *document.Document

	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int `json:"files_discovered" yaml:"files_discovered"`
	FilesProcessed  int `json:"files_processed" yaml:"files_processed"`
	FilesErrored    int `json:"files_errored" yaml:"files_errored"`

	// EmptyDocuments produced neither terms nor tags. They still count as
	// processed.
	EmptyDocuments int `json:"empty_documents" yaml:"empty_documents"`

	Terms int `json:"terms" yaml:"terms"`
	Tags  int `json:"tags" yaml:"tags"`

	// TagsByName counts output tags per tag name.
	TagsByName map[string]int `json:"tags_by_name" yaml:"tags_by_name"`

	// PoolEntries is the string pool size after the run; zero when the pool
	// is disabled.
	PoolEntries int `json:"pool_entries" yaml:"pool_entries"`
}

// Result is the outcome of Run, with Files in path order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasEmpty reports whether any processed document was empty.
func (r *Result) HasEmpty() bool {
	return r != nil && r.Stats.EmptyDocuments > 0
}

// Documents returns the successfully tokenized documents in order.
func (r *Result) Documents() []*document.Document {
	if r == nil {
		return nil
	}
	docs := make([]*document.Document, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Document != nil {
			docs = append(docs, f.Document)
		}
	}
	return docs
}

func newStats() Stats {
	return Stats{TagsByName: make(map[string]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Document == nil {
		return
	}

	r.Stats.add(outcome.Document)
}

func (s *Stats) add(doc *document.Document) {
	s.FilesProcessed++
	if doc.IsEmpty() {
		s.EmptyDocuments++
	}
	s.Terms += doc.Len()
	s.Tags += len(doc.Tags)
	for _, tag := range doc.Tags {
		s.TagsByName[tag.Name]++
	}
}

// NewResult aggregates outcomes produced outside Run, such as a document
// read from standard input.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{
		Files: make([]FileOutcome, 0, len(outcomes)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result
}
