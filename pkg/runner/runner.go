package runner

import (
	"context"
	"crypto/rand"
	"fmt"
	"runtime"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/yaklabco/tagtok/internal/logging"
	"github.com/yaklabco/tagtok/pkg/config"
	"github.com/yaklabco/tagtok/pkg/document"
	"github.com/yaklabco/tagtok/pkg/source"
	"github.com/yaklabco/tagtok/pkg/stem"
	"github.com/yaklabco/tagtok/pkg/strpool"
	"github.com/yaklabco/tagtok/pkg/tokenize"
)

// Runner reads, tokenizes, stems and interns documents. A Runner is safe for
// concurrent use: tokenizers are pooled and the string pool is shared.
type Runner struct {
	reader  *source.Reader
	stemmer stem.Stemmer

	// pool is nil when interning is disabled.
	pool *strpool.Pool

	tokOpts    tokenize.Options
	tokenizers sync.Pool

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// TokenizerOptions maps the tokenizer settings of cfg.
func TokenizerOptions(cfg *config.Config) tokenize.Options {
	defaults := tokenize.DefaultNormalizeOptions()
	return tokenize.Options{
		Fields:      cfg.Fields,
		IgnoreTags:  cfg.IgnoreTags,
		NoSplitTags: cfg.NoSplitTags,
		Entities:    tokenize.EntityTable(cfg.Entities),
		Normalize: tokenize.NormalizeOptions{
			Lowercase:        config.BoolValue(cfg.Normalize.Lowercase, defaults.Lowercase),
			StripApostrophes: config.BoolValue(cfg.Normalize.StripApostrophes, defaults.StripApostrophes),
			FoldAccents:      config.BoolValue(cfg.Normalize.FoldAccents, defaults.FoldAccents),
		},
	}
}

// Option customizes a Runner built by New.
type Option func(*Runner)

// WithStringPool makes the Runner intern into pool instead of building its
// own. It has no effect when interning is disabled in the config.
func WithStringPool(pool *strpool.Pool) Option {
	return func(r *Runner) {
		if r.pool != nil && pool != nil {
			r.pool = pool
		}
	}
}

// New builds a Runner from cfg. Field patterns, the entity table and the
// stemmer are validated here.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	tokOpts := TokenizerOptions(cfg)
	first, err := tokenize.New(tokOpts)
	if err != nil {
		return nil, fmt.Errorf("build tokenizer: %w", err)
	}

	stemmer, err := stem.New(cfg.Stemmer, cfg.StemLanguage)
	if err != nil {
		return nil, fmt.Errorf("build stemmer: %w", err)
	}

	r := &Runner{
		reader:  source.NewReader(),
		stemmer: stemmer,
		tokOpts: tokOpts,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	if cfg.PoolEnabled() {
		r.pool = strpool.New(cfg.Pool.MaxActive)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tokenizers.Put(first)

	return r, nil
}

// StringPool returns the shared pool, or nil when interning is off.
func (r *Runner) StringPool() *strpool.Pool {
	return r.pool
}

// Reader returns the document reader used for files.
func (r *Runner) Reader() *source.Reader {
	return r.reader
}

// Run discovers files under opts.Paths and processes them with opts.Jobs
// workers. Files appear in the result in discovery order regardless of
// completion order. A per-file failure is recorded in its FileOutcome and
// does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	logger.Debug("discovered files", logging.FieldFilesFound, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	if r.pool != nil {
		result.Stats.PoolEntries = r.pool.Len()
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldEmptyDocuments, result.Stats.EmptyDocuments,
		logging.FieldTerms, result.Stats.Terms,
		logging.FieldTags, result.Stats.Tags,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := FileOutcome{Path: path}
		doc, err := r.ProcessFile(ctx, path)
		if err != nil {
			outcome.Error = err
			logging.FromContext(ctx).Warn("skipping file",
				logging.FieldPath, path,
				logging.FieldError, err,
			)
		} else {
			outcome.Document = doc
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ProcessFile reads path and runs it through Process.
func (r *Runner) ProcessFile(ctx context.Context, path string) (*document.Document, error) {
	doc, err := r.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := r.Process(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Process tokenizes doc in place, then stems and interns its terms. A
// document without an ID is given a fresh ULID.
func (r *Runner) Process(ctx context.Context, doc *document.Document) error {
	tok, err := r.acquire()
	if err != nil {
		return err
	}
	defer r.tokenizers.Put(tok)

	if err := tok.Tokenize(ctx, doc); err != nil {
		return err
	}

	stem.Transform(r.stemmer, doc)
	if r.pool != nil {
		r.pool.Transform(doc.Terms)
	}
	if doc.ID == "" {
		doc.ID = r.newID()
	}

	logger := logging.FromContext(ctx)
	if doc.IsEmpty() {
		logger.Warn("document produced no terms or tags", logging.FieldDocument, doc.Name)
	}
	logger.Debug("tokenized document",
		logging.FieldDocument, doc.Name,
		logging.FieldTerms, len(doc.Terms),
		logging.FieldTags, len(doc.Tags),
	)

	return nil
}

func (r *Runner) acquire() (*tokenize.Tokenizer, error) {
	if tok, ok := r.tokenizers.Get().(*tokenize.Tokenizer); ok {
		return tok, nil
	}
	tok, err := tokenize.New(r.tokOpts)
	if err != nil {
		return nil, fmt.Errorf("build tokenizer: %w", err)
	}
	return tok, nil
}

func (r *Runner) newID() string {
	r.idMu.Lock()
	defer r.idMu.Unlock()
	return ulid.MustNew(ulid.Now(), r.entropy).String()
}
