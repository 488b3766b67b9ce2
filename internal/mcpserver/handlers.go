// Package mcpserver exposes the tokenizer as Model Context Protocol tools
// served over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yaklabco/tagtok/internal/logging"
	"github.com/yaklabco/tagtok/pkg/config"
	"github.com/yaklabco/tagtok/pkg/document"
	"github.com/yaklabco/tagtok/pkg/reporter"
	"github.com/yaklabco/tagtok/pkg/runner"
	"github.com/yaklabco/tagtok/pkg/source"
)

// Tool argument errors.
var (
	ErrEmptyText = errors.New("text is required")
	ErrEmptyPath = errors.New("path is required")
)

// TokenizeTextArgs are the arguments of the tokenize_text tool.
type TokenizeTextArgs struct {
	Text   string   `json:"text" jsonschema_description:"Marked-up text to tokenize (HTML, XML, Markdown or plain text)"`
	Fields []string `json:"fields,omitempty" jsonschema_description:"Tag name patterns to keep in the output, e.g. title or re:h[1-6] (default: configured fields)"`
	Name   string   `json:"name,omitempty" jsonschema_description:"Document name echoed in the result (default: text)"`
	Format string   `json:"format,omitempty" jsonschema_description:"Input format: html, xml, markdown or text (default: detected)"`
}

// TokenizeFileArgs are the arguments of the tokenize_file tool.
type TokenizeFileArgs struct {
	Path string `json:"path" jsonschema_description:"Path of a local file, relative to the server working directory"`
}

// maxFieldRunners caps the runners cached for client-supplied field sets.
const maxFieldRunners = 16

// Handlers implements the tool handlers. The configured fields use a fixed
// runner; other field sets get runners built lazily, cached up to
// maxFieldRunners, and sharing the default runner's string pool.
type Handlers struct {
	cfg     *config.Config
	workDir string
	logger  *log.Logger
	base    *runner.Runner

	mu      sync.Mutex
	runners map[string]*runner.Runner
}

// NewHandlers validates cfg and returns handlers resolving relative paths
// against workDir.
func NewHandlers(cfg *config.Config, workDir string, logger *log.Logger) (*Handlers, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = logging.Default()
	}

	base, err := runner.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Handlers{
		cfg:     cfg,
		workDir: workDir,
		logger:  logger,
		base:    base,
		runners: make(map[string]*runner.Runner),
	}, nil
}

func (h *Handlers) runnerFor(fields []string) (*runner.Runner, error) {
	if len(fields) == 0 {
		return h.base, nil
	}
	key := strings.Join(fields, "\x00")

	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.runners[key]; ok {
		return r, nil
	}

	cfg := h.cfg.Clone()
	cfg.Fields = fields

	r, err := runner.New(cfg, runner.WithStringPool(h.base.StringPool()))
	if err != nil {
		return nil, err
	}

	if len(h.runners) >= maxFieldRunners {
		for evict := range h.runners {
			delete(h.runners, evict)
			break
		}
	}
	h.runners[key] = r
	return r, nil
}

// cachedRunners reports how many field-set runners are cached.
func (h *Handlers) cachedRunners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.runners)
}

// TokenizeText handles the tokenize_text tool call.
func (h *Handlers) TokenizeText(
	ctx context.Context, _ *mcp.CallToolRequest, args TokenizeTextArgs,
) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Text) == "" {
		return nil, nil, ErrEmptyText
	}

	var format source.Format
	if args.Format != "" {
		f, ok := source.ParseFormat(args.Format)
		if !ok {
			return nil, nil, fmt.Errorf("unknown format %q", args.Format)
		}
		format = f
	}

	name := args.Name
	if name == "" {
		name = "text"
	}

	r, err := h.runnerFor(args.Fields)
	if err != nil {
		return nil, nil, err
	}

	doc, err := r.Reader().FromBytes(ctx, name, []byte(args.Text), format)
	if err != nil {
		return nil, nil, err
	}
	if err := r.Process(logging.WithLogger(ctx, h.logger), doc); err != nil {
		return nil, nil, err
	}

	h.logger.Debug("tokenize_text",
		logging.FieldDocument, name,
		logging.FieldTerms, doc.Len(),
		logging.FieldTags, len(doc.Tags),
	)
	return documentResult(doc)
}

// TokenizeFile handles the tokenize_file tool call.
func (h *Handlers) TokenizeFile(
	ctx context.Context, _ *mcp.CallToolRequest, args TokenizeFileArgs,
) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Path) == "" {
		return nil, nil, ErrEmptyPath
	}

	path := args.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.workDir, path)
	}

	r, err := h.runnerFor(nil)
	if err != nil {
		return nil, nil, err
	}

	doc, err := r.ProcessFile(logging.WithLogger(ctx, h.logger), path)
	if err != nil {
		h.logger.Warn("tokenize_file failed", logging.FieldPath, path, logging.FieldError, err)
		return nil, nil, err
	}
	doc.Name = args.Path

	h.logger.Debug("tokenize_file",
		logging.FieldPath, path,
		logging.FieldTerms, doc.Len(),
		logging.FieldTags, len(doc.Tags),
	)
	return documentResult(doc)
}

func documentResult(doc *document.Document) (*mcp.CallToolResult, any, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reporter.NewDocumentOutput(doc, false)); err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.TrimSuffix(buf.String(), "\n")}},
	}, nil, nil
}
