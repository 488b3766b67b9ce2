package source

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Format is the markup flavour of a document's raw content.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatXML      Format = "xml"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

//nolint:gochecknoglobals // Read-only lookup table.
var extensionFormats = map[string]Format{
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".xhtml":    FormatHTML,
	".xml":      FormatXML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".txt":      FormatText,
	".text":     FormatText,
}

// DefaultExtensions are the file extensions the runner picks up.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".xml", ".txt", ".md", ".markdown"}
}

// ParseFormat accepts a format name; "md" is an alias for markdown.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(name) {
	case "html", "htm":
		return FormatHTML, true
	case "xml":
		return FormatXML, true
	case "markdown", "md":
		return FormatMarkdown, true
	case "text", "txt":
		return FormatText, true
	default:
		return "", false
	}
}

// Detect picks a format from the file name and, failing that, the content.
func Detect(name string, content []byte) Format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return DetectContent(content)
}

// DetectContent sniffs content without a file name. Markup prologs win;
// otherwise the go-enry classifier chooses among the supported formats.
func DetectContent(content []byte) Format {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return FormatText
	}

	lower := bytes.ToLower(trimmed[:min(len(trimmed), 512)])
	switch {
	case bytes.HasPrefix(lower, []byte("<?xml")):
		return FormatXML
	case bytes.HasPrefix(lower, []byte("<!doctype html")),
		bytes.Contains(lower, []byte("<html")),
		bytes.Contains(lower, []byte("<body")):
		return FormatHTML
	}

	candidates := []string{"HTML", "XML", "Markdown", "Text"}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe {
		if f, ok := ParseFormat(lang); ok {
			return f
		}
	}

	if trimmed[0] == '<' {
		return FormatHTML
	}
	return FormatText
}
