package configloader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/tagtok/pkg/config"
	"github.com/yaklabco/tagtok/pkg/stem"
	"github.com/yaklabco/tagtok/pkg/tokenize"
)

// ValidationError is one configuration problem.
type ValidationError struct {
	// Field is the config key path, e.g. "fields[2]".
	Field string

	Value any

	Message string

	// FilePath is the config file the value came from, when known.
	FilePath string
}

// Error implements error.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult collects errors and warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg. Empty values are accepted so partial file layers
// validate on their own.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	for i, pattern := range cfg.Fields {
		if _, err := tokenize.NewWhitelist([]string{pattern}); err != nil {
			result.addError(fmt.Sprintf("fields[%d]", i), pattern, "%v", err)
		}
	}

	if _, err := tokenize.ParseEntityTable(cfg.Entities); err != nil {
		result.addError("entities", cfg.Entities, "%v", err)
	}

	if cfg.Stemmer != "" || cfg.StemLanguage != "" {
		name := cfg.Stemmer
		if name == "" {
			name = stem.NameSnowball
		}
		if _, err := stem.New(name, cfg.StemLanguage); err != nil {
			result.addError("stemmer", cfg.Stemmer, "%v", err)
		}
	}

	if cfg.Pool.MaxActive < 0 {
		result.addError("pool.max_active", cfg.Pool.MaxActive, "must be >= 0 (0 means default)")
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "must be >= 0 (0 means auto)")
	}

	if cfg.Format != "" && !IsValidFormat(cfg.Format) {
		result.addError("format", cfg.Format, "invalid format %q; must be one of: %s", cfg.Format, formatNames())
	}

	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.addWarning(fmt.Sprintf("extensions[%d]", i), ext, "extension %q has no leading dot and will never match", ext)
		}
	}

	for _, name := range cfg.NoSplitTags {
		if slices.ContainsFunc(cfg.IgnoreTags, func(ignored string) bool { return strings.EqualFold(ignored, name) }) {
			result.addWarning("no_split_tags", name, "tag %q is also ignored; its content will be skipped", name)
		}
	}

	return result
}

// ValidateWithFile validates cfg and stamps filePath on every finding.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidFormat reports whether f names a reporter.
func IsValidFormat(f config.OutputFormat) bool {
	return slices.Contains(config.Formats(), f)
}

func formatNames() string {
	names := make([]string, 0, len(config.Formats()))
	for _, f := range config.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
