// Package config defines the configuration types shared by the CLI, the
// loader and the runner. It holds plain data; loading and validation live in
// internal/configloader.
package config

// OutputFormat selects a reporter.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatTable   OutputFormat = "table"
	FormatSummary OutputFormat = "summary"
)

// Formats lists every output format in display order.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatTable, FormatSummary}
}

// Entity table names accepted by the entities key.
const (
	EntitiesBasic = "basic"
	EntitiesHTML5 = "html5"
)

// NormalizeConfig controls term normalization. Nil fields fall back to the
// defaults so a lower-precedence source can be switched off explicitly.
type NormalizeConfig struct {
	Lowercase        *bool `yaml:"lowercase,omitempty" json:"lowercase,omitempty"`
	StripApostrophes *bool `yaml:"strip_apostrophes,omitempty" json:"strip_apostrophes,omitempty"`
	FoldAccents      *bool `yaml:"fold_accents,omitempty" json:"fold_accents,omitempty"`
}

// PoolConfig controls the shared string pool.
type PoolConfig struct {
	Enabled   *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	MaxActive int   `yaml:"max_active,omitempty" json:"max_active,omitempty"`
}

// Config is the root configuration.
type Config struct {
	// Fields are the whitelist patterns for tags kept in the output.
	Fields []string `yaml:"fields" json:"fields"`

	// IgnoreTags name tags whose content is never tokenized.
	IgnoreTags []string `yaml:"ignore_tags" json:"ignore_tags"`

	// NoSplitTags name tags whose content is kept as one term.
	NoSplitTags []string `yaml:"no_split_tags,omitempty" json:"no_split_tags,omitempty"`

	// Entities is "basic" or "html5".
	Entities string `yaml:"entities" json:"entities"`

	Normalize NormalizeConfig `yaml:"normalize" json:"normalize"`

	// Stemmer is "none", "snowball" or "porter2".
	Stemmer string `yaml:"stemmer" json:"stemmer"`

	// StemLanguage selects the snowball language.
	StemLanguage string `yaml:"stem_language,omitempty" json:"stem_language,omitempty"`

	Pool PoolConfig `yaml:"pool" json:"pool"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`

	// Extensions are the file extensions picked up when walking directories.
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// CLI-level options (not persisted to config files).

	Format OutputFormat `yaml:"-" json:"-"`
	Jobs   int          `yaml:"-" json:"-"`
	Output string       `yaml:"-" json:"-"`
	Strict bool         `yaml:"-" json:"-"`
}

// DefaultMaxActive is the default string pool ceiling.
const DefaultMaxActive = 100_000

// NewConfig returns a Config with defaults filled in.
func NewConfig() *Config {
	return &Config{
		IgnoreTags: []string{"script", "style"},
		Entities:   EntitiesBasic,
		Normalize: NormalizeConfig{
			Lowercase:        Bool(false),
			StripApostrophes: Bool(true),
			FoldAccents:      Bool(false),
		},
		Stemmer: "none",
		Pool: PoolConfig{
			Enabled:   Bool(true),
			MaxActive: DefaultMaxActive,
		},
		Extensions: []string{".html", ".htm", ".xml", ".txt", ".md", ".markdown"},
		Format:     FormatText,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// BoolValue dereferences p, returning def when p is nil.
func BoolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// PoolEnabled reports whether the string pool is on.
func (c *Config) PoolEnabled() bool {
	return BoolValue(c.Pool.Enabled, true)
}
