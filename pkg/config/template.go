package config

// ProjectFileName is the file written by "tagtok init".
const ProjectFileName = ".tagtok.yml"

// Template returns a commented project configuration with the defaults.
func Template() []byte {
	return []byte(`# tagtok configuration

# Tags to keep in the output. Plain entries are anchored regular
# expressions; prefix with "glob:" or "literal:" for other syntaxes.
fields:
  - title
  - "h[1-6]"
  - p

# Tags whose content is skipped entirely.
ignore_tags: [script, style]

# Tags whose content is kept as a single term.
no_split_tags: []

# Named character references: basic or html5.
entities: basic

normalize:
  lowercase: false
  strip_apostrophes: true
  fold_accents: false

# none, snowball or porter2.
stemmer: none
stem_language: english

pool:
  enabled: true
  max_active: 100000

# Files to skip when walking directories.
ignore:
  - "node_modules/**"
  - "vendor/**"

extensions: [.html, .htm, .xml, .txt, .md, .markdown]
`)
}
