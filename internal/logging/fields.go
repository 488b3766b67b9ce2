// Package logging wraps charmbracelet/log with a process default logger,
// context propagation and shared field names.
package logging

// Field names for structured log pairs.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldOutput = "output"
	FieldFormat = "format"
	FieldConfig = "config"

	// Tokenization.
	FieldDocument = "document"
	FieldPosition = "position"
	FieldTerms    = "terms"
	FieldTags     = "tags"
	FieldFields   = "fields"
	FieldStemmer  = "stemmer"

	// Runner.
	FieldJobs           = "jobs"
	FieldFilesFound     = "files_found"
	FieldFilesProcessed = "files_processed"
	FieldEmptyDocuments = "empty_documents"
	FieldPoolSize       = "pool_size"

	// Version.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
