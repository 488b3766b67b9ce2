// Package stem provides the pluggable stemmers applied to terms after
// tokenization. Stemming rewrites term text only; spans and tags are kept.
package stem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
	"github.com/surgebase/porter2"

	"github.com/yaklabco/tagtok/pkg/document"
)

// Stemmer names.
const (
	NameNone     = "none"
	NameSnowball = "snowball"
	NamePorter2  = "porter2"
)

// DefaultLanguage is the snowball language used when none is configured.
const DefaultLanguage = "english"

// ErrUnknownStemmer is returned by New for unrecognized names.
var ErrUnknownStemmer = errors.New("unknown stemmer")

// Stemmer reduces a term to its stem.
type Stemmer interface {
	Name() string
	Stem(term string) string
}

// Names lists the accepted stemmer names.
func Names() []string {
	return []string{NameNone, NameSnowball, NamePorter2}
}

// Languages lists the languages the snowball stemmer accepts.
func Languages() []string {
	return []string{"english", "french", "hungarian", "norwegian", "russian", "spanish", "swedish"}
}

// New returns the stemmer called name. The empty name is "none". language
// only applies to snowball and defaults to english.
func New(name, language string) (Stemmer, error) {
	switch strings.ToLower(name) {
	case "", NameNone:
		return identity{}, nil
	case NamePorter2:
		return porter{}, nil
	case NameSnowball:
		if language == "" {
			language = DefaultLanguage
		}
		language = strings.ToLower(language)
		for _, known := range Languages() {
			if known == language {
				return snowballStemmer{language: language}, nil
			}
		}
		return nil, fmt.Errorf("%w: snowball language %q", ErrUnknownStemmer, language)
	default:
		return nil, fmt.Errorf("%w %q; must be one of: %s", ErrUnknownStemmer, name, strings.Join(Names(), ", "))
	}
}

// Transform stems every term of doc in place. A nil stemmer does nothing.
func Transform(s Stemmer, doc *document.Document) {
	if s == nil || doc == nil {
		return
	}
	if _, ok := s.(identity); ok {
		return
	}
	for i, term := range doc.Terms {
		doc.Terms[i] = s.Stem(term)
	}
}

type identity struct{}

func (identity) Name() string            { return NameNone }
func (identity) Stem(term string) string { return term }

type porter struct{}

func (porter) Name() string { return NamePorter2 }

// Stem leaves terms with upper case letters or non-letters alone; porter2
// assumes lower-case ASCII input.
func (porter) Stem(term string) string {
	for i := 0; i < len(term); i++ {
		if c := term[i]; c < 'a' || c > 'z' {
			if c != '\'' {
				return term
			}
		}
	}
	return porter2.Stem(term)
}

type snowballStemmer struct {
	language string
}

func (s snowballStemmer) Name() string { return NameSnowball }

// Stem returns term unchanged when snowball rejects it.
func (s snowballStemmer) Stem(term string) string {
	stemmed, err := snowball.Stem(term, s.language, true)
	if err != nil || stemmed == "" {
		return term
	}
	return stemmed
}
