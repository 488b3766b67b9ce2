package tokenize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/tagtok/pkg/document"
)

// ErrInvalidPattern is returned when a whitelist pattern does not compile.
var ErrInvalidPattern = errors.New("invalid field pattern")

// Pattern prefixes selecting the match syntax. Unprefixed patterns are
// anchored regular expressions.
const (
	PrefixGlob    = "glob:"
	PrefixLiteral = "literal:"
	PrefixRegexp  = "re:"
)

type matcher interface {
	Match(name string) bool
}

type literalMatcher string

func (m literalMatcher) Match(name string) bool {
	return string(m) == name
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) Match(name string) bool {
	return m.re.MatchString(name)
}

type globMatcher struct {
	g glob.Glob
}

func (m globMatcher) Match(name string) bool {
	return m.g.Match(name)
}

// Whitelist decides which tag names reach the output. Patterns are tested in
// the order supplied and any match keeps the tag.
type Whitelist struct {
	patterns []string
	matchers []matcher
}

// NewWhitelist compiles patterns. Tag names are matched after lowercasing,
// so patterns should be written in lower case.
func NewWhitelist(patterns []string) (*Whitelist, error) {
	wl := &Whitelist{
		patterns: append([]string(nil), patterns...),
		matchers: make([]matcher, 0, len(patterns)),
	}

	for _, pattern := range patterns {
		m, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		wl.matchers = append(wl.matchers, m)
	}

	return wl, nil
}

// MustWhitelist is NewWhitelist for patterns known to be valid.
func MustWhitelist(patterns ...string) *Whitelist {
	wl, err := NewWhitelist(patterns)
	if err != nil {
		panic(err)
	}
	return wl
}

func compilePattern(pattern string) (matcher, error) {
	switch {
	case strings.HasPrefix(pattern, PrefixLiteral):
		return literalMatcher(strings.TrimPrefix(pattern, PrefixLiteral)), nil

	case strings.HasPrefix(pattern, PrefixGlob):
		g, err := glob.Compile(strings.TrimPrefix(pattern, PrefixGlob))
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		return globMatcher{g: g}, nil

	default:
		expr := strings.TrimPrefix(pattern, PrefixRegexp)
		re, err := regexp.Compile("^(?:" + expr + ")$")
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		return regexpMatcher{re: re}, nil
	}
}

// Patterns returns the source patterns in order.
func (w *Whitelist) Patterns() []string {
	if w == nil {
		return nil
	}
	return append([]string(nil), w.patterns...)
}

// Len returns the number of patterns.
func (w *Whitelist) Len() int {
	if w == nil {
		return 0
	}
	return len(w.matchers)
}

// Match reports whether name matches any pattern.
func (w *Whitelist) Match(name string) bool {
	if w == nil {
		return false
	}
	for _, m := range w.matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// coalesce filters closed and force-closed tags through the whitelist and
// returns them sorted by (Begin, End). An empty whitelist yields no tags.
func coalesce(forced, closed []closedTag, wl *Whitelist) []document.Tag {
	if wl.Len() == 0 {
		return nil
	}

	var tags []document.Tag
	for _, group := range [][]closedTag{forced, closed} {
		for _, ct := range group {
			if !wl.Match(ct.name) {
				continue
			}
			tags = append(tags, document.Tag{
				Name:       ct.name,
				Attributes: ct.attrs,
				Begin:      ct.termBegin,
				End:        ct.termEnd,
				CharBegin:  ct.charBegin,
				CharEnd:    ct.charEnd,
			})
		}
	}

	document.SortTags(tags)
	return tags
}
