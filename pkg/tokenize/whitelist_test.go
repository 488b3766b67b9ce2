package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtok/pkg/document"
)

func TestWhitelistMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		matches []string
		misses  []string
	}{
		{"anchored regexp", "h[1-6]", []string{"h1", "h6"}, []string{"h10", "xh1", "h"}},
		{"plain name", "title", []string{"title"}, []string{"titles", "subtitle"}},
		{"regexp prefix", "re:t.*", []string{"t", "title", "td"}, []string{"p"}},
		{"glob", "glob:h?", []string{"h1", "hr"}, []string{"h", "h10"}},
		{"glob alternation", "glob:{p,li}", []string{"p", "li"}, []string{"ul"}},
		{"literal", "literal:a.b", []string{"a.b"}, []string{"axb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wl, err := NewWhitelist([]string{tt.pattern})
			require.NoError(t, err)
			for _, name := range tt.matches {
				assert.True(t, wl.Match(name), "expected %q to match %q", tt.pattern, name)
			}
			for _, name := range tt.misses {
				assert.False(t, wl.Match(name), "expected %q not to match %q", tt.pattern, name)
			}
		})
	}
}

func TestWhitelistInvalidPattern(t *testing.T) {
	t.Parallel()

	for _, pattern := range []string{"(", "re:["} {
		_, err := NewWhitelist([]string{"ok", pattern})
		require.ErrorIs(t, err, ErrInvalidPattern, pattern)
		assert.Contains(t, err.Error(), pattern)
	}

	assert.Panics(t, func() { MustWhitelist("(") })
}

func TestWhitelistNil(t *testing.T) {
	t.Parallel()

	var wl *Whitelist
	assert.False(t, wl.Match("p"))
	assert.Zero(t, wl.Len())
	assert.Nil(t, wl.Patterns())
}

func TestWhitelistPatternsAreCopied(t *testing.T) {
	t.Parallel()

	patterns := []string{"a", "b"}
	wl := MustWhitelist(patterns...)
	patterns[0] = "z"

	got := wl.Patterns()
	assert.Equal(t, []string{"a", "b"}, got)
	got[1] = "y"
	assert.Equal(t, []string{"a", "b"}, wl.Patterns())
}

func TestCoalesce(t *testing.T) {
	t.Parallel()

	closed := []closedTag{
		{openTag: openTag{name: "p", termBegin: 3, charBegin: 20}, termEnd: 5, charEnd: 40},
		{openTag: openTag{name: "span", termBegin: 0, charBegin: 0}, termEnd: 1, charEnd: 9},
		{openTag: openTag{name: "p", termBegin: 0, charBegin: 0}, termEnd: 3, charEnd: 19},
	}
	forced := []closedTag{
		{openTag: openTag{name: "p", termBegin: 0, charBegin: 0}, termEnd: 2, charEnd: 50},
	}

	t.Run("empty whitelist", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, coalesce(forced, closed, MustWhitelist()))
		assert.Nil(t, coalesce(forced, closed, nil))
	})

	t.Run("filters and sorts", func(t *testing.T) {
		t.Parallel()

		got := coalesce(forced, closed, MustWhitelist("p"))
		want := []document.Tag{
			{Name: "p", Begin: 0, End: 2, CharBegin: 0, CharEnd: 50},
			{Name: "p", Begin: 0, End: 3, CharBegin: 0, CharEnd: 19},
			{Name: "p", Begin: 3, End: 5, CharBegin: 20, CharEnd: 40},
		}
		assert.Equal(t, want, got)
	})
}
