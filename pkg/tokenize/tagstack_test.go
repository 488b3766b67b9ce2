package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagStackSameNameIsLIFO(t *testing.T) {
	t.Parallel()

	s := newTagStack()
	s.push("div", nil, 0, 0)
	s.push("div", map[string]string{"id": "inner"}, 2, 10)

	inner, ok := s.pop("div", 3, 20)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.attrs["id"])
	assert.Equal(t, 2, inner.termBegin)
	assert.Equal(t, 3, inner.termEnd)
	assert.Equal(t, 10, inner.charBegin)
	assert.Equal(t, 20, inner.charEnd)

	outer, ok := s.pop("div", 5, 30)
	require.True(t, ok)
	assert.Equal(t, 0, outer.termBegin)
	assert.Equal(t, 5, outer.termEnd)

	_, ok = s.pop("div", 5, 30)
	assert.False(t, ok)
}

func TestTagStackUnmatchedPop(t *testing.T) {
	t.Parallel()

	s := newTagStack()
	s.push("a", nil, 0, 0)

	_, ok := s.pop("b", 1, 5)
	assert.False(t, ok)

	closed := s.forceCloseAll(1, 9)
	require.Len(t, closed, 1)
	assert.Equal(t, "a", closed[0].name)
}

func TestTagStackForceCloseAll(t *testing.T) {
	t.Parallel()

	s := newTagStack()
	s.push("b", nil, 0, 0)
	s.push("a", nil, 1, 3)
	s.push("b", nil, 2, 6)

	closed := s.forceCloseAll(4, 50)
	require.Len(t, closed, 3)

	names := []string{closed[0].name, closed[1].name, closed[2].name}
	assert.Equal(t, []string{"b", "b", "a"}, names)
	for _, ct := range closed {
		assert.Equal(t, 4, ct.termEnd)
		assert.Equal(t, 50, ct.charEnd)
	}

	assert.Empty(t, s.forceCloseAll(4, 50))

	s.reset()
	assert.Empty(t, s.order)
}
