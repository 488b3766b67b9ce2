package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtok/pkg/document"
)

func TestAddTermAndSpan(t *testing.T) {
	t.Parallel()

	doc := document.New("a", "hello world")
	assert.True(t, doc.IsEmpty())
	assert.NotNil(t, doc.Metadata)

	doc.AddTerm("hello", 0, 5)
	doc.AddTerm("world", 6, 11)

	require.Equal(t, 2, doc.Len())
	assert.Equal(t, document.Span{Begin: 6, End: 11}, doc.Span(1))
	assert.Equal(t, 5, doc.Span(0).Len())
	assert.False(t, doc.IsEmpty())
	require.NoError(t, doc.Validate())
}

func TestReset(t *testing.T) {
	t.Parallel()

	doc := document.New("a", "text")
	doc.ID = "id-1"
	doc.AddTerm("text", 0, 4)
	doc.Tags = []document.Tag{{Name: "p", End: 1}}

	doc.Reset()

	assert.True(t, doc.IsEmpty())
	assert.Equal(t, "text", doc.Text)
	assert.Equal(t, "id-1", doc.ID)
	require.NoError(t, doc.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     *document.Document
		wantErr error
	}{
		{
			name: "length mismatch",
			doc: &document.Document{
				Terms:         []string{"a", "b"},
				TermCharBegin: []int{0, 2},
				TermCharEnd:   []int{1},
			},
			wantErr: document.ErrLengthMismatch,
		},
		{
			name:    "inverted tag",
			doc:     &document.Document{Tags: []document.Tag{{Name: "p", Begin: 3, End: 1}}},
			wantErr: document.ErrTagOrder,
		},
		{
			name: "unsorted tags",
			doc: &document.Document{Tags: []document.Tag{
				{Name: "b", Begin: 2, End: 3},
				{Name: "a", Begin: 0, End: 1},
			}},
			wantErr: document.ErrTagOrder,
		},
		{
			name: "sorted tags",
			doc: &document.Document{Tags: []document.Tag{
				{Name: "a", Begin: 0, End: 1},
				{Name: "b", Begin: 0, End: 3},
				{Name: "c", Begin: 2, End: 2},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.doc.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSortTagsIsStable(t *testing.T) {
	t.Parallel()

	tags := []document.Tag{
		{Name: "second", Begin: 1, End: 2},
		{Name: "outer", Begin: 0, End: 4},
		{Name: "first", Begin: 1, End: 2},
		{Name: "inner", Begin: 0, End: 1},
	}
	document.SortTags(tags)

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"inner", "outer", "second", "first"}, names)
	assert.Equal(t, 4, tags[1].Len())
}

func TestTagAttr(t *testing.T) {
	t.Parallel()

	tag := document.Tag{Name: "a", Attributes: map[string]string{"href": "/x"}}

	v, ok := tag.Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/x", v)

	_, ok = document.Tag{Name: "b"}.Attr("href")
	assert.False(t, ok)
}
