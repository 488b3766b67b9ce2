package document

import (
	"cmp"
	"slices"
)

// Tag is a whitelisted markup span.
//
// Begin and End are term indices: the tag covers terms [Begin, End).
// CharBegin and CharEnd are byte offsets into the raw text: CharBegin is the
// offset of the opening '<' and CharEnd the offset of the closing tag's '<'.
// A self-closing tag ends just past its '>', and a tag still open at end of
// document ends at len(Text). Term indices are authoritative for ordering.
type Tag struct {
	Name       string
	Attributes map[string]string
	Begin      int
	End        int
	CharBegin  int
	CharEnd    int
}

// Len returns the number of terms covered by the tag.
func (t Tag) Len() int {
	return t.End - t.Begin
}

// Compare orders tags by Begin, then End.
func (t Tag) Compare(other Tag) int {
	if c := cmp.Compare(t.Begin, other.Begin); c != 0 {
		return c
	}
	return cmp.Compare(t.End, other.End)
}

// Less reports whether t sorts before other.
func (t Tag) Less(other Tag) bool {
	return t.Compare(other) < 0
}

// Attr returns the attribute value for key.
func (t Tag) Attr(key string) (string, bool) {
	v, ok := t.Attributes[key]
	return v, ok
}

// SortTags sorts tags in place by (Begin, End). The sort is stable so tags
// with identical spans keep their production order.
func SortTags(tags []Tag) {
	slices.SortStableFunc(tags, Tag.Compare)
}
