package tokenize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSplit(t *testing.T) {
	t.Parallel()

	for _, c := range []byte(" \t\n\r;\"&/:!#?$%()@^*+-,=><[]{}|`~_") {
		assert.True(t, IsSplit(c), "expected %q to split", c)
	}
	for _, c := range []byte("aZ09.'") {
		assert.False(t, IsSplit(c), "expected %q not to split", c)
	}
	for c := 0x80; c <= 0xff; c++ {
		assert.False(t, IsSplit(byte(c)), "byte %#x", c)
	}
	assert.True(t, IsSplit(0))
}

func TestLookupEntity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		table  EntityTable
		ref    string
		want   string
		wantOK bool
	}{
		{"basic amp", EntitiesBasic, "amp", "&", true},
		{"basic nbsp", EntitiesBasic, "nbsp", "\u00a0", true},
		{"basic lacks eacute", EntitiesBasic, "eacute", "", false},
		{"html5 eacute", EntitiesHTML5, "eacute", "é", true},
		{"html5 semi", EntitiesHTML5, "semi", ";", true},
		{"html5 rejects prefix match", EntitiesHTML5, "ampx", "", false},
		{"html5 unknown", EntitiesHTML5, "bogus", "", false},
		{"decimal", EntitiesBasic, "#38", "&", true},
		{"hex", EntitiesBasic, "#x26", "&", true},
		{"hex upper", EntitiesBasic, "#X26", "&", true},
		{"zero", EntitiesBasic, "#0", "", false},
		{"bad hex", EntitiesBasic, "#xZZ", "", false},
		{"surrogate", EntitiesBasic, "#xD800", "", false},
		{"out of range", EntitiesBasic, "#1114112", "", false},
		{"empty numeric", EntitiesBasic, "#", "", false},
		{"empty", EntitiesBasic, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.table.Lookup(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntityTable(t *testing.T) {
	t.Parallel()

	table, err := ParseEntityTable("")
	assert.NoError(t, err)
	assert.Equal(t, EntitiesBasic, table)

	table, err = ParseEntityTable("html5")
	assert.NoError(t, err)
	assert.Equal(t, EntitiesHTML5, table)

	_, err = ParseEntityTable("xhtml")
	assert.Error(t, err)
}

func TestScanEntity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		wantRef  string
		wantSemi int
		wantOK   bool
	}{
		{"&amp;", "amp", 4, true},
		{"x&#38;y", "#38", 5, true},
		{"&;", "", 0, false},
		{"&amp", "", 0, false},
		{"& amp;", "", 0, false},
		{"&" + strings.Repeat("a", 40) + ";", "", 0, false},
	}

	for _, tt := range tests {
		amp := 0
		for tt.text[amp] != '&' {
			amp++
		}
		ref, semi, ok := scanEntity(tt.text, amp)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.wantRef, ref, tt.text)
		assert.Equal(t, tt.wantSemi, semi, tt.text)
	}
}
