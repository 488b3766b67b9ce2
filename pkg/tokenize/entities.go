package tokenize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// EntityTable selects which named character references are recognized.
type EntityTable string

const (
	// EntitiesBasic recognizes amp, lt, gt, quot, apos, nbsp and numeric references.
	EntitiesBasic EntityTable = "basic"

	// EntitiesHTML5 recognizes every HTML5 named reference and numeric references.
	EntitiesHTML5 EntityTable = "html5"
)

// maxEntityLen bounds the scan for a terminating ';' after '&'.
// The longest HTML5 name is 31 bytes ("CounterClockwiseContourIntegral").
const maxEntityLen = 32

//nolint:gochecknoglobals // Read-only lookup table.
var basicEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": "\"",
	"apos": "'",
	"nbsp": "\u00a0",
}

// ParseEntityTable validates a table name. The empty string means basic.
func ParseEntityTable(name string) (EntityTable, error) {
	switch EntityTable(name) {
	case "", EntitiesBasic:
		return EntitiesBasic, nil
	case EntitiesHTML5:
		return EntitiesHTML5, nil
	default:
		return "", fmt.Errorf("unknown entity table %q; must be one of: basic, html5", name)
	}
}

// Lookup resolves the reference between '&' and ';' (e.g. "amp", "#38",
// "#x26") to its literal text.
func (t EntityTable) Lookup(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}

	if ref[0] == '#' {
		return lookupNumeric(ref[1:])
	}

	if t == EntitiesHTML5 {
		raw := "&" + ref + ";"
		out := html.UnescapeString(raw)
		// A legacy prefix match ("&ampx;" -> "&x;") leaves the ';' behind.
		if out == raw || (out != ";" && strings.HasSuffix(out, ";")) {
			return "", false
		}
		return out, true
	}

	out, ok := basicEntities[ref]
	return out, ok
}

func lookupNumeric(digits string) (string, bool) {
	base := 10
	if digits != "" && (digits[0] == 'x' || digits[0] == 'X') {
		base = 16
		digits = digits[1:]
	}
	if digits == "" {
		return "", false
	}

	code, err := strconv.ParseUint(digits, base, 32)
	if err != nil || code == 0 {
		return "", false
	}

	r := rune(code)
	if !utf8.ValidRune(r) {
		return "", false
	}
	return string(r), true
}

// scanEntity looks for a reference starting at text[amp] == '&'.
// It returns the reference body and the index of the terminating ';'.
func scanEntity(text string, amp int) (string, int, bool) {
	limit := min(len(text), amp+1+maxEntityLen)
	for i := amp + 1; i < limit; i++ {
		c := text[i]
		switch {
		case c == ';':
			if i == amp+1 {
				return "", 0, false
			}
			return text[amp+1 : i], i, true
		case isASCIILetter(c), isDigit(c), c == '#':
			continue
		default:
			return "", 0, false
		}
	}
	return "", 0, false
}
