package tokenize

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// emitFunc receives one finished term and its raw byte span.
type emitFunc func(term string, begin, end int)

// splitPeriods applies the period rules to a normalized run:
//
//   - leading and trailing periods are stripped, moving the span inward;
//   - a run without interior periods is emitted whole;
//   - a run whose odd (0-based) rune positions are all periods is an acronym
//     ("u.s.a"), emitted with the periods removed over the full span;
//   - anything else is split at each period and fragments of more than one
//     rune are emitted with their own spans.
func splitPeriods(r *run, emit emitFunc) {
	lo, hi := 0, len(r.buf)
	for lo < hi && r.buf[lo] == '.' {
		lo++
	}
	for hi > lo && r.buf[hi-1] == '.' {
		hi--
	}
	if lo == hi {
		return
	}

	token := r.buf[lo:hi]
	begin, end := r.begin(lo), r.begin(hi)

	if bytes.IndexByte(token, '.') < 0 {
		emit(string(token), begin, end)
		return
	}

	if isAcronym(token) {
		emit(strings.ReplaceAll(string(token), ".", ""), begin, end)
		return
	}

	start := 0
	for i := 0; i <= len(token); i++ {
		if i < len(token) && token[i] != '.' {
			continue
		}
		if utf8.RuneCount(token[start:i]) > 1 {
			emit(string(token[start:i]), r.begin(lo+start), r.begin(lo+i))
		}
		start = i + 1
	}
}

// isAcronym reports whether every rune at an odd position is a period.
// The check is structural only: "a.bc.d" fails it and is split instead.
func isAcronym(token []byte) bool {
	if len(token) == 0 {
		return false
	}
	pos := 0
	for i := 0; i < len(token); pos++ {
		r, size := utf8.DecodeRune(token[i:])
		if pos%2 == 1 && r != '.' {
			return false
		}
		i += size
	}
	return true
}
