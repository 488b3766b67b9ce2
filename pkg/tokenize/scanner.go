package tokenize

import (
	"strings"

	"github.com/yaklabco/tagtok/pkg/document"
)

// scanState is everything the scanning loop mutates for one document.
// It is owned by the Tokenizer and handed to each helper by pointer.
type scanState struct {
	text string
	doc  *document.Document
	pos  int

	// ignoreUntil names the tag whose end tag resumes scanning; empty when
	// content is being tokenized.
	ignoreUntil string

	// noSplit counts open tags that disabled splitting.
	noSplit int

	pending run
	tags    *tagStack
	closed  []closedTag
}

func (st *scanState) reset() {
	st.text = ""
	st.doc = nil
	st.pos = 0
	st.ignoreUntil = ""
	st.noSplit = 0
	st.pending.reset()
	st.tags.reset()
	st.closed = st.closed[:0]
}

func (st *scanState) ignoring() bool {
	return st.ignoreUntil != ""
}

func (st *scanState) splitting() bool {
	return st.noSplit == 0
}

func (st *scanState) termCount() int {
	return len(st.doc.Terms)
}

// scan is the main loop. Each helper leaves st.pos on the last byte it
// consumed; the loop advances past it.
func (t *Tokenizer) scan(st *scanState) {
	text := st.text
	for ; st.pos < len(text); st.pos++ {
		c := text[st.pos]

		switch {
		case c == '<':
			if st.ignoring() {
				t.scanIgnored(st)
				continue
			}
			if !startsMarkup(text, st.pos) {
				t.onSplitChar(st, c)
				continue
			}
			t.flush(st)
			t.parseMarkup(st)

		case st.ignoring():
			continue

		case c == '&':
			t.onAmpersand(st)

		case IsSplit(c):
			t.onSplitChar(st, c)

		default:
			st.pending.appendByte(c, st.pos)
		}
	}

	if !st.ignoring() {
		t.flush(st)
	}
}

// onSplitChar ends the pending run, or buffers c when splitting is disabled.
func (t *Tokenizer) onSplitChar(st *scanState, c byte) {
	if st.splitting() {
		t.flush(st)
		return
	}
	st.pending.appendByte(c, st.pos)
}

// flush normalizes the pending run and emits zero or more terms.
func (t *Tokenizer) flush(st *scanState) {
	if st.pending.empty() {
		return
	}
	splitPeriods(t.norm.apply(&st.pending), st.doc.AddTerm)
	st.pending.reset()
}

// onAmpersand substitutes a known character reference into the pending run
// as text, whitespace included. An unknown reference leaves '&' to be handled
// as a split character.
func (t *Tokenizer) onAmpersand(st *scanState) {
	ref, semi, ok := scanEntity(st.text, st.pos)
	if ok {
		if lit, found := t.entities.Lookup(ref); found {
			st.pending.appendText(lit, st.pos, semi+1)
			st.pos = semi
			return
		}
	}
	t.onSplitChar(st, '&')
}

// startsMarkup reports whether the '<' at pos opens a tag, end tag, comment,
// declaration or processing instruction. A '<' followed by anything else
// (space, digit, end of text) is an ordinary split character.
func startsMarkup(text string, pos int) bool {
	if pos+1 >= len(text) {
		return false
	}
	switch next := text[pos+1]; {
	case isASCIILetter(next), next == '!', next == '?':
		return true
	case next == '/':
		return pos+2 < len(text) && isASCIILetter(text[pos+2])
	default:
		return false
	}
}

func (t *Tokenizer) parseMarkup(st *scanState) {
	switch st.text[st.pos+1] {
	case '/':
		t.parseEndTag(st)
	case '!':
		t.skipDeclaration(st)
	case '?':
		t.skipUntil(st, "?>")
	default:
		t.parseBeginTag(st)
	}
}

// scanIgnored handles '<' inside an ignore region: only the end tag that
// opened the region is recognized, and it closes that tag.
func (t *Tokenizer) scanIgnored(st *scanState) {
	text := st.text
	start := st.pos
	if !strings.HasPrefix(text[start:], "</") {
		return
	}
	name, nameEnd := readTagName(text, start+2)
	if name != st.ignoreUntil {
		return
	}
	st.ignoreUntil = ""
	st.pos = indexFrom(text, nameEnd, '>')

	if ct, ok := st.tags.pop(name, st.termCount(), start); ok {
		st.closed = append(st.closed, ct)
	}
}

// parseBeginTag reads a start tag and its attributes, then applies the
// configured action for the tag name.
func (t *Tokenizer) parseBeginTag(st *scanState) {
	text := st.text
	start := st.pos

	name, nameEnd := readTagName(text, start+1)

	end, selfClosing, attrs := parseAttributes(text, nameEnd, t.whitelist.Match(name))
	st.pos = end

	switch t.actionFor(name) {
	case actionIgnore:
		if !selfClosing {
			st.ignoreUntil = name
		}
	case actionNoSplit:
		if !selfClosing {
			st.noSplit++
		}
	case actionRecord:
	}

	st.tags.push(name, attrs, st.termCount(), start)
	if selfClosing {
		if ct, ok := st.tags.pop(name, st.termCount(), min(end+1, len(text))); ok {
			st.closed = append(st.closed, ct)
		}
	}
}

// parseEndTag closes the most recent open tag with the same name. End tags
// with no matching open tag are dropped.
func (t *Tokenizer) parseEndTag(st *scanState) {
	text := st.text
	start := st.pos

	name, nameEnd := readTagName(text, start+2)
	st.pos = indexFrom(text, nameEnd, '>')

	ct, ok := st.tags.pop(name, st.termCount(), start)
	if !ok {
		return
	}
	st.closed = append(st.closed, ct)

	if t.actionFor(name) == actionNoSplit && st.noSplit > 0 {
		st.noSplit--
	}
}

// skipDeclaration skips comments, CDATA sections and <!...> declarations.
func (t *Tokenizer) skipDeclaration(st *scanState) {
	rest := st.text[st.pos:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		st.pos += len("<!--") - 1
		t.skipUntil(st, "-->")
	case strings.HasPrefix(rest, "<![CDATA["):
		st.pos += len("<![CDATA[") - 1
		t.skipUntil(st, "]]>")
	default:
		st.pos = indexFrom(st.text, st.pos+1, '>')
	}
}

// skipUntil moves st.pos to the last byte of the next occurrence of marker
// after st.pos, or to the end of text when there is none.
func (t *Tokenizer) skipUntil(st *scanState, marker string) {
	i := strings.Index(st.text[st.pos+1:], marker)
	if i < 0 {
		st.pos = len(st.text) - 1
		return
	}
	st.pos += 1 + i + len(marker) - 1
}

// readTagName reads a tag name starting at from and returns it lowercased
// together with the index just past it.
func readTagName(text string, from int) (string, int) {
	i := from
	for i < len(text) {
		c := text[i]
		if isSpace(c) || c == '>' || isSelfClose(text, i) {
			break
		}
		i++
	}
	return strings.ToLower(text[from:i]), i
}

// parseAttributes reads key=value pairs from i up to the closing '>'. Values
// may be double-quoted, single-quoted or bare; keys without a value are
// skipped. When keep is set, pairs are returned with lowercased keys. It
// returns the index of the closing '>' (the last byte of text when the tag
// is unterminated) and whether the tag ended with "/>".
func parseAttributes(text string, i int, keep bool) (int, bool, map[string]string) {
	var attrs map[string]string
	for {
		i = skipSpace(text, i)
		if i >= len(text) {
			return len(text) - 1, false, attrs
		}

		switch c := text[i]; {
		case c == '>':
			return i, false, attrs
		case isSelfClose(text, i):
			return i + 1, true, attrs
		case c == '/':
			i++
			continue
		}

		keyStart := i
		for i < len(text) && !isSpace(text[i]) && text[i] != '=' && text[i] != '>' && !isSelfClose(text, i) {
			i++
		}
		key := text[keyStart:i]

		i = skipSpace(text, i)
		if i >= len(text) || text[i] != '=' {
			continue
		}
		i = skipSpace(text, i+1)

		var value string
		value, i = readAttrValue(text, i)

		if keep && key != "" {
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[strings.ToLower(key)] = value
		}
	}
}

func isSelfClose(text string, i int) bool {
	return text[i] == '/' && i+1 < len(text) && text[i+1] == '>'
}

func readAttrValue(text string, i int) (string, int) {
	if i >= len(text) {
		return "", i
	}

	if q := text[i]; q == '"' || q == '\'' {
		closing := strings.IndexByte(text[i+1:], q)
		if closing < 0 {
			return text[i+1:], len(text)
		}
		return text[i+1 : i+1+closing], i + 1 + closing + 1
	}

	start := i
	for i < len(text) && !isSpace(text[i]) && text[i] != '>' {
		i++
	}
	return text[start:i], i
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

// indexFrom returns the index of the first c at or after from, or the last
// byte of text when c does not occur.
func indexFrom(text string, from int, c byte) int {
	if from >= len(text) {
		return len(text) - 1
	}
	if i := strings.IndexByte(text[from:], c); i >= 0 {
		return from + i
	}
	return len(text) - 1
}
