package tokenize

// splitTable classifies bytes that terminate the current token.
// Periods and apostrophes are deliberately absent: the normalizer handles them.
//
//nolint:gochecknoglobals // Read-only lookup table.
var splitTable = buildSplitTable()

func buildSplitTable() [256]bool {
	var table [256]bool

	// Control characters and space.
	for c := 0; c <= ' '; c++ {
		table[c] = true
	}

	for _, c := range []byte{
		';', '"', '&', '/', ':', '!', '#',
		'?', '$', '%', '(', ')', '@', '^',
		'*', '+', '-', ',', '=', '>', '<', '[',
		']', '{', '}', '|', '`', '~', '_',
	} {
		table[c] = true
	}

	return table
}

// IsSplit reports whether b terminates a token. Bytes of multi-byte UTF-8
// sequences are never split characters.
func IsSplit(b byte) bool {
	return splitTable[b]
}

// isSpace matches the whitespace that separates tag names from attributes.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
