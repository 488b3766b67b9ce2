package tokenize

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeOptions controls the per-rune text normalization applied to each
// buffered run before period handling.
type NormalizeOptions struct {
	// Lowercase folds letters to lower case.
	Lowercase bool `yaml:"lowercase" json:"lowercase"`

	// StripApostrophes removes ' from terms ("don't" becomes "dont").
	StripApostrophes bool `yaml:"strip_apostrophes" json:"strip_apostrophes"`

	// FoldAccents removes combining marks ("café" becomes "cafe").
	FoldAccents bool `yaml:"fold_accents" json:"fold_accents"`
}

// DefaultNormalizeOptions keeps case and strips apostrophes.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		Lowercase:        false,
		StripApostrophes: true,
		FoldAccents:      false,
	}
}

// run is the pending token buffer. offs[i] is the raw byte offset that
// produced buf[i]; end is the raw offset just past the last consumed byte.
type run struct {
	buf  []byte
	offs []int
	end  int
}

func (r *run) reset() {
	r.buf = r.buf[:0]
	r.offs = r.offs[:0]
	r.end = 0
}

func (r *run) empty() bool {
	return len(r.buf) == 0
}

// appendByte buffers one raw byte found at pos.
func (r *run) appendByte(b byte, pos int) {
	r.buf = append(r.buf, b)
	r.offs = append(r.offs, pos)
	r.end = pos + 1
}

// appendText buffers substituted text that replaced raw bytes [pos, end).
func (r *run) appendText(s string, pos, end int) {
	for i := 0; i < len(s); i++ {
		r.buf = append(r.buf, s[i])
		r.offs = append(r.offs, pos)
	}
	r.end = end
}

// begin returns the raw offset of buffer index i; indices at or past the end
// map to the run's end.
func (r *run) begin(i int) int {
	if i < len(r.offs) {
		return r.offs[i]
	}
	return r.end
}

// normalizer rewrites a run rune by rune, keeping each output byte mapped to
// the raw offset of the rune that produced it. It is not safe for concurrent use.
type normalizer struct {
	opts NormalizeOptions
	fold transform.Transformer
	out  run
}

func newNormalizer(opts NormalizeOptions) *normalizer {
	n := &normalizer{opts: opts}
	if opts.FoldAccents {
		n.fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}
	return n
}

// apply returns the normalized copy of in. The returned run is owned by the
// normalizer and is overwritten by the next call.
func (n *normalizer) apply(in *run) *run {
	out := &n.out
	out.reset()
	out.end = in.end

	for i := 0; i < len(in.buf); {
		r, size := utf8.DecodeRune(in.buf[i:])
		pos := in.offs[i]

		if r == utf8.RuneError && size <= 1 {
			// Invalid UTF-8 passes through byte for byte.
			out.buf = append(out.buf, in.buf[i])
			out.offs = append(out.offs, pos)
			i++
			continue
		}
		i += size

		if r == '\'' && n.opts.StripApostrophes {
			continue
		}
		if n.opts.Lowercase {
			r = unicode.ToLower(r)
		}

		if n.fold != nil && r >= utf8.RuneSelf {
			folded, _, err := transform.String(n.fold, string(r))
			if err == nil {
				for j := 0; j < len(folded); j++ {
					out.buf = append(out.buf, folded[j])
					out.offs = append(out.offs, pos)
				}
				continue
			}
		}

		start := len(out.buf)
		out.buf = utf8.AppendRune(out.buf, r)
		for range len(out.buf) - start {
			out.offs = append(out.offs, pos)
		}
	}

	return out
}
