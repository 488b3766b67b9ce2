package tokenize_test

import (
	"context"
	"testing"

	"github.com/yaklabco/tagtok/pkg/tokenize"
)

// FuzzTokenize checks that arbitrary input never panics and always yields a
// consistent document.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		"",
		"Hello, world!",
		"<title>Hi</title>",
		"<p class=\"x\">a &amp; b</p>",
		"<script>if (a < b) {}</script> after",
		"<pre>keep this together</pre>",
		"U.S.A. and ph.d. and e.g.",
		"<a href='x'>unterminated",
		"</p> stray end",
		"<!-- comment --> <![CDATA[ raw ]]> <?pi x?>",
		"&#x1F600; &#0; &bogus; &",
		"<br/><img src=a.png />",
		"<<<>>>",
		"café naïve",
		"\xff\xfe invalid utf8",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	opts := tokenize.DefaultOptions()
	opts.Fields = []string{".*"}
	opts.NoSplitTags = []string{"pre"}
	opts.Entities = tokenize.EntitiesHTML5

	f.Fuzz(func(t *testing.T, text string) {
		tok, err := tokenize.New(opts)
		if err != nil {
			t.Fatal(err)
		}

		doc, err := tok.TokenizeText(context.Background(), "fuzz", text)
		if err != nil {
			t.Fatal(err)
		}
		if err := doc.Validate(); err != nil {
			t.Fatalf("invalid document: %v", err)
		}

		prev := 0
		for i, term := range doc.Terms {
			if term == "" {
				t.Fatalf("term %d is empty", i)
			}
			span := doc.Span(i)
			if span.Begin < prev || span.Begin > span.End || span.End > len(text) {
				t.Fatalf("term %d %q has span [%d,%d) in text of %d bytes (previous begin %d)",
					i, term, span.Begin, span.End, len(text), prev)
			}
			prev = span.Begin
		}

		for _, tag := range doc.Tags {
			if tag.End > len(doc.Terms) {
				t.Fatalf("tag %q ends at term %d of %d", tag.Name, tag.End, len(doc.Terms))
			}
			if tag.CharBegin < 0 || tag.CharBegin > tag.CharEnd || tag.CharEnd > len(text) {
				t.Fatalf("tag %q has chars %d:%d in text of %d bytes", tag.Name, tag.CharBegin, tag.CharEnd, len(text))
			}
		}
	})
}
