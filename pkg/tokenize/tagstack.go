package tokenize

// openTag is a tag whose start has been scanned but not its end.
type openTag struct {
	name      string
	attrs     map[string]string
	termBegin int
	charBegin int
}

// closedTag is an openTag with its recorded end position.
type closedTag struct {
	openTag
	termEnd int
	charEnd int
}

// tagStack tracks open tags per name. Same-named tags close last-open,
// first-closed; tags of different names may overlap freely.
type tagStack struct {
	open map[string][]openTag
	// order records names in first-open order so forceCloseAll is deterministic.
	order []string
}

func newTagStack() *tagStack {
	return &tagStack{open: make(map[string][]openTag)}
}

func (s *tagStack) reset() {
	clear(s.open)
	s.order = s.order[:0]
}

// push always succeeds.
func (s *tagStack) push(name string, attrs map[string]string, termCount, bytePos int) {
	if _, seen := s.open[name]; !seen {
		s.order = append(s.order, name)
	}
	s.open[name] = append(s.open[name], openTag{
		name:      name,
		attrs:     attrs,
		termBegin: termCount,
		charBegin: bytePos,
	})
}

// pop closes the most recently opened tag called name. It reports false when
// no such tag is open.
func (s *tagStack) pop(name string, termCount, bytePos int) (closedTag, bool) {
	stack := s.open[name]
	if len(stack) == 0 {
		return closedTag{}, false
	}

	last := stack[len(stack)-1]
	s.open[name] = stack[:len(stack)-1]

	return closedTag{openTag: last, termEnd: termCount, charEnd: bytePos}, true
}

// forceCloseAll drains every stack, ending each tag at the given position.
// It is called exactly once, at end of document.
func (s *tagStack) forceCloseAll(termCount, bytePos int) []closedTag {
	var closed []closedTag
	for _, name := range s.order {
		for _, tag := range s.open[name] {
			closed = append(closed, closedTag{openTag: tag, termEnd: termCount, charEnd: bytePos})
		}
		s.open[name] = nil
	}
	return closed
}
