// Package strpool interns strings so repeated terms share one backing array.
//
// Entries are held through weak pointers: the garbage collector may reclaim
// an entry whenever no term still refers to it, and a reclaimed entry is
// treated as a miss. Independently of the collector, the whole table is
// dropped once it grows past a ceiling.
package strpool

import (
	"hash/maphash"
	"strings"
	"sync"
	"unsafe"
	"weak"
)

// DefaultMaxActive is the entry count above which a Pool clears itself.
const DefaultMaxActive = 100_000

type entry struct {
	ptr weak.Pointer[byte]
	n   int
}

func (e entry) value() (string, bool) {
	p := e.ptr.Value()
	if p == nil {
		return "", false
	}
	return unsafe.String(p, e.n), true
}

// Pool is a bounded, weakly held intern table. It is safe for concurrent use.
//
// The table is keyed by content hash rather than by the string itself; a
// string key would hold the interned bytes strongly.
type Pool struct {
	mu        sync.Mutex
	seed      maphash.Seed
	buckets   map[uint64][]entry
	size      int
	maxActive int

	hits, misses, clears uint64
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Entries int    `json:"entries" yaml:"entries"`
	Hits    uint64 `json:"hits" yaml:"hits"`
	Misses  uint64 `json:"misses" yaml:"misses"`
	Clears  uint64 `json:"clears" yaml:"clears"`
}

// New returns a pool that clears itself when it holds more than maxActive
// entries. A maxActive of zero or less selects DefaultMaxActive.
func New(maxActive int) *Pool {
	if maxActive <= 0 {
		maxActive = DefaultMaxActive
	}
	return &Pool{
		seed:      maphash.MakeSeed(),
		buckets:   make(map[uint64][]entry),
		maxActive: maxActive,
	}
}

// MaxActive returns the ceiling.
func (p *Pool) MaxActive() int {
	return p.maxActive
}

// Intern returns a string equal to s. While the previous result for the same
// content is still reachable, the same backing array is returned.
// The empty string is returned as is.
func (p *Pool) Intern(s string) string {
	if s == "" {
		return s
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.checkCeiling()
	return p.intern(s)
}

// Transform interns every element of terms in place. The ceiling is checked
// once, before the batch.
func (p *Pool) Transform(terms []string) {
	if len(terms) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.checkCeiling()
	for i, term := range terms {
		if term != "" {
			terms[i] = p.intern(term)
		}
	}
}

// Len returns the number of entries, including reclaimed ones not yet
// replaced.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// Clear drops every entry.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

// Stats returns the current counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Entries: p.size,
		Hits:    p.hits,
		Misses:  p.misses,
		Clears:  p.clears,
	}
}

func (p *Pool) checkCeiling() {
	if p.size > p.maxActive {
		p.clearLocked()
	}
}

func (p *Pool) clearLocked() {
	clear(p.buckets)
	p.size = 0
	p.clears++
}

func (p *Pool) intern(s string) string {
	h := maphash.String(p.seed, s)
	bucket := p.buckets[h]

	dead := -1
	for i, e := range bucket {
		v, live := e.value()
		if !live {
			dead = i
			continue
		}
		if v == s {
			p.hits++
			return v
		}
	}
	p.misses++

	// The clone owns its bytes, so the weak pointer tracks a whole
	// allocation rather than a slice of some larger document.
	c := strings.Clone(s)
	e := entry{ptr: weak.Make(unsafe.StringData(c)), n: len(c)}
	if dead >= 0 {
		bucket[dead] = e
	} else {
		bucket = append(bucket, e)
		p.size++
	}
	p.buckets[h] = bucket
	return c
}
