package strpool

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReclaimedEntryIsAMiss(t *testing.T) {
	// Relies on the collector; not parallel.
	pool := New(0)
	term := strings.Repeat("reclaimable", 8)

	pool.Intern(term)
	assert.Equal(t, 1, pool.Len())

	h := pool.buckets
	reclaimed := false
	for range 10 {
		runtime.GC()
		live := false
		for _, bucket := range h {
			for _, e := range bucket {
				if _, ok := e.value(); ok {
					live = true
				}
			}
		}
		if !live {
			reclaimed = true
			break
		}
	}
	if !reclaimed {
		t.Skip("collector did not reclaim the entry")
	}

	again := pool.Intern(term)
	assert.Equal(t, term, again)
	assert.Equal(t, 1, pool.Len(), "dead slot should be reused")
	assert.Equal(t, uint64(2), pool.Stats().Misses)
}
