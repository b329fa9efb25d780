package ledger

import (
	"sync"
	"time"
)

// IDGenerator hands out millisecond-timestamp ids that never repeat: when two
// calls land in the same millisecond (or the clock goes back) the previous
// id is bumped by one.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh id, strictly greater than every id seen so far.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe records ids that already exist, e.g. after loading a ledger.
func (g *IDGenerator) Observe(ids ...int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		if id > g.last {
			g.last = id
		}
	}
}
