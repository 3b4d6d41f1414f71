// Package dedupe tracks submitted match ids so each match is rated once.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 100_000

// Deduper records seen match ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a rejected submission can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// matchDeduper keeps ids in a map. When bounded, a ring of insertion order
// evicts the oldest id once the ring is full.
type matchDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> ring slot, -1 when unbounded
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a deduper. A max size of zero or less is unbounded.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &matchDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *matchDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize <= 0 {
		d.seen[id] = -1
		return false
	}

	if len(d.ring) < d.maxSize {
		d.seen[id] = len(d.ring)
		d.ring = append(d.ring, id)
		return false
	}

	// The slot at next holds the oldest id. It may have been unrecorded and
	// recorded again elsewhere, in which case it is no longer live here.
	if slot, ok := d.seen[d.ring[d.next]]; ok && slot == d.next {
		delete(d.seen, d.ring[d.next])
	}
	d.ring[d.next] = id
	d.seen[id] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *matchDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

// Size returns the number of ids currently recorded.
func (d *matchDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
