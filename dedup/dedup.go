// Package dedup tracks message content hashes so cross-posted articles are
// only counted once per analysis run.
package dedup

import "sync"

type Tracker struct {
	mu   sync.RWMutex
	seen map[string]string
}

func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]string)}
}

// Seen reports whether a content hash was already observed.
func (t *Tracker) Seen(hash string) bool {
	if hash == "" {
		return false
	}

	t.mu.RLock()
	_, ok := t.seen[hash]
	t.mu.RUnlock()
	return ok
}

// Mark records a content hash alongside the message id that produced it.
func (t *Tracker) Mark(hash, messageID string) {
	if hash == "" {
		return
	}

	t.mu.Lock()
	t.seen[hash] = messageID
	t.mu.Unlock()
}

// Count returns the number of distinct hashes observed.
func (t *Tracker) Count() int {
	t.mu.RLock()
	n := len(t.seen)
	t.mu.RUnlock()
	return n
}
