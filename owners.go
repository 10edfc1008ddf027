// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import "sync"

// ownerLedger records which tags currently hold references, as a
// multiset: the same tag acquired twice is counted twice.
//
// The ledger is diagnostic only. The reference count owns correctness;
// the ledger may briefly disagree with it while concurrent operations
// are in flight, which is acceptable for its purpose.
type ownerLedger struct {
	mu   sync.Mutex
	tags map[string]int
}

func newOwnerLedger() *ownerLedger {
	return &ownerLedger{tags: make(map[string]int)}
}

func (l *ownerLedger) add(tag string) {
	l.mu.Lock()
	l.tags[tag]++
	l.mu.Unlock()
}

func (l *ownerLedger) remove(tag string) {
	l.mu.Lock()
	if n := l.tags[tag]; n > 1 {
		l.tags[tag] = n - 1
	} else {
		delete(l.tags, tag)
	}
	l.mu.Unlock()
}

// snapshot returns a copy of the current multiset.
func (l *ownerLedger) snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.tags))
	for tag, n := range l.tags {
		out[tag] = n
	}
	return out
}
