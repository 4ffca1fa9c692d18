// Package syncutil holds concurrency primitives that sit below the cache
// and subscriber layers (§4.8): a spin-based reader-writer lock with writer
// preference and in-place reader→writer promotion.
package syncutil

import "sync/atomic"

// RWLock packs a pending-writer bit, an active-writer bit, and a reader
// count into a single 64-bit word, and arbitrates access with spin loops
// over compare-and-swap rather than syscalls (§4.8).
type RWLock struct {
	state atomic.Uint64
}

const (
	pendingWriterBit uint64 = 1 << 63
	activeWriterBit  uint64 = 1 << 62
	readerCountMask  uint64 = activeWriterBit - 1
)

// NewRWLock returns an unlocked RWLock.
func NewRWLock() *RWLock {
	return &RWLock{}
}

// AcquireReader spins until no writer is pending and none is active, then
// atomically increments the reader count.
func (l *RWLock) AcquireReader() {
	for {
		cur := l.state.Load()
		if cur&(pendingWriterBit|activeWriterBit) != 0 {
			continue
		}
		if l.state.CompareAndSwap(cur, cur+1) {
			return
		}
	}
}

// ReleaseReader decrements the reader count.
func (l *RWLock) ReleaseReader() {
	for {
		cur := l.state.Load()
		if l.state.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// AcquireWriter spins until no writer is pending or active and no readers
// hold the lock, then marks the writer active directly (the non-promoting
// entry point, used when the caller does not already hold a reader guard).
func (l *RWLock) AcquireWriter() {
	for {
		cur := l.state.Load()
		if cur&(pendingWriterBit|activeWriterBit) != 0 || cur&readerCountMask != 0 {
			continue
		}
		if l.state.CompareAndSwap(cur, activeWriterBit) {
			return
		}
	}
}

// ReleaseWriter clears the active-writer bit.
func (l *RWLock) ReleaseWriter() {
	l.state.Store(0)
}

// PromoteToWriter upgrades a held reader guard to the writer: it sets the
// pending bit first (blocking new readers so the pending writer cannot be
// starved by a stream of incoming ones), spins until this caller's reader
// is the only one left, then atomically swaps reader state for
// active-writer state. Calling this twice on the same reader guard without
// an intervening DemoteToReader is a caller error.
func (l *RWLock) PromoteToWriter() {
	for {
		cur := l.state.Load()
		if cur&pendingWriterBit != 0 {
			break
		}
		if l.state.CompareAndSwap(cur, cur|pendingWriterBit) {
			break
		}
	}

	for {
		cur := l.state.Load()
		if cur&readerCountMask != 1 {
			continue
		}
		if l.state.CompareAndSwap(cur, activeWriterBit) {
			return
		}
	}
}

// DemoteToReader is called on drop of a writer guard obtained via
// PromoteToWriter: it clears the active-writer and pending bits and
// restores a reader count of 1, returning the caller to holding a plain
// reader guard.
func (l *RWLock) DemoteToReader() {
	l.state.Store(1)
}
