package bridge

import "sync"

// BufferSize is the default channel buffer capacity in bytes, shared by
// all channels allocated by the bridge.
const BufferSize = 2560

// Buffer is a fixed-capacity byte accumulator for one direction of one
// serial interface. The guard is only ever taken with TryLock: when a
// concurrent operation holds it, the caller moves zero bytes and retries
// on its next scheduling pass.
//
// Invariant: data[0:length] holds exactly the accepted bytes in arrival
// order, and length never leaves [0, capacity]. Both are mutated only
// while the guard is held.
type Buffer struct {
	guard  sync.Mutex
	data   []byte
	length int
}

// NewBuffer returns a buffer with the given fixed capacity. The storage
// is allocated once and reused for the buffer's lifetime.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Len returns the number of pending bytes. It takes the guard and is
// intended for tests and diagnostics, not the pumping paths.
func (b *Buffer) Len() int {
	b.guard.Lock()
	defer b.guard.Unlock()
	return b.length
}

// TryFill appends bytes produced by fill to the buffer.
//
// The producer callback receives the writable tail slice, sized
// min(limit, remaining capacity), and returns the number of bytes it
// actually wrote there; the length advances by that count. The callback
// writes directly into the buffer's storage, so a transport read lands in
// place with no intermediate copy. A full buffer yields an empty slice:
// bytes beyond remaining capacity are never requested from the source.
//
// Returns the number of bytes appended and whether the guard was
// acquired. ok == false means a concurrent operation held the guard and
// nothing was appended.
func (b *Buffer) TryFill(limit int, fill func(dst []byte) int) (int, bool) {
	if !b.guard.TryLock() {
		return 0, false
	}
	defer b.guard.Unlock()

	free := len(b.data) - b.length
	if limit > free {
		limit = free
	}
	if limit <= 0 {
		return 0, true
	}

	n := fill(b.data[b.length : b.length+limit])
	if n < 0 {
		n = 0
	} else if n > limit {
		n = limit
	}
	b.length += n
	return n, true
}

// TryDrain hands pending bytes to the consumer drain.
//
// The consumer callback receives the first length bytes and returns the
// number it actually accepted. Accepted bytes are removed from the front
// and the unconsumed tail is shifted to offset zero, so a partial drain
// leaves the remainder first in line for the next pass.
//
// Returns the number of bytes removed and whether the guard was acquired.
// ok == false means a concurrent operation held the guard and nothing was
// drained.
func (b *Buffer) TryDrain(drain func(src []byte) int) (int, bool) {
	if !b.guard.TryLock() {
		return 0, false
	}
	defer b.guard.Unlock()

	if b.length == 0 {
		return 0, true
	}

	n := drain(b.data[:b.length])
	if n < 0 {
		n = 0
	} else if n > b.length {
		n = b.length
	}
	if n > 0 && n < b.length {
		copy(b.data, b.data[n:b.length])
	}
	b.length -= n
	return n, true
}
