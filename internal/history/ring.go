// Package history provides the fixed-capacity time-series buffers feeding the
// rolling distance plots. Buffers hold only the last N samples; nothing is
// ever persisted.
package history

import "sync"

// DefaultCapacity covers ~120 seconds at the sensor's ~2 Hz detection cadence.
const DefaultCapacity = 240

// Sample is one (elapsed-time, value) point. Elapsed is seconds since the
// transport's time origin and is strictly non-decreasing within a buffer.
type Sample[T any] struct {
	Elapsed float64 `json:"t"`
	Value   T       `json:"v"`
}

// Buffer is a fixed-capacity FIFO ring of samples. Appending to a full buffer
// evicts the oldest sample. Safe for concurrent use.
type Buffer[T any] struct {
	mu      sync.Mutex
	samples []Sample[T]
	head    int // index of the oldest sample
	size    int
}

// New creates a buffer holding at most capacity samples. A capacity of zero
// or less falls back to DefaultCapacity.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer[T]{samples: make([]Sample[T], capacity)}
}

// Append adds a sample, evicting the oldest one if the buffer is full. O(1).
func (b *Buffer[T]) Append(elapsed float64, value T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.head + b.size) % len(b.samples)
	b.samples[idx] = Sample[T]{Elapsed: elapsed, Value: value}
	if b.size < len(b.samples) {
		b.size++
	} else {
		b.head = (b.head + 1) % len(b.samples)
	}
}

// Samples returns the buffered samples oldest-first.
func (b *Buffer[T]) Samples() []Sample[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Sample[T], b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.samples[(b.head+i)%len(b.samples)]
	}
	return out
}

// Len returns the number of buffered samples.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.samples)
}

// Reset discards all samples. Used when the transport reconnects and the time
// origin restarts.
func (b *Buffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.size = 0
}
