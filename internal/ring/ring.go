// Package ring holds the lock-free primitives that connect the audio context
// to the control context: a single-producer single-consumer queue, a dirty
// flag and a triple buffer for publishing snapshots.
package ring

import "sync/atomic"

// Queue is a bounded single-producer single-consumer ring. One slot is kept
// empty to tell full from empty, so a queue built with capacity n holds n-1
// items. Push never blocks; a full queue drops the item and counts it.
type Queue[T any] struct {
	buf     []T
	mask    uint32
	head    atomic.Uint32 // next write, owned by the producer
	tail    atomic.Uint32 // next read, owned by the consumer
	dropped atomic.Uint64
}

// NewQueue rounds capacity up to a power of two (minimum 2).
func NewQueue[T any](capacity int) *Queue[T] {
	n := 2
	for n < capacity {
		n <<= 1
	}
	return &Queue[T]{buf: make([]T, n), mask: uint32(n - 1)}
}

func (q *Queue[T]) Push(v T) bool {
	h := q.head.Load()
	next := (h + 1) & q.mask
	if next == q.tail.Load() {
		q.dropped.Add(1)
		return false
	}
	q.buf[h] = v
	q.head.Store(next)
	return true
}

func (q *Queue[T]) Pop(dst *T) bool {
	t := q.tail.Load()
	if t == q.head.Load() {
		return false
	}
	*dst = q.buf[t]
	var zero T
	q.buf[t] = zero
	q.tail.Store((t + 1) & q.mask)
	return true
}

func (q *Queue[T]) Len() int {
	return int((q.head.Load() - q.tail.Load()) & q.mask)
}

func (q *Queue[T]) Cap() int { return len(q.buf) - 1 }

// Dropped returns the number of items rejected because the queue was full.
func (q *Queue[T]) Dropped() uint64 { return q.dropped.Load() }

// Flag is a single dirty bit. Setting it twice before a Take is harmless.
type Flag struct {
	v atomic.Bool
}

func (f *Flag) Set() { f.v.Store(true) }

// Take reports whether the flag was set and clears it.
func (f *Flag) Take() bool { return f.v.Swap(false) }

func (f *Flag) Peek() bool { return f.v.Load() }

const fresh = 1 << 2

// Latest is a triple buffer. One writer fills Back and calls Publish; one
// reader calls Read and always sees the most recently published value
// without either side blocking.
type Latest[T any] struct {
	slots [3]T
	mid   atomic.Uint32
	back  uint32
	front uint32
}

func NewLatest[T any]() *Latest[T] {
	l := &Latest[T]{back: 0, front: 2}
	l.mid.Store(1)
	return l
}

// Back returns the slot owned by the writer.
func (l *Latest[T]) Back() *T { return &l.slots[l.back] }

func (l *Latest[T]) Publish() {
	prev := l.mid.Swap(l.back | fresh)
	l.back = prev &^ fresh
}

func (l *Latest[T]) Read() T {
	if l.mid.Load()&fresh != 0 {
		prev := l.mid.Swap(l.front)
		l.front = prev &^ fresh
	}
	return l.slots[l.front]
}
