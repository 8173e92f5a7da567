package ring

import (
	"sync"
	"testing"
)

func TestQueueFIFOAndCapacity(t *testing.T) {
	q := NewQueue[int](4)
	if got := q.Cap(); got != 3 {
		t.Fatalf("cap = %d, want 3", got)
	}
	for i := 0; i < 3; i++ {
		if !q.Push(i) {
			t.Fatalf("push %d failed", i)
		}
	}
	if q.Push(99) {
		t.Fatalf("push into full queue should fail")
	}
	if got := q.Dropped(); got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}
	var v int
	for i := 0; i < 3; i++ {
		if !q.Pop(&v) || v != i {
			t.Fatalf("pop %d = %d", i, v)
		}
	}
	if q.Pop(&v) {
		t.Fatalf("pop from empty queue should fail")
	}
}

func TestQueueRoundsUpCapacity(t *testing.T) {
	q := NewQueue[byte](100)
	if got := q.Cap(); got != 127 {
		t.Fatalf("cap = %d, want 127", got)
	}
}

func TestQueueWrapsAround(t *testing.T) {
	q := NewQueue[int](4)
	var v int
	for i := 0; i < 50; i++ {
		q.Push(i)
		if got := q.Len(); got != 1 {
			t.Fatalf("len = %d, want 1", got)
		}
		if !q.Pop(&v) || v != i {
			t.Fatalf("iteration %d popped %d", i, v)
		}
	}
}

func TestQueueConcurrentProducerConsumer(t *testing.T) {
	const n = 10000
	q := NewQueue[int](64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; {
			if q.Push(i) {
				i++
			}
		}
	}()
	next := 0
	var v int
	for next < n {
		if q.Pop(&v) {
			if v != next {
				t.Fatalf("got %d, want %d", v, next)
			}
			next++
		}
	}
	wg.Wait()
}

func TestFlagTake(t *testing.T) {
	var f Flag
	if f.Take() {
		t.Fatalf("new flag should be clear")
	}
	f.Set()
	f.Set()
	if !f.Take() {
		t.Fatalf("expected set flag")
	}
	if f.Take() {
		t.Fatalf("flag should clear after take")
	}
}

func TestLatestReturnsNewestPublished(t *testing.T) {
	l := NewLatest[int]()
	if got := l.Read(); got != 0 {
		t.Fatalf("initial read = %d", got)
	}
	*l.Back() = 1
	l.Publish()
	*l.Back() = 2
	l.Publish()
	if got := l.Read(); got != 2 {
		t.Fatalf("read = %d, want 2", got)
	}
	if got := l.Read(); got != 2 {
		t.Fatalf("repeated read = %d, want 2", got)
	}
	*l.Back() = 3
	l.Publish()
	if got := l.Read(); got != 3 {
		t.Fatalf("read = %d, want 3", got)
	}
}
