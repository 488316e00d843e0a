// File: internal/concurrency/ring.go
// Package concurrency implements the lock-free SPSC ring used for dispatch.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring is a bounded circular buffer with one writer and one reader.
// One slot always stays empty so full and empty are told apart by the
// two cursors alone. head is stored only by the writer, tail only by the
// reader; each store happens after the slot access it publishes.

package concurrency

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-dispatch/api"
)

// Ensure compile-time interface compliance.
var _ api.Channel[any] = (*Ring[any])(nil)

// Ring is a lock-free ring buffer (single-producer, single-consumer only).
type Ring[T any] struct {
	_    cpu.CacheLinePad
	head atomic.Uint64 // next slot to write; owned by the writer
	_    cpu.CacheLinePad
	tail atomic.Uint64 // next slot to read; owned by the reader
	_    cpu.CacheLinePad
	size uint64
	data []T
	wait Backoff
}

// NewRing allocates a ring with capacity slots, holding up to capacity-1 items.
func NewRing[T any](capacity int, wait Backoff) *Ring[T] {
	if capacity < 2 {
		panic(fmt.Sprintf("ring capacity must be at least 2, got %d", capacity))
	}
	return &Ring[T]{
		size: uint64(capacity),
		data: make([]T, capacity),
		wait: wait,
	}
}

func (r *Ring[T]) next(i uint64) uint64 {
	i++
	if i == r.size {
		return 0
	}
	return i
}

// TryWrite stores item; returns false if full. Writer only.
func (r *Ring[T]) TryWrite(item T) bool {
	head := r.head.Load()
	next := r.next(head)
	if next == r.tail.Load() {
		return false
	}
	r.data[head] = item
	r.head.Store(next)
	return true
}

// TryRead moves the oldest item out; ok false if empty. Reader only.
func (r *Ring[T]) TryRead() (item T, ok bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		return item, false
	}
	var zero T
	item = r.data[tail]
	r.data[tail] = zero
	r.tail.Store(r.next(tail))
	return item, true
}

// Write stores item, waiting while the ring is full.
func (r *Ring[T]) Write(item T) {
	for n := 0; !r.TryWrite(item); n++ {
		r.wait.Pause(n)
	}
}

// Read takes the oldest item, waiting while the ring is empty.
func (r *Ring[T]) Read() T {
	for n := 0; ; n++ {
		if item, ok := r.TryRead(); ok {
			return item
		}
		r.wait.Pause(n)
	}
}

// WriteContext is Write bounded by ctx.
func (r *Ring[T]) WriteContext(ctx context.Context, item T) error {
	for n := 0; !r.TryWrite(item); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.wait.Pause(n)
	}
	return nil
}

// ReadContext is Read bounded by ctx.
func (r *Ring[T]) ReadContext(ctx context.Context) (T, error) {
	for n := 0; ; n++ {
		if item, ok := r.TryRead(); ok {
			return item, nil
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		r.wait.Pause(n)
	}
}

// IsEmpty reports whether no item is ready. Exact for the reader.
func (r *Ring[T]) IsEmpty() bool {
	return r.head.Load() == r.tail.Load()
}

// IsFull reports whether a write would wait. Exact for the writer.
func (r *Ring[T]) IsFull() bool {
	return r.next(r.head.Load()) == r.tail.Load()
}

// Len returns number of items currently in the ring.
func (r *Ring[T]) Len() int {
	tail := r.tail.Load()
	head := r.head.Load()
	return int((head + r.size - tail) % r.size)
}

// Cap returns the number of slots.
func (r *Ring[T]) Cap() int {
	return int(r.size)
}
