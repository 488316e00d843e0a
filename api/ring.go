// Package api
// Author: momentics@gmail.com
//
// Bounded single-writer/single-reader channel contract.

package api

import "context"

// Channel is a bounded FIFO handing ownership of items from exactly one
// writer goroutine to exactly one reader goroutine.
//
// Write, TryWrite, WriteContext and IsFull belong to the writer side.
// Read, TryRead, ReadContext and IsEmpty belong to the reader side.
// Len and Cap are safe from anywhere but only approximate under load.
type Channel[T any] interface {
	// Write stores item, waiting while the channel is full.
	Write(item T)
	// Read takes the oldest item, waiting while the channel is empty.
	Read() T

	// TryWrite stores item, returns false if full.
	TryWrite(item T) bool
	// TryRead takes the oldest item, returns false if empty.
	TryRead() (T, bool)

	// WriteContext is Write that gives up when ctx is done.
	WriteContext(ctx context.Context, item T) error
	// ReadContext is Read that gives up when ctx is done.
	ReadContext(ctx context.Context) (T, error)

	IsEmpty() bool
	IsFull() bool

	// Len returns current number of items.
	Len() int
	// Cap returns number of slots; at most Cap()-1 items are held.
	Cap() int
}
