// File: internal/concurrency/backoff.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wait strategy for ring writers/readers blocked on full/empty.

package concurrency

import (
	"runtime"
	"time"
)

// Backoff spins, then yields the processor, then parks with sleeps that
// double from minPark up to MaxPark.
type Backoff struct {
	Spin    int
	Yield   int
	MaxPark time.Duration
}

const minPark = time.Microsecond

// DefaultBackoff suits an interactive service: short spin, then parking
// capped at a millisecond like the executor's idle sleep.
func DefaultBackoff() Backoff {
	return Backoff{Spin: 128, Yield: 64, MaxPark: time.Millisecond}
}

// Pause waits once; attempt counts consecutive failed tries from zero.
func (b Backoff) Pause(attempt int) {
	switch {
	case attempt < b.Spin:
		return
	case attempt < b.Spin+b.Yield:
		runtime.Gosched()
		return
	}
	if b.MaxPark <= 0 {
		runtime.Gosched()
		return
	}
	d := minPark
	for shift := attempt - b.Spin - b.Yield; shift > 0 && d < b.MaxPark; shift-- {
		d <<= 1
	}
	if d > b.MaxPark {
		d = b.MaxPark
	}
	time.Sleep(d)
}
