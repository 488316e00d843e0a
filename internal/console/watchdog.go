// File: internal/console/watchdog.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Inactivity watchdog for the interactive session.

package console

import (
	"sync"
	"time"
)

// Watchdog calls fire once if Kick is not called for timeout.
// A nil Watchdog, or one with timeout <= 0, never fires.
type Watchdog struct {
	mu      sync.Mutex
	timeout time.Duration
	timer   *time.Timer
	stopped bool
}

// NewWatchdog arms a watchdog.
func NewWatchdog(timeout time.Duration, fire func()) *Watchdog {
	w := &Watchdog{timeout: timeout}
	if timeout > 0 {
		w.timer = time.AfterFunc(timeout, fire)
	}
	return w
}

// Kick restarts the countdown.
func (w *Watchdog) Kick() {
	if w == nil || w.timer == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.timer.Reset(w.timeout)
	}
}

// Stop disarms the watchdog for good.
func (w *Watchdog) Stop() {
	if w == nil || w.timer == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	w.timer.Stop()
}
