// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Probe registry for internal inspection.

package control

import (
	"runtime"
	"sync"

	"github.com/momentics/hioload-dispatch/api"
)

var _ api.Debug = (*Probes)(nil)

// Probes holds registered probe functions. Probes run on the caller's
// goroutine and must only read concurrency-safe state.
type Probes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewProbes creates a probe registry with platform probes installed.
func NewProbes() *Probes {
	p := &Probes{
		probes: make(map[string]func() any),
	}
	p.RegisterProbe("platform.cpus", func() any { return runtime.NumCPU() })
	p.RegisterProbe("platform.goroutines", func() any { return runtime.NumGoroutine() })
	return p
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
func (p *Probes) RegisterProbe(name string, fn func() any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes[name] = fn
}

// DumpState returns output of all probes.
func (p *Probes) DumpState() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]any, len(p.probes))
	for k, fn := range p.probes {
		out[k] = fn()
	}
	return out
}
