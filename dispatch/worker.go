// File: dispatch/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker loop: the single reader of the work ring and single writer of
// the result ring.

package dispatch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/momentics/hioload-dispatch/api"
	"github.com/momentics/hioload-dispatch/control"
	"github.com/momentics/hioload-dispatch/internal/concurrency"
)

// Worker computes results for submitted jobs.
type Worker struct {
	work    api.Channel[*Job]
	results api.Channel[*Job]
	compute ComputeFunc
	cpu     int
	log     *slog.Logger

	completed atomic.Uint64
}

// Run processes jobs until ctx is done and returns ctx's error.
// Run must be called from exactly one goroutine.
func (w *Worker) Run(ctx context.Context) error {
	if w.cpu >= 0 {
		if err := concurrency.PinCurrentThread(w.cpu); err != nil {
			w.log.Warn("worker pinning failed", "cpu", w.cpu, "error", err)
		} else {
			w.log.Debug("worker pinned", "cpu", w.cpu)
		}
	}
	w.log.Debug("worker started")
	defer w.log.Debug("worker stopped", "completed", w.completed.Load())

	for {
		job, err := w.work.ReadContext(ctx)
		if err != nil {
			return err
		}
		out := w.compute(job.Input)
		job.complete(out)
		w.log.Debug("job completed", "job_id", job.ID, "output", out)
		if err := w.results.WriteContext(ctx, job); err != nil {
			return err
		}
		w.completed.Add(1)
	}
}

// Completed returns how many finished jobs the worker has handed to the
// result ring.
func (w *Worker) Completed() uint64 {
	return w.completed.Load()
}

// RegisterProbes exposes worker progress.
func (w *Worker) RegisterProbes(p *control.Probes) {
	p.RegisterProbe("worker.completed", func() any { return w.Completed() })
	p.RegisterProbe("worker.cpu", func() any { return w.cpu })
}
