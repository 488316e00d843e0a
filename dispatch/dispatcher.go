// File: dispatch/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Dispatcher is the producer side: the single writer of the work ring,
// the single reader of the result ring and sole owner of the history.

package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/momentics/hioload-dispatch/api"
	"github.com/momentics/hioload-dispatch/control"
	"github.com/momentics/hioload-dispatch/internal/concurrency"
)

// LineSource yields job inputs one line at a time. It returns either a
// line or an error, never both; io.EOF ends input.
type LineSource interface {
	ReadLine() (string, error)
}

// Entry is a read-only view of a history slot.
type Entry struct {
	Index   int
	ID      uuid.UUID
	Input   string
	Output  uint64
	Deleted bool
}

// Dispatcher submits jobs and collects their results. Its methods must
// all be called from one goroutine.
type Dispatcher struct {
	work     api.Channel[*Job]
	results  api.Channel[*Job]
	history  *History
	maxBatch int
	metrics  *control.Metrics
	log      *slog.Logger
}

// New builds both rings once and binds them to a dispatcher and its
// worker. compute defaults to Length and metrics to a private registry.
func New(cfg *control.Config, compute ComputeFunc, metrics *control.Metrics, log *slog.Logger) (*Dispatcher, *Worker) {
	if compute == nil {
		compute = Length
	}
	if metrics == nil {
		metrics = control.NewMetrics()
	}
	if log == nil {
		log = slog.Default()
	}
	wait := concurrency.Backoff{
		Spin:    cfg.Wait.Spin,
		Yield:   cfg.Wait.Yield,
		MaxPark: cfg.Wait.MaxPark,
	}
	work := concurrency.NewRing[*Job](cfg.Queue.WorkCapacity, wait)
	results := concurrency.NewRing[*Job](cfg.Queue.ResultCapacity, wait)

	d := &Dispatcher{
		work:     work,
		results:  results,
		history:  NewHistory(),
		maxBatch: cfg.Dispatch.MaxBatch,
		metrics:  metrics,
		log:      log.With("component", "dispatcher"),
	}
	w := &Worker{
		work:    work,
		results: results,
		compute: compute,
		cpu:     cfg.Worker.CPU,
		log:     log.With("component", "worker"),
	}
	return d, w
}

// MaxBatch returns the submission ceiling.
func (d *Dispatcher) MaxBatch() int {
	return d.maxBatch
}

// Submit reads n lines from src and enqueues one job per line, in order.
// n outside (0, MaxBatch] enqueues nothing; above MaxBatch is fatal.
// On a read error Submit returns the number already enqueued.
func (d *Dispatcher) Submit(n int, src LineSource) (int, error) {
	if n <= 0 {
		d.metrics.Add(control.MetricJobsRejected, 1)
		return 0, api.NewError(api.ErrCodeInvalidArgument, api.ErrInvalidCount).WithContext("count", n)
	}
	if n > d.maxBatch {
		d.metrics.Add(control.MetricJobsRejected, 1)
		return 0, api.NewError(api.ErrCodeBatchTooLarge, api.ErrBatchTooLarge).
			WithContext("count", n).
			WithContext("max_batch", d.maxBatch)
	}
	for i := 0; i < n; i++ {
		line, err := src.ReadLine()
		if err != nil {
			return i, fmt.Errorf("read input %d of %d: %w", i+1, n, err)
		}
		job := NewJob(TrimLine(line))
		d.work.Write(job)
		d.metrics.Add(control.MetricJobsSubmitted, 1)
		d.log.Debug("job submitted", "job_id", job.ID, "queue_len", d.work.Len())
	}
	return n, nil
}

// Drain moves every completed job that is ready into the history and
// returns how many moved. It never waits.
func (d *Dispatcher) Drain() int {
	n := 0
	for !d.results.IsEmpty() {
		d.history.Append(d.results.Read())
		n++
	}
	d.metrics.Add(control.MetricResultsDrained, int64(n))
	d.metrics.Set(control.MetricHistorySize, int64(d.history.Len()))
	if n > 0 {
		d.log.Debug("results drained", "count", n, "history_len", d.history.Len())
	}
	return n
}

// Len returns the history size, tombstones included.
func (d *Dispatcher) Len() int {
	return d.history.Len()
}

// Inspect returns entry i. A deleted entry is reported, not an error.
func (d *Dispatcher) Inspect(i int) (Entry, error) {
	job, err := d.history.At(i)
	if err != nil {
		return Entry{}, err
	}
	return entryOf(i, job), nil
}

// Delete tombstones entry i.
func (d *Dispatcher) Delete(i int) error {
	if err := d.history.Delete(i); err != nil {
		return err
	}
	d.metrics.Add(control.MetricResultsDeleted, 1)
	d.log.Debug("result deleted", "index", i)
	return nil
}

// Clear drops the whole history; numbering restarts at zero.
func (d *Dispatcher) Clear() {
	d.history.Reset()
	d.metrics.Add(control.MetricHistoryCleared, 1)
	d.metrics.Set(control.MetricHistorySize, 0)
}

// Entries lists the history in index order.
func (d *Dispatcher) Entries() []Entry {
	out := make([]Entry, 0, d.history.Len())
	d.history.Each(func(i int, job *Job) {
		out = append(out, entryOf(i, job))
	})
	return out
}

// RegisterProbes exposes ring depths. Ring observers only load atomics,
// so probes may run on any goroutine.
func (d *Dispatcher) RegisterProbes(p *control.Probes) {
	p.RegisterProbe("queue.work.len", func() any { return d.work.Len() })
	p.RegisterProbe("queue.work.cap", func() any { return d.work.Cap() })
	p.RegisterProbe("queue.results.len", func() any { return d.results.Len() })
	p.RegisterProbe("queue.results.cap", func() any { return d.results.Cap() })
}

func entryOf(i int, job *Job) Entry {
	if job == nil {
		return Entry{Index: i, Deleted: true}
	}
	out, _ := job.Output()
	return Entry{Index: i, ID: job.ID, Input: job.Input, Output: out}
}
