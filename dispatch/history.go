// File: dispatch/history.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Results history owned by the dispatcher goroutine. Not safe for
// concurrent use.

package dispatch

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-dispatch/api"
)

// slot holds a retained job, or nil once deleted.
type slot struct {
	job *Job
}

// History is an append-only indexed sequence of results. Deleting an
// entry leaves a tombstone so indices never shift; Reset starts over.
type History struct {
	q *queue.Queue
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{q: queue.New()}
}

// Append adds job at index Len().
func (h *History) Append(job *Job) {
	h.q.Add(&slot{job: job})
}

// Len returns the number of entries, tombstones included.
func (h *History) Len() int {
	return h.q.Length()
}

func (h *History) slot(i int) (*slot, error) {
	// queue.Get accepts negative indices counted from the back.
	if i < 0 || i >= h.q.Length() {
		return nil, api.NewError(api.ErrCodeOutOfRange, api.ErrIndexOutOfRange).
			WithContext("index", i).
			WithContext("size", h.q.Length())
	}
	return h.q.Get(i).(*slot), nil
}

// At returns the job at i, or nil if it was deleted.
func (h *History) At(i int) (*Job, error) {
	s, err := h.slot(i)
	if err != nil {
		return nil, err
	}
	return s.job, nil
}

// Delete tombstones entry i. Deleting a tombstone returns ErrAlreadyDeleted
// and changes nothing.
func (h *History) Delete(i int) error {
	s, err := h.slot(i)
	if err != nil {
		return err
	}
	if s.job == nil {
		return api.NewError(api.ErrCodeAlreadyDeleted, api.ErrAlreadyDeleted).WithContext("index", i)
	}
	s.job = nil
	return nil
}

// Reset drops every entry.
func (h *History) Reset() {
	h.q = queue.New()
}

// Each calls fn for every entry in index order; job is nil for tombstones.
func (h *History) Each(fn func(i int, job *Job)) {
	for i := 0; i < h.q.Length(); i++ {
		fn(i, h.q.Get(i).(*slot).job)
	}
}
