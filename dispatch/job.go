// File: dispatch/job.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Job record travelling dispatcher -> worker -> dispatcher.

package dispatch

import (
	"strings"

	"github.com/google/uuid"
)

// ComputeFunc turns a job input into its result. It must be pure.
type ComputeFunc func(input string) uint64

// Length is the default ComputeFunc: input length in bytes.
func Length(input string) uint64 {
	return uint64(len(input))
}

// Job is one unit of work. Exactly one of the work ring, the worker,
// the result ring or the history refers to it at any time, so its
// fields need no locking.
type Job struct {
	ID    uuid.UUID
	Input string

	output uint64
	done   bool
}

// NewJob creates a pending job for input.
func NewJob(input string) *Job {
	return &Job{ID: uuid.New(), Input: input}
}

// Output returns the result and whether the worker has set it.
func (j *Job) Output() (uint64, bool) {
	return j.output, j.done
}

func (j *Job) complete(v uint64) {
	j.output = v
	j.done = true
}

// TrimLine drops one trailing "\n" or "\r\n". Inputs and their results
// never include the line terminator.
func TrimLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
