// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives for hioload-dispatch: the lock-free
// single-producer/single-consumer Ring that carries jobs between the
// dispatcher and its worker, the Backoff wait strategy used while a ring
// is full or empty, and OS thread pinning for the worker.
package concurrency
