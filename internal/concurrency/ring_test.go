// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// ring_test.go: SPSC ring contract, capacity bound and concurrent ordering.
package concurrency

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackoff() Backoff {
	return Backoff{Spin: 16, Yield: 16, MaxPark: 100 * time.Microsecond}
}

func TestNewRing_RejectsTinyCapacity(t *testing.T) {
	assert.Panics(t, func() { NewRing[int](1, testBackoff()) })
	assert.Panics(t, func() { NewRing[int](0, testBackoff()) })
	assert.NotPanics(t, func() { NewRing[int](2, testBackoff()) })
}

func TestRing_FIFO(t *testing.T) {
	r := NewRing[int](8, testBackoff())
	assert.True(t, r.IsEmpty())
	for i := 0; i < 7; i++ {
		r.Write(i)
	}
	assert.True(t, r.IsFull())
	assert.Equal(t, 7, r.Len())
	assert.Equal(t, 8, r.Cap())

	for i := 0; i < 7; i++ {
		assert.Equal(t, i, r.Read())
	}
	assert.True(t, r.IsEmpty())
	assert.Equal(t, 0, r.Len())
}

func TestRing_WrapAround(t *testing.T) {
	r := NewRing[int](3, testBackoff())
	next := 0
	for round := 0; round < 10; round++ {
		require.True(t, r.TryWrite(round*2))
		require.True(t, r.TryWrite(round*2+1))
		require.False(t, r.TryWrite(-1))
		assert.Equal(t, 2, r.Len())
		for k := 0; k < 2; k++ {
			v, ok := r.TryRead()
			require.True(t, ok)
			assert.Equal(t, next, v)
			next++
		}
		_, ok := r.TryRead()
		assert.False(t, ok)
	}
}

func TestRing_CapacityBound(t *testing.T) {
	const c = 4
	r := NewRing[int](c, testBackoff())
	for i := 0; i < c-1; i++ {
		require.True(t, r.TryWrite(i), "write %d must not block", i)
	}
	require.True(t, r.IsFull())

	done := make(chan struct{})
	go func() {
		r.Write(c - 1)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("write into a full ring returned before any read")
	case <-time.After(20 * time.Millisecond):
	}

	assert.Equal(t, 0, r.Read())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked write did not complete after a read")
	}
	for i := 1; i < c; i++ {
		assert.Equal(t, i, r.Read())
	}
}

func TestRing_ReadBlocksUntilWrite(t *testing.T) {
	r := NewRing[string](4, testBackoff())
	got := make(chan string, 1)
	go func() { got <- r.Read() }()

	select {
	case <-got:
		t.Fatal("read from an empty ring returned")
	case <-time.After(20 * time.Millisecond):
	}
	r.Write("x")
	select {
	case v := <-got:
		assert.Equal(t, "x", v)
	case <-time.After(time.Second):
		t.Fatal("blocked read did not complete after a write")
	}
}

func TestRing_ContextCancel(t *testing.T) {
	r := NewRing[int](2, testBackoff())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.ReadContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, r.WriteContext(context.Background(), 1))
	ctx2, cancel2 := context.WithCancel(context.Background())
	cancel2()
	assert.ErrorIs(t, r.WriteContext(ctx2, 2), context.Canceled)

	v, err := r.ReadContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestRing_ReadReleasesSlot(t *testing.T) {
	r := NewRing[*int](4, testBackoff())
	v := 42
	r.Write(&v)
	got := r.Read()
	assert.Same(t, &v, got)
	for i, p := range r.data {
		assert.Nil(t, p, "slot %d still references an item", i)
	}
}

// TestRing_ConcurrentSPSC streams items through a small ring and checks
// that the reader sees every item once, in write order.
func TestRing_ConcurrentSPSC(t *testing.T) {
	const n = 200000
	r := NewRing[int](16, testBackoff())

	go func() {
		for i := 0; i < n; i++ {
			r.Write(i)
		}
	}()

	for i := 0; i < n; i++ {
		v := r.Read()
		if v != i {
			t.Fatalf("out of order: expected %d, got %d", i, v)
		}
	}
	assert.True(t, r.IsEmpty())
}

// TestRing_PropertyBased runs random single-threaded operations against
// a slice model.
func TestRing_PropertyBased(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		capacity := 2 + rnd.Intn(62)
		r := NewRing[int](capacity, testBackoff())
		var model []int

		for i := 0; i < 5000; i++ {
			if rnd.Intn(2) == 0 {
				val := rnd.Intn(100000)
				if r.TryWrite(val) {
					model = append(model, val)
				} else {
					require.Len(t, model, capacity-1, "seed %d: refused write below capacity", seed)
				}
			} else {
				val, ok := r.TryRead()
				if ok {
					require.NotEmpty(t, model, "seed %d: read from empty ring", seed)
					require.Equal(t, model[0], val, "seed %d: FIFO violated", seed)
					model = model[1:]
				} else {
					require.Empty(t, model, "seed %d: refused read of %d items", seed, len(model))
				}
			}
			require.Equal(t, len(model), r.Len(), "seed %d", seed)
			require.Equal(t, len(model) == 0, r.IsEmpty())
			require.Equal(t, len(model) == capacity-1, r.IsFull())
		}
	}
}

func BenchmarkRing_SPSC(b *testing.B) {
	r := NewRing[int](1024, DefaultBackoff())
	done := make(chan struct{})
	go func() {
		for i := 0; i < b.N; i++ {
			r.Read()
		}
		close(done)
	}()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(i)
	}
	<-done
}
