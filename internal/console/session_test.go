// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// session_test.go: menu protocol end to end against a live worker.
package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-dispatch/api"
	"github.com/momentics/hioload-dispatch/control"
	"github.com/momentics/hioload-dispatch/dispatch"
)

type harness struct {
	s   *Session
	w   *dispatch.Worker
	out *bytes.Buffer
}

func newHarness(t *testing.T, script string) *harness {
	t.Helper()
	cfg := control.DefaultConfig()
	cfg.Queue.WorkCapacity = 8
	cfg.Queue.ResultCapacity = 64
	cfg.Dispatch.MaxBatch = 10
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	d, w := dispatch.New(cfg, dispatch.Length, nil, log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	out := &bytes.Buffer{}
	return &harness{
		s:   NewSession(d, strings.NewReader(script), out, nil, log),
		w:   w,
		out: out,
	}
}

func (h *harness) waitCompleted(t *testing.T, n uint64) {
	t.Helper()
	require.Eventually(t, func() bool { return h.w.Completed() >= n }, 5*time.Second, time.Millisecond)
}

func TestSession_Scenario(t *testing.T) {
	h := newHarness(t, strings.Join([]string{
		"1", "3", "abc", "de", "f", // new job with three inputs
		"2",           // receive
		"3", "1", "2", // manage #1, delete
		"3", "1", // manage #1 again
		"3", "0", "1", // manage #0, view
		"4", // clear
		"3", // manage empty history
		"5", // exit
	}, "\n")+"\n")

	require.NoError(t, h.s.Step())
	assert.Contains(t, h.out.String(), "How many requests in this job?")
	assert.Contains(t, h.out.String(), "Queued 3 requests")
	h.waitCompleted(t, 3)

	require.NoError(t, h.s.Step())
	assert.Contains(t, h.out.String(), "Received 3 results\n")

	h.out.Reset()
	require.NoError(t, h.s.Step())
	assert.Equal(t, "> 3 results:\n#0: abc\n#1: de\n#2: f\nChoose a result: #Result #1 selected\n> Result deleted\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.s.Step())
	assert.Equal(t, "> 3 results:\n#0: abc\n#1: <deleted>\n#2: f\nChoose a result: #Result #1 selected\n<deleted>\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.s.Step())
	assert.Contains(t, h.out.String(), "Input: abc\nResult: 3\n")

	h.out.Reset()
	require.NoError(t, h.s.Step())
	assert.Equal(t, "> All saved results cleared\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.s.Step())
	assert.Equal(t, "> 0 results:\n", h.out.String())

	h.out.Reset()
	assert.ErrorIs(t, h.s.Step(), errExit)
	assert.Equal(t, "> Bye\n", h.out.String())
}

func TestSession_RunEndsOnExitOrEOF(t *testing.T) {
	h := newHarness(t, "2\n5\n4\n")
	require.NoError(t, h.s.Run())
	assert.True(t, strings.HasPrefix(h.out.String(), "highly scalable strlen() service\n1. New job\n"))
	assert.True(t, strings.HasSuffix(h.out.String(), "Bye\n"), "commands after exit are not served")

	h = newHarness(t, "2\n")
	assert.NoError(t, h.s.Run())
	assert.Contains(t, h.out.String(), "Received 0 results")

	h = newHarness(t, "1\n3\nonly-one\n")
	assert.NoError(t, h.s.Run(), "end of input inside a batch is graceful")
}

func TestSession_InvalidCountIsSoft(t *testing.T) {
	h := newHarness(t, "1\n0\n5\n")
	require.NoError(t, h.s.Run())
	assert.Contains(t, h.out.String(), "Invalid request count")
	assert.Contains(t, h.out.String(), "Bye")
	assert.Zero(t, h.w.Completed())
}

func TestSession_FatalErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   error
		output string
	}{
		{"too many", "1\n11\n", api.ErrBatchTooLarge, "Too many!"},
		{"unknown action", "9\n", api.ErrUnknownAction, ""},
		{"not a number", "abc\n", api.ErrInvalidNumber, ""},
		{"blank line", "\n", api.ErrInvalidNumber, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.script)
			err := h.s.Run()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, api.IsFatal(err))
			assert.Contains(t, h.out.String(), tt.output)
		})
	}
}

func TestSession_ManageFatalErrors(t *testing.T) {
	h := newHarness(t, "1\n1\nx\n2\n3\n5\n")
	require.NoError(t, h.s.Step())
	h.waitCompleted(t, 1)
	require.NoError(t, h.s.Step())
	err := h.s.Step()
	assert.ErrorIs(t, err, api.ErrIndexOutOfRange)
	assert.True(t, api.IsFatal(err))

	h = newHarness(t, "1\n1\nx\n2\n3\n0\n7\n")
	require.NoError(t, h.s.Step())
	h.waitCompleted(t, 1)
	require.NoError(t, h.s.Step())
	err = h.s.Step()
	assert.ErrorIs(t, err, api.ErrUnknownAction)
}

func TestSession_NumberIgnoresTrailingText(t *testing.T) {
	h := newHarness(t, "2 please\n5\n")
	require.NoError(t, h.s.Run())
	assert.Contains(t, h.out.String(), "Received 0 results")
}

func TestSession_KicksWatchdog(t *testing.T) {
	fired := make(chan struct{}, 1)
	dog := NewWatchdog(50*time.Millisecond, func() { fired <- struct{}{} })
	defer dog.Stop()

	cfg := control.DefaultConfig()
	d, _ := dispatch.New(cfg, dispatch.Length, nil, nil)
	pr, pw := io.Pipe()
	s := NewSession(d, pr, io.Discard, dog, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run() }()
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		_, err := pw.Write([]byte("2\n"))
		require.NoError(t, err)
	}
	select {
	case <-fired:
		t.Fatal("watchdog fired while input kept arriving")
	default:
	}
	require.NoError(t, pw.Close())
	require.NoError(t, <-errCh)
}
