//go:build linux
// +build linux

// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package concurrency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinCurrentThread_RejectsUnknownCPU(t *testing.T) {
	assert.Error(t, PinCurrentThread(-1))
	assert.Error(t, PinCurrentThread(cpuSetSize))
}

func TestPinCurrentThread_BindsToAllowedCPU(t *testing.T) {
	allowed, err := CurrentCPUs()
	require.NoError(t, err)
	require.NotEmpty(t, allowed)

	done := make(chan error, 1)
	go func() {
		// The goroutine exits while locked, so its thread is discarded.
		if err := PinCurrentThread(allowed[0]); err != nil {
			done <- err
			return
		}
		cpus, err := CurrentCPUs()
		if err == nil && (len(cpus) != 1 || cpus[0] != allowed[0]) {
			t.Errorf("expected affinity [%d], got %v", allowed[0], cpus)
		}
		done <- err
	}()
	assert.NoError(t, <-done)
}
