//go:build linux
// +build linux

// internal/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux CPU pinning via sched_setaffinity, pure Go through x/sys/unix.

package concurrency

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// cpuSetSize is CPU_SETSIZE, the number of CPUs a unix.CPUSet can name.
const cpuSetSize = 1024

// PinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to cpuID. The goroutine stays locked until it exits.
func PinCurrentThread(cpuID int) error {
	if cpuID < 0 || cpuID >= cpuSetSize {
		return fmt.Errorf("pin: cpu %d outside [0,%d)", cpuID, cpuSetSize)
	}
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	// pid 0 addresses the calling thread.
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("pin: sched_setaffinity cpu %d: %w", cpuID, err)
	}
	return nil
}

// CurrentCPUs returns the CPUs the calling thread may run on.
func CurrentCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	cpus := make([]int, 0, set.Count())
	for i := 0; i < cpuSetSize && len(cpus) < cap(cpus); i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
