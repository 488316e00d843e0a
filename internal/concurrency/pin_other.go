//go:build !linux
// +build !linux

// internal/concurrency/pin_other.go
// Author: momentics <momentics@gmail.com>
//
// Fallback for platforms without thread affinity support.

package concurrency

import "runtime"

// PinCurrentThread locks the goroutine to its OS thread; affinity itself
// is not available here.
func PinCurrentThread(cpuID int) error {
	runtime.LockOSThread()
	return ErrAffinityNotSupported
}

// CurrentCPUs is not available on this platform.
func CurrentCPUs() ([]int, error) {
	return nil, ErrAffinityNotSupported
}
