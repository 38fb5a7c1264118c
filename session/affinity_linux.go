// SPDX-License-Identifier: EPL-2.0

//go:build linux

package session

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// pinThread restricts the calling OS thread to cpu. The caller must hold
// runtime.LockOSThread.
func pinThread(cpu int) error {
	if cpu < 0 {
		return nil
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("sched_setaffinity cpu %d: %w", cpu, err)
	}
	return nil
}
