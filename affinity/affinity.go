// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for pinning the calling OS thread to one logical CPU.
// Platform-specific implementations live in affinity_<os>.go.

package affinity

import (
	"fmt"
	"runtime"
)

// SetAffinity pins the calling OS thread to cpuID. The caller must hold
// runtime.LockOSThread, otherwise the goroutine may migrate away from the
// pinned thread. Unsupported platforms return api.ErrNotSupported.
func SetAffinity(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return fmt.Errorf("affinity: cpu %d out of range [0,%d)", cpuID, runtime.NumCPU())
	}
	return setAffinityPlatform(cpuID)
}

// ThreadID returns the OS identifier of the calling thread. ok is false on
// platforms that do not expose one. The value is only stable while the
// caller holds runtime.LockOSThread.
func ThreadID() (id int, ok bool) {
	return threadIDPlatform()
}
