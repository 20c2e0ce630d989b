// File: affinity/affinity_test.go
// Author: momentics <momentics@gmail.com>

package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAffinityRejectsOutOfRange(t *testing.T) {
	assert.Error(t, SetAffinity(-1))
	assert.Error(t, SetAffinity(runtime.NumCPU()))
}

func TestSetAffinityCPUZero(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		t.Skip("thread affinity not supported on " + runtime.GOOS)
	}
	done := make(chan error, 1)
	go func() {
		// The pinned thread dies with the goroutine, leaving other tests unaffected.
		runtime.LockOSThread()
		done <- SetAffinity(0)
	}()
	assert.NoError(t, <-done)
}

func TestThreadIDStableOnLockedThread(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		t.Skip("thread ids not exposed on " + runtime.GOOS)
	}
	type ids struct{ first, second int }
	got := make(chan ids, 1)
	go func() {
		runtime.LockOSThread()
		a, _ := ThreadID()
		runtime.Gosched()
		b, _ := ThreadID()
		got <- ids{a, b}
	}()
	r := <-got
	assert.NotZero(t, r.first)
	assert.Equal(t, r.first, r.second)
}
