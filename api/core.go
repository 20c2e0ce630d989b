// File: api/core.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contract of the networking core the bridge binds to.

package api

import "unsafe"

// Trampoline is the fixed-signature entry point a core invokes for every
// received buffer. data points to length bytes that are only valid for the
// duration of the call. A core may call it from any goroutine or thread,
// concurrently, any number of times between a successful Initialize and the
// moment Shutdown takes effect.
type Trampoline func(token uintptr, data unsafe.Pointer, length int32)

// Core is the lifecycle surface exposed by a networking core. Cores own
// sockets, accept and read; the bridge never looks inside them.
type Core interface {
	// Initialize binds addr:port and records t as the notification target.
	// Zero means success; any other value is an opaque core status code.
	Initialize(addr string, port uint16, t Trampoline) int32

	// Start hands control to the core's accept loop. It returns when the
	// core decides to return control.
	Start()

	// Shutdown asks the core to stop producing notifications.
	Shutdown()
}
