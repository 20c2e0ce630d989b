// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core contract.

package fake

import (
	"sync"
	"unsafe"

	"github.com/momentics/nanonet/api"
)

// Ensure compile-time interface compliance.
var _ api.Core = (*Core)(nil)

// Core is a scriptable api.Core that records every call and lets tests play
// the role of the core's I/O threads through Emit.
type Core struct {
	mu         sync.Mutex
	status     int32
	trampoline api.Trampoline
	calls      []string
	addr       string
	port       uint16
	nonBlock   bool
	stop       chan struct{}
	stopped    bool
}

// NewCore creates a core whose Initialize succeeds and whose Start blocks
// until Shutdown.
func NewCore() *Core {
	return &Core{stop: make(chan struct{})}
}

// WithStatus makes Initialize return status.
func (c *Core) WithStatus(status int32) *Core {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	return c
}

// NonBlockingStart makes Start return immediately, like a core that only
// posts its first accept.
func (c *Core) NonBlockingStart() *Core {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonBlock = true
	return c
}

// Initialize implements api.Core.
func (c *Core) Initialize(addr string, port uint16, t api.Trampoline) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "initialize")
	c.addr, c.port = addr, port
	if c.status == 0 {
		c.trampoline = t
	}
	return c.status
}

// Start implements api.Core.
func (c *Core) Start() {
	c.mu.Lock()
	c.calls = append(c.calls, "start")
	nonBlock, stop := c.nonBlock, c.stop
	c.mu.Unlock()
	if nonBlock {
		return
	}
	<-stop
}

// Shutdown implements api.Core. After Shutdown, Emit is a no-op, matching a
// core that no longer calls the trampoline.
func (c *Core) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "shutdown")
	if !c.stopped {
		c.stopped = true
		close(c.stop)
	}
	c.trampoline = nil
}

// Emit invokes the registered trampoline as a core I/O thread would, with a
// pointer into data. It reports whether a trampoline was registered.
func (c *Core) Emit(token uintptr, data []byte) bool {
	c.mu.Lock()
	t := c.trampoline
	c.mu.Unlock()
	if t == nil {
		return false
	}
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	t(token, p, int32(len(data)))
	return true
}

// Trampoline returns the registered trampoline, if any.
func (c *Core) Trampoline() api.Trampoline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trampoline
}

// Calls returns the recorded call sequence.
func (c *Core) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Bound returns the address and port passed to Initialize.
func (c *Core) Bound() (string, uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr, c.port
}
