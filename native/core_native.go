//go:build cgo && nanonet_native

// File: native/core_native.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package native

/*
#cgo LDFLAGS: -lasync_core
#include <stdlib.h>

typedef int (*NanoNetCallback)(void* client_handle, const char* data, int data_len);

extern int initialize_server(const char* addr, unsigned short port, NanoNetCallback callback_func);
extern void start_server(void);
extern void shutdown_server(void);

// Go entry point; the C thunk forwards every read into it.
extern void nanonetDeliver(void*, char*, int);

static int nanonet_trampoline(void* client, const char* data, int len) {
	nanonetDeliver(client, (char*)data, len);
	return 0;
}

static int nanonet_initialize(const char* addr, unsigned short port) {
	return initialize_server(addr, port, nanonet_trampoline);
}
*/
import "C"

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/momentics/nanonet/api"
)

// Ensure compile-time interface compliance.
var _ api.Core = (*Core)(nil)

type binding struct {
	owner      *Core
	trampoline api.Trampoline
}

// active is read on every C callback and written by Initialize/Shutdown.
var active atomic.Pointer[binding]

//export nanonetDeliver
func nanonetDeliver(client unsafe.Pointer, data *C.char, length C.int) {
	b := active.Load()
	if b == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.owner.logger.Error("trampoline panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	b.trampoline(uintptr(client), unsafe.Pointer(data), int32(length))
}

// Core drives libasync_core.
type Core struct {
	logger   *slog.Logger
	mu       sync.Mutex
	bound    bool
	shutdown bool
}

// NewCore returns a native core.
func NewCore(opts ...Option) (*Core, error) {
	s := defaultSettings()
	for _, o := range opts {
		o(&s)
	}
	return &Core{logger: s.logger.With("component", "native")}, nil
}

// Initialize implements api.Core.
func (c *Core) Initialize(addr string, port uint16, t api.Trampoline) int32 {
	if t == nil {
		return 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	b := &binding{owner: c, trampoline: t}
	if !active.CompareAndSwap(nil, b) {
		c.logger.Error("native core already bound in this process")
		return StatusBusy
	}

	caddr := C.CString(addr)
	defer C.free(unsafe.Pointer(caddr))

	status := int32(C.nanonet_initialize(caddr, C.ushort(port)))
	if status != 0 {
		active.CompareAndSwap(b, nil)
		c.logger.Error("initialize_server failed", "status", status)
		return status
	}
	c.bound = true
	return 0
}

// Start implements api.Core; it blocks for as long as start_server does.
func (c *Core) Start() {
	c.mu.Lock()
	ok := c.bound && !c.shutdown
	c.mu.Unlock()
	if !ok {
		return
	}
	C.start_server()
}

// Shutdown implements api.Core. The trampoline binding is released once
// shutdown_server returns, so a new native core may be initialized.
func (c *Core) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bound || c.shutdown {
		return
	}
	c.shutdown = true
	C.shutdown_server()
	if b := active.Load(); b != nil && b.owner == c {
		active.CompareAndSwap(b, nil)
	}
}
