// File: gocore/core.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package gocore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/momentics/nanonet/api"
)

// Initialize status codes.
const (
	StatusOK                 int32 = 0
	StatusNilTrampoline      int32 = 1
	StatusAlreadyInitialized int32 = 2
	StatusInvalidOptions     int32 = 3
	StatusInvalidAddress     int32 = 6
	StatusListenFailed       int32 = 7
)

// ErrUnknownConnection is returned for a handle the core does not track.
var ErrUnknownConnection = errors.New("gocore: unknown connection")

// Ensure compile-time interface compliance.
var _ api.Core = (*Core)(nil)

// Core accepts TCP connections and reports reads through a trampoline.
type Core struct {
	opts   Options
	logger *slog.Logger

	mu          sync.Mutex
	listener    net.Listener
	trampoline  api.Trampoline
	conns       map[uintptr]net.Conn
	nextToken   uintptr
	initialized bool
	closing     bool

	running atomic.Bool
	workers sync.WaitGroup
	stopped chan struct{}
}

// New creates an uninitialized core.
func New(opts Options, copts ...CoreOption) *Core {
	c := &Core{
		opts:    opts,
		logger:  slog.Default(),
		conns:   make(map[uintptr]net.Conn),
		stopped: make(chan struct{}),
	}
	for _, o := range copts {
		o(c)
	}
	c.logger = c.logger.With("component", "gocore")
	return c
}

// Initialize implements api.Core. addr must be an IP literal or empty for
// all interfaces.
func (c *Core) Initialize(addr string, port uint16, t api.Trampoline) int32 {
	if t == nil {
		return StatusNilTrampoline
	}
	if err := c.opts.validate(); err != nil {
		c.logger.Error("invalid options", "error", err)
		return StatusInvalidOptions
	}
	if addr != "" && net.ParseIP(addr) == nil {
		c.logger.Error("address is not an IP literal", "addr", addr)
		return StatusInvalidAddress
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return StatusAlreadyInitialized
	}

	lc := net.ListenConfig{}
	if c.opts.ReuseAddr {
		lc.Control = reuseAddrControl
	}
	hostport := net.JoinHostPort(addr, strconv.Itoa(int(port)))
	ln, err := lc.Listen(context.Background(), "tcp", hostport)
	if err != nil {
		c.logger.Error("listen failed", "addr", hostport, "error", err)
		return StatusListenFailed
	}
	c.listener = ln
	c.trampoline = t
	c.initialized = true
	c.logger.Info("core initialized", "addr", ln.Addr().String())
	return StatusOK
}

// Start implements api.Core. It runs the accept loop until Shutdown and
// returns immediately if the core is not initialized, already running or
// already shut down.
func (c *Core) Start() {
	c.mu.Lock()
	ln, closing := c.listener, c.closing
	c.mu.Unlock()
	if ln == nil || closing {
		return
	}
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	defer c.running.Store(false)

	var backoff time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if c.isClosing() {
				return
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff < time.Second {
				backoff *= 2
			}
			c.logger.Warn("accept failed", "error", err, "retry_in", backoff)
			select {
			case <-c.stopped:
				return
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		token, ok := c.track(nc)
		if !ok {
			nc.Close()
			return
		}
		c.logger.Debug("connection accepted", "remote", nc.RemoteAddr().String(), "token", token)
		go c.serve(token, nc)
	}
}

// Shutdown implements api.Core: it closes the listener and every connection
// and waits for connection workers, so no trampoline call happens after it
// returns. Repeated calls are no-ops.
func (c *Core) Shutdown() {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return
	}
	c.closing = true
	close(c.stopped)
	ln := c.listener
	conns := make([]net.Conn, 0, len(c.conns))
	for _, nc := range c.conns {
		conns = append(conns, nc)
	}
	c.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	for _, nc := range conns {
		nc.Close()
	}
	c.workers.Wait()
	c.logger.Info("core stopped")
}

// Addr returns the bound listener address, or nil before Initialize.
func (c *Core) Addr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listener == nil {
		return nil
	}
	return c.listener.Addr()
}

// Connections returns the number of tracked connections.
func (c *Core) Connections() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}

// Write sends p on the connection identified by h.
func (c *Core) Write(h api.ConnectionHandle, p []byte) (int, error) {
	nc, err := c.lookup(h)
	if err != nil {
		return 0, err
	}
	return nc.Write(p)
}

// Close terminates the connection identified by h.
func (c *Core) Close(h api.ConnectionHandle) error {
	nc, err := c.lookup(h)
	if err != nil {
		return err
	}
	return nc.Close()
}

func (c *Core) lookup(h api.ConnectionHandle) (net.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	nc, ok := c.conns[h.Raw()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConnection, h)
	}
	return nc, nil
}

func (c *Core) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

// track registers nc and reserves a worker slot. It fails once Shutdown has
// begun, so Shutdown's Wait covers every worker.
func (c *Core) track(nc net.Conn) (uintptr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		return 0, false
	}
	c.nextToken++
	c.conns[c.nextToken] = nc
	c.workers.Add(1)
	return c.nextToken, true
}

func (c *Core) forget(token uintptr) {
	c.mu.Lock()
	nc := c.conns[token]
	delete(c.conns, token)
	c.mu.Unlock()
	if nc != nil {
		nc.Close()
	}
}

// serve reads from one connection until it fails or closes.
func (c *Core) serve(token uintptr, nc net.Conn) {
	defer c.workers.Done()
	defer c.forget(token)

	buf := mcache.Malloc(c.opts.BufferSize)
	defer mcache.Free(buf)

	for {
		if c.opts.ReadTimeout > 0 {
			nc.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
		}
		n, err := nc.Read(buf)
		if n > 0 {
			c.trampoline(token, unsafe.Pointer(&buf[0]), int32(n))
			if c.opts.Echo {
				if _, werr := nc.Write(buf[:n]); werr != nil {
					c.logger.Debug("echo write failed", "token", token, "error", werr)
					return
				}
			}
		}
		if err != nil {
			c.logger.Debug("connection closed", "token", token, "error", err)
			return
		}
	}
}
