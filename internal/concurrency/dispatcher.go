// File: internal/concurrency/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Dispatcher is the sole consumer of an EventQueue. It runs on its own OS
// thread and invokes the application handler once per event, in FIFO order.

package concurrency

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync/atomic"

	"github.com/momentics/nanonet/affinity"
	"github.com/momentics/nanonet/api"
	"github.com/momentics/nanonet/control"
)

// DispatcherConfig tunes a Dispatcher.
type DispatcherConfig struct {
	// CPU pins the dispatch thread to a core. Negative disables pinning.
	CPU int

	Logger   *slog.Logger
	Counters *control.Counters
}

// Dispatcher drains a queue into a handler.
type Dispatcher struct {
	queue    *EventQueue
	handler  api.Handler
	cpu      int
	logger   *slog.Logger
	counters *control.Counters

	started atomic.Bool
	aborted atomic.Bool
	done    chan struct{}
	busy    atomic.Bool
	tid     atomic.Int64 // OS thread of the running loop, 0 when unknown or exited
}

// NewDispatcher binds handler to q. The dispatcher does not run until Start.
func NewDispatcher(q *EventQueue, handler api.Handler, cfg DispatcherConfig) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Counters == nil {
		cfg.Counters = control.NewCounters()
	}
	return &Dispatcher{
		queue:    q,
		handler:  handler,
		cpu:      cfg.CPU,
		logger:   cfg.Logger.With("component", "dispatcher"),
		counters: cfg.Counters,
		done:     make(chan struct{}),
	}
}

// Start spawns the dispatch thread. Subsequent calls have no effect.
func (d *Dispatcher) Start() {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go d.run()
}

// Done is closed when the dispatch thread has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Busy reports whether a handler invocation is in progress.
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}

// OnDispatchThread reports whether the caller runs on the dispatch thread,
// that is, from inside the handler. Always false where the platform exposes
// no thread ids.
func (d *Dispatcher) OnDispatchThread() bool {
	self := d.tid.Load()
	if self == 0 {
		return false
	}
	id, ok := affinity.ThreadID()
	return ok && int64(id) == self
}

// Abort stops handler invocations: events popped from now on are released
// without being delivered and counted as dropped on shutdown. A handler call
// already in progress is not interrupted.
func (d *Dispatcher) Abort() {
	d.aborted.Store(true)
}

// Wait blocks until the dispatch thread exits or ctx is done. A dispatcher
// that was never started counts as exited.
func (d *Dispatcher) Wait(ctx context.Context) error {
	if !d.started.Load() {
		return nil
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	// The thread is never handed back to the scheduler: it exits with the
	// goroutine, which also discards any affinity applied below.
	runtime.LockOSThread()
	if id, ok := affinity.ThreadID(); ok {
		d.tid.Store(int64(id))
		defer d.tid.Store(0)
	}
	if d.cpu >= 0 {
		if err := affinity.SetAffinity(d.cpu); err != nil {
			d.logger.Warn("dispatch thread pinning failed", "cpu", d.cpu, "error", err)
		} else {
			d.logger.Debug("dispatch thread pinned", "cpu", d.cpu)
		}
	}

	d.logger.Debug("dispatch thread started")
	for {
		ev, ok := d.queue.Pop()
		if !ok {
			break
		}
		d.dispatch(ev)
	}
	d.logger.Debug("dispatch thread stopped",
		"delivered", d.counters.Delivered.Load(),
		"handler_panics", d.counters.HandlerPanics.Load(),
	)
}

// dispatch invokes the handler for one event. A panicking handler is isolated
// to its own event: it is logged and counted, and the loop carries on.
func (d *Dispatcher) dispatch(ev api.Event) {
	if d.aborted.Load() {
		d.counters.DroppedShutdown.Add(1)
		ev.Release()
		return
	}
	d.busy.Store(true)
	defer func() {
		if r := recover(); r != nil {
			d.counters.HandlerPanics.Add(1)
			d.logger.Error("handler panicked",
				"conn", ev.Conn.String(),
				"bytes", len(ev.Data),
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
		ev.Release()
		d.busy.Store(false)
	}()
	d.handler(ev.Conn, ev.Data)
	d.counters.Delivered.Add(1)
}
