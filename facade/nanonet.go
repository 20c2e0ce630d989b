// File: facade/nanonet.go
// Unified facade over the callback bridge.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// NanoNet ties the pieces together: it registers the trampoline with the
// core, owns the event queue and the dispatch thread, and walks the lifecycle
// Uninitialized -> Ready -> Running -> Shutdown.

package facade

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/nanonet/api"
	"github.com/momentics/nanonet/control"
	"github.com/momentics/nanonet/gocore"
	"github.com/momentics/nanonet/internal/bridge"
	"github.com/momentics/nanonet/internal/concurrency"
)

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*NanoNet)(nil)

// NanoNet is a constructed bridge. It is safe for concurrent use.
type NanoNet struct {
	config *Config
	core   api.Core
	addr   string
	port   uint16

	slot       *bridge.Slot
	queue      *concurrency.EventQueue
	dispatcher *concurrency.Dispatcher
	counters   *control.Counters
	control    *control.Controller
	collector  prometheus.Collector
	logger     *slog.Logger

	state        atomic.Int32
	shutdownOnce sync.Once
	shutdownErr  error
}

// New validates addr, registers the trampoline with the core and starts the
// dispatch thread bound to handler. On error nothing is left running: the
// slot is empty, the queue is closed and no dispatch thread exists.
//
// Errors are *api.AddressEncodingError when addr holds a NUL byte (the core
// is not called), or *api.InitializationError carrying the core's status.
func New(addr string, port uint16, handler api.Handler, opts ...Option) (*NanoNet, error) {
	if handler == nil {
		return nil, fmt.Errorf("nil handler: %w", api.ErrInvalidArgument)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if i := strings.IndexByte(addr, 0); i >= 0 {
		return nil, &api.AddressEncodingError{Address: addr, Index: i}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Core == nil {
		cfg.Core = gocore.New(gocore.DefaultOptions(), gocore.WithLogger(cfg.Logger))
	}

	n := &NanoNet{
		config:   cfg,
		core:     cfg.Core,
		addr:     addr,
		port:     port,
		counters: control.NewCounters(),
		logger:   cfg.Logger.With("component", "nanonet", "addr", addr, "port", port),
	}
	n.queue = concurrency.NewEventQueue()
	n.slot = bridge.NewSlot(bridge.SlotConfig{
		RecycleBuffers: cfg.RecycleBuffers,
		Logger:         cfg.Logger,
		Counters:       n.counters,
	})
	n.slot.Register(n.queue)

	if status := n.core.Initialize(addr, port, n.slot.Trampoline); status != 0 {
		n.slot.Clear()
		n.queue.Close()
		n.queue.Discard()
		n.logger.Error("core initialization failed", "status", status)
		return nil, &api.InitializationError{Status: status}
	}

	// Notifications that arrive before the dispatcher runs wait in the queue.
	n.dispatcher = concurrency.NewDispatcher(n.queue, handler, concurrency.DispatcherConfig{
		CPU:      cfg.DispatchCPU,
		Logger:   cfg.Logger,
		Counters: n.counters,
	})
	n.dispatcher.Start()

	n.control = control.NewController(map[string]any{
		"address":          addr,
		"port":             port,
		"dispatch_cpu":     cfg.DispatchCPU,
		"recycle_buffers":  cfg.RecycleBuffers,
		"shutdown_timeout": cfg.ShutdownTimeout.String(),
		"core":             fmt.Sprintf("%T", n.core),
	}, n.counters, control.NewDebugProbes(cfg.Logger))
	n.registerProbes()
	n.registerMetrics()

	n.state.Store(int32(api.StateReady))
	n.logger.Info("bridge ready")
	return n, nil
}

// Run hands control to the core's start primitive and blocks for as long as
// the core keeps it. Calling Run on a running bridge is allowed; after
// Shutdown it returns api.ErrShutdown.
func (n *NanoNet) Run() error {
	for {
		s := api.State(n.state.Load())
		if s == api.StateShutdown {
			return api.ErrShutdown
		}
		if s == api.StateRunning || n.state.CompareAndSwap(int32(s), int32(api.StateRunning)) {
			break
		}
	}
	n.logger.Info("core starting")
	n.core.Start()
	n.logger.Debug("core start returned", "state", n.State().String())
	return nil
}

// Shutdown stops the core, closes the event queue and joins the dispatch
// thread, draining events that were queued before the call. It waits at most
// Config.ShutdownTimeout. Repeated calls return the first result.
func (n *NanoNet) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), n.config.ShutdownTimeout)
	defer cancel()
	return n.ShutdownContext(ctx)
}

// ShutdownContext is Shutdown bounded by ctx. When ctx ends before the queue
// drains, remaining events are discarded and ctx.Err() is returned. A handler
// invocation already running is not interrupted.
//
// Called from inside the handler, it closes the queue without waiting: the
// events already queued are still delivered after the handler returns, and
// Done reports when the dispatch thread has exited.
func (n *NanoNet) ShutdownContext(ctx context.Context) error {
	n.shutdownOnce.Do(func() {
		n.shutdownErr = n.shutdown(ctx)
	})
	return n.shutdownErr
}

func (n *NanoNet) shutdown(ctx context.Context) error {
	prev := api.State(n.state.Swap(int32(api.StateShutdown)))
	n.logger.Info("bridge shutting down", "from", prev.String(), "pending", n.queue.Len())

	n.core.Shutdown()
	n.slot.Clear()
	n.queue.Close()

	var err error
	if n.dispatcher.OnDispatchThread() {
		// Called from the handler: the dispatch thread drains the closed
		// queue once the handler returns and exits on its own.
		n.logger.Debug("shutdown requested from handler, not joining dispatch thread")
	} else {
		err = n.dispatcher.Wait(ctx)
	}
	if err != nil {
		n.dispatcher.Abort()
		dropped := n.queue.Discard()
		n.counters.DroppedShutdown.Add(uint64(dropped))
		n.logger.Warn("shutdown deadline reached, pending events discarded",
			"discarded", dropped, "error", err)
	}
	if n.collector != nil {
		n.config.Registerer.Unregister(n.collector)
	}
	n.logger.Info("bridge stopped",
		"delivered", n.counters.Delivered.Load(),
		"dropped", n.counters.Dropped(),
	)
	return err
}

// State returns the current lifecycle state.
func (n *NanoNet) State() api.State {
	return api.State(n.state.Load())
}

// Address returns the address and port passed to New.
func (n *NanoNet) Address() (string, uint16) {
	return n.addr, n.port
}

// Pending returns the number of events waiting for the dispatch thread.
func (n *NanoNet) Pending() int {
	return n.queue.Len()
}

// Stats returns delivery counters and debug probe output.
func (n *NanoNet) Stats() map[string]any {
	return n.control.Stats()
}

// GetControl returns the Control interface of the bridge.
func (n *NanoNet) GetControl() api.Control {
	return n.control
}

// Done is closed once the dispatch thread has exited.
func (n *NanoNet) Done() <-chan struct{} {
	return n.dispatcher.Done()
}

func (n *NanoNet) registerProbes() {
	n.control.RegisterDebugProbe("state", func() any { return n.State().String() })
	n.control.RegisterDebugProbe("queue_depth", func() any { return n.queue.Len() })
	n.control.RegisterDebugProbe("dispatcher_busy", func() any { return n.dispatcher.Busy() })
	n.control.RegisterDebugProbe("slot_registered", func() any { return n.slot.Registered() })
}

func (n *NanoNet) registerMetrics() {
	if n.config.Registerer == nil {
		return
	}
	col := control.NewCollector(n.config.MetricsNamespace, n.counters, n.queue.Len, prometheus.Labels{
		"listen": net.JoinHostPort(n.addr, strconv.Itoa(int(n.port))),
	})
	if err := n.config.Registerer.Register(col); err != nil {
		// Metrics are diagnostics; a clash must not fail an initialized core.
		n.logger.Warn("metrics registration failed", "error", err)
		return
	}
	n.collector = col
}
