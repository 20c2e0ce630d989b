// File: facade/options.go
// Package facade defines functional options for the NanoNet bridge.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/nanonet/api"
)

// Config holds parameters immutable per bridge.
type Config struct {
	Core             api.Core              // Networking core; defaults to a gocore instance
	DispatchCPU      int                   // CPU for the dispatch thread, -1 = not pinned
	RecycleBuffers   bool                  // Pool payload buffers; handlers must not retain data
	ShutdownTimeout  time.Duration         // Upper bound for draining the queue on Shutdown
	Logger           *slog.Logger          // Structured logger, slog.Default() when nil
	Registerer       prometheus.Registerer // Optional metrics registry
	MetricsNamespace string                // Prefix of exported metric names
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		DispatchCPU:      -1,
		ShutdownTimeout:  30 * time.Second,
		MetricsNamespace: "nanonet",
	}
}

// Option customizes bridge construction.
type Option func(*Config)

// WithCore selects the networking core.
func WithCore(core api.Core) Option {
	return func(c *Config) {
		c.Core = core
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDispatchCPU pins the dispatch thread to cpu.
func WithDispatchCPU(cpu int) Option {
	return func(c *Config) {
		c.DispatchCPU = cpu
	}
}

// WithBufferRecycling copies payloads into pooled buffers that are reused
// once the handler returns. Handlers must copy data they want to keep.
func WithBufferRecycling() Option {
	return func(c *Config) {
		c.RecycleBuffers = true
	}
}

// WithShutdownTimeout bounds how long Shutdown waits for the queue to drain.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ShutdownTimeout = d
	}
}

// WithMetrics registers the bridge counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = reg
	}
}

// WithMetricsNamespace overrides the prefix of exported metric names.
func WithMetricsNamespace(ns string) Option {
	return func(c *Config) {
		if ns != "" {
			c.MetricsNamespace = ns
		}
	}
}
