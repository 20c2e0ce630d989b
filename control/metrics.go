// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Delivery counters for the trampoline and dispatcher. Updated from arbitrary
// core threads, so every field is atomic.

package control

import (
	"sync/atomic"
	"time"
)

// Counter names as exposed by Snapshot and the Prometheus collector.
const (
	MetricEnqueued          = "events_enqueued"
	MetricDelivered         = "events_delivered"
	MetricHandlerPanics     = "handler_panics"
	MetricDroppedNoProducer = "dropped_no_producer"
	MetricDroppedClosed     = "dropped_closed"
	MetricDroppedInvalid    = "dropped_invalid"
	MetricDroppedPanic      = "dropped_panic"
	MetricDroppedShutdown   = "dropped_shutdown"
	MetricBytesReceived     = "bytes_received"
)

// Counters is the set of delivery statistics of one bridge.
type Counters struct {
	Enqueued          atomic.Uint64
	Delivered         atomic.Uint64
	HandlerPanics     atomic.Uint64
	DroppedNoProducer atomic.Uint64
	DroppedClosed     atomic.Uint64
	DroppedInvalid    atomic.Uint64
	DroppedPanic      atomic.Uint64
	DroppedShutdown   atomic.Uint64
	BytesReceived     atomic.Uint64

	started time.Time
}

// NewCounters creates a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{started: time.Now()}
}

// Dropped returns the total of all delivery failures.
func (c *Counters) Dropped() uint64 {
	return c.DroppedNoProducer.Load() +
		c.DroppedClosed.Load() +
		c.DroppedInvalid.Load() +
		c.DroppedPanic.Load() +
		c.DroppedShutdown.Load()
}

// Values returns the counters keyed by metric name.
func (c *Counters) Values() map[string]uint64 {
	return map[string]uint64{
		MetricEnqueued:          c.Enqueued.Load(),
		MetricDelivered:         c.Delivered.Load(),
		MetricHandlerPanics:     c.HandlerPanics.Load(),
		MetricDroppedNoProducer: c.DroppedNoProducer.Load(),
		MetricDroppedClosed:     c.DroppedClosed.Load(),
		MetricDroppedInvalid:    c.DroppedInvalid.Load(),
		MetricDroppedPanic:      c.DroppedPanic.Load(),
		MetricDroppedShutdown:   c.DroppedShutdown.Load(),
		MetricBytesReceived:     c.BytesReceived.Load(),
	}
}

// GetSnapshot returns the latest counters plus uptime.
func (c *Counters) GetSnapshot() map[string]any {
	values := c.Values()
	out := make(map[string]any, len(values)+2)
	for k, v := range values {
		out[k] = v
	}
	out["events_dropped"] = c.Dropped()
	if !c.started.IsZero() {
		out["uptime_seconds"] = time.Since(c.started).Seconds()
	}
	return out
}
