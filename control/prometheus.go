// control/prometheus.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus view over Counters. Values are read at scrape time, so the hot
// path only ever touches atomics.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ensure compile-time interface compliance.
var _ prometheus.Collector = (*Collector)(nil)

var counterHelp = map[string]string{
	MetricEnqueued:          "Events accepted by the trampoline and queued for dispatch",
	MetricDelivered:         "Events handed to the application handler",
	MetricHandlerPanics:     "Handler invocations that panicked and were isolated",
	MetricDroppedNoProducer: "Notifications dropped because no producer was registered",
	MetricDroppedClosed:     "Notifications dropped because the event queue was closed",
	MetricDroppedInvalid:    "Notifications dropped because of an invalid buffer or length",
	MetricDroppedPanic:      "Notifications dropped because the trampoline recovered a panic",
	MetricDroppedShutdown:   "Queued events discarded by a shutdown deadline",
	MetricBytesReceived:     "Payload bytes copied out of core buffers",
}

// Collector exports a Counters set as Prometheus counters.
type Collector struct {
	counters *Counters
	pending  func() int
	descs    map[string]*prometheus.Desc
	queueLen *prometheus.Desc
}

// NewCollector builds a collector. pending, when non-nil, reports the current
// queue depth as a gauge. constLabels distinguishes bridges in one registry.
func NewCollector(namespace string, counters *Counters, pending func() int, constLabels prometheus.Labels) *Collector {
	c := &Collector{
		counters: counters,
		pending:  pending,
		descs:    make(map[string]*prometheus.Desc, len(counterHelp)),
		queueLen: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "bridge", "queue_depth"),
			"Events waiting for the dispatcher",
			nil, constLabels,
		),
	}
	for name, help := range counterHelp {
		c.descs[name] = prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "bridge", name+"_total"),
			help, nil, constLabels,
		)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
	ch <- c.queueLen
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, v := range c.counters.Values() {
		d, ok := c.descs[name]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	depth := 0
	if c.pending != nil {
		depth = c.pending()
	}
	ch <- prometheus.MustNewConstMetric(c.queueLen, prometheus.GaugeValue, float64(depth))
}
