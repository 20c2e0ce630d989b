// File: internal/bridge/slot.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registration slot: holder of the active event producer, read on every
// trampoline call and written on construction and teardown.

package bridge

import (
	"log/slog"
	"sync/atomic"

	"github.com/momentics/nanonet/api"
	"github.com/momentics/nanonet/control"
)

// Producer is the sending side of the event channel.
type Producer interface {
	Push(ev api.Event) error
}

// producerRef boxes the interface so it can live in an atomic.Pointer.
type producerRef struct {
	p Producer
}

// SlotConfig tunes a Slot. The zero value is usable.
type SlotConfig struct {
	// RecycleBuffers copies payloads into pooled memory that is returned
	// after the handler finishes. Handlers must then not retain data.
	RecycleBuffers bool

	Logger   *slog.Logger
	Counters *control.Counters
}

// Slot holds at most one producer. Readers observe either no producer or a
// fully constructed one.
type Slot struct {
	producer atomic.Pointer[producerRef]
	recycle  bool
	logger   *slog.Logger
	counters *control.Counters
}

// NewSlot returns an empty slot.
func NewSlot(cfg SlotConfig) *Slot {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Counters == nil {
		cfg.Counters = control.NewCounters()
	}
	return &Slot{
		recycle:  cfg.RecycleBuffers,
		logger:   cfg.Logger.With("component", "slot"),
		counters: cfg.Counters,
	}
}

// Register stores p, replacing any previous producer.
func (s *Slot) Register(p Producer) {
	if old := s.producer.Swap(&producerRef{p: p}); old != nil {
		s.logger.Warn("registration slot overwritten while a producer was live")
	}
}

// Clear removes the producer and reports whether one was present.
// Notifications arriving afterwards are dropped.
func (s *Slot) Clear() bool {
	return s.producer.Swap(nil) != nil
}

// Registered reports whether a producer is present.
func (s *Slot) Registered() bool {
	return s.producer.Load() != nil
}

// Notify forwards an owned payload to the registered producer. release, if
// non-nil, is invoked when the payload is not accepted. Failures are counted
// and never reported to the caller: a core cannot act on a refusal.
func (s *Slot) Notify(conn api.ConnectionHandle, data []byte, release func([]byte)) {
	ref := s.producer.Load()
	if ref == nil {
		s.drop(&s.counters.DroppedNoProducer, "no producer registered", conn, data, release)
		return
	}
	s.push(ref.p, api.NewEvent(conn, data, release))
}

func (s *Slot) push(p Producer, ev api.Event) {
	if err := p.Push(ev); err != nil {
		// The only producer error is a closed queue: the consumer is gone.
		s.drop(&s.counters.DroppedClosed, err.Error(), ev.Conn, ev.Data, nil)
		ev.Release()
		return
	}
	s.counters.Enqueued.Add(1)
	s.counters.BytesReceived.Add(uint64(len(ev.Data)))
}

func (s *Slot) drop(counter *atomic.Uint64, reason string, conn api.ConnectionHandle, data []byte, release func([]byte)) {
	counter.Add(1)
	if release != nil && data != nil {
		release(data)
	}
	s.logger.Debug("notification dropped", "reason", reason, "conn", conn.String(), "bytes", len(data))
}
