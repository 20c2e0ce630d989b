// File: api/handler.go
// Package api defines the application-facing handler contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Handler processes one received payload. It is always called from the
// dispatch thread, one event at a time, in enqueue order.
//
// data is owned by the handler unless buffer recycling is enabled on the
// bridge, in which case it is only valid until the handler returns.
type Handler func(conn ConnectionHandle, data []byte)

// Event is an owned notification travelling from the trampoline to the
// dispatch thread.
type Event struct {
	Conn ConnectionHandle
	Data []byte

	// release, when set, returns Data to its allocator after dispatch.
	release func([]byte)
}

// NewEvent builds an event whose payload is released with fn after the
// handler returns. fn may be nil.
func NewEvent(conn ConnectionHandle, data []byte, fn func([]byte)) Event {
	return Event{Conn: conn, Data: data, release: fn}
}

// Release hands the payload back to its allocator, if any.
func (e *Event) Release() {
	if e.release != nil && e.Data != nil {
		e.release(e.Data)
	}
	e.Data = nil
	e.release = nil
}
