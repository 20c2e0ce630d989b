// File: internal/bridge/trampoline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Trampoline: converts a raw (token, pointer, length) notification into an
// owned event. The raw pointer is never retained past the call.

package bridge

import (
	"runtime/debug"
	"unsafe"

	"github.com/bytedance/gopkg/lang/dirtmake"
	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/momentics/nanonet/api"
)

// Ensure compile-time signature compliance.
var _ api.Trampoline = (*Slot)(nil).Trampoline

// Trampoline implements api.Trampoline on top of the slot. It trusts the
// core for the validity of data[0:length] during the call and copies exactly
// length bytes. It never panics.
func (s *Slot) Trampoline(token uintptr, data unsafe.Pointer, length int32) {
	defer func() {
		if r := recover(); r != nil {
			s.counters.DroppedPanic.Add(1)
			s.logger.Error("trampoline recovered panic",
				"token", token,
				"length", length,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	conn := api.NewConnectionHandle(token)
	if length < 0 || (data == nil && length > 0) {
		s.drop(&s.counters.DroppedInvalid, "invalid buffer", conn, nil, nil)
		return
	}
	payload, release := s.copyPayload(data, int(length))
	s.Notify(conn, payload, release)
}

// copyPayload copies n bytes out of core memory.
func (s *Slot) copyPayload(data unsafe.Pointer, n int) ([]byte, func([]byte)) {
	if n == 0 {
		return []byte{}, nil
	}
	src := unsafe.Slice((*byte)(data), n)
	if s.recycle {
		buf := mcache.Malloc(n)
		copy(buf, src)
		return buf, mcache.Free
	}
	// Fully overwritten below, so skip zeroing.
	buf := dirtmake.Bytes(n, n)
	copy(buf, src)
	return buf, nil
}
