// File: api/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-owning connection handle handed out by the foreign core.

package api

import "fmt"

// ConnectionHandle is an opaque, non-owning reference to a connection that
// lives inside the core. The token is never dereferenced on the Go side; it is
// only passed back to the core or shown to the application. Its validity window
// is defined by the core and covers at least the handler invocation.
type ConnectionHandle struct {
	token uintptr
}

// NewConnectionHandle wraps a raw token supplied by the core.
func NewConnectionHandle(token uintptr) ConnectionHandle {
	return ConnectionHandle{token: token}
}

// Raw returns the token for calls that need it back.
func (h ConnectionHandle) Raw() uintptr {
	return h.token
}

// IsZero reports whether the handle carries a null token.
func (h ConnectionHandle) IsZero() bool {
	return h.token == 0
}

func (h ConnectionHandle) String() string {
	return fmt.Sprintf("conn(0x%x)", h.token)
}
