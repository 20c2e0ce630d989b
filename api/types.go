// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

// State enumerates the lifecycle of a bridge.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateRunning
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateShutdown:
		return "shutdown"
	default:
		return "uninitialized"
	}
}
