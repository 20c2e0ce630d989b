// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for nanonet.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrShutdown        = errors.New("bridge is shut down")
	ErrNotSupported    = errors.New("operation not supported")
	ErrQueueClosed     = errors.New("event queue is closed")
)

// ErrorCode classifies construction outcomes.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeAddressEncoding
	ErrCodeInitialization
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeAddressEncoding:
		return "address_encoding"
	case ErrCodeInitialization:
		return "initialization"
	default:
		return "unknown"
	}
}

// AddressEncodingError reports an address that cannot be handed to the core
// as a NUL-terminated string.
type AddressEncodingError struct {
	Address string
	Index   int // offset of the first NUL byte
}

func (e *AddressEncodingError) Error() string {
	return fmt.Sprintf("address %q contains NUL byte at offset %d", e.Address, e.Index)
}

// Code implements Coder.
func (e *AddressEncodingError) Code() ErrorCode { return ErrCodeAddressEncoding }

// InitializationError carries the status code returned by a core that
// refused to initialize.
type InitializationError struct {
	Status int32
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("core initialization failed with status %d", e.Status)
}

// Code implements Coder.
func (e *InitializationError) Code() ErrorCode { return ErrCodeInitialization }

// Coder is implemented by errors that carry an ErrorCode.
type Coder interface {
	Code() ErrorCode
}

// CodeOf extracts the ErrorCode of err, or ErrCodeOK for nil.
func CodeOf(err error) (ErrorCode, bool) {
	if err == nil {
		return ErrCodeOK, true
	}
	var c Coder
	if errors.As(err, &c) {
		return c.Code(), true
	}
	return 0, false
}
