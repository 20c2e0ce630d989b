// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package native binds the asynchronous C networking core (libasync_core)
// through cgo. It is compiled only with the build tags "cgo nanonet_native";
// otherwise NewCore reports api.ErrNotSupported.
//
// The C API takes a bare function pointer with no user-data argument, so the
// package keeps one process-wide trampoline. Only one native core may be
// initialized per process at a time; a second Initialize while the first is
// live returns StatusBusy without calling into C.
package native
