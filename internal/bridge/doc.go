// File: internal/bridge/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package bridge holds the registration slot and the trampoline: the code that
// runs on core threads. Everything here must return promptly and must never
// let a panic escape, because the caller may be a C frame.
package bridge
