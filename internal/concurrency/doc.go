// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives of the callback bridge: the multi-producer event
// queue fed by the trampoline, and the dispatcher that drains it on a
// dedicated OS thread, optionally pinned to a CPU.
package concurrency
