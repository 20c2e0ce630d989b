// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime counters, configuration snapshot and debug introspection for the
// callback bridge.
//
// Provides concurrent-safe state handling primitives including:
//   - Lock-free delivery counters updated from core threads
//   - Immutable configuration snapshots
//   - Debug probe registration and state export
//   - A Prometheus collector over the counters
package control
