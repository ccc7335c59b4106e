// Package control
// Author: momentics <momentics@gmail.com>
//
// Kernel settings, hot reload, runtime metrics and debug introspection for
// the furi-thread kernel.
//
// Provides concurrent-safe state handling primitives including:
//   - Settings loading from file, FURI_ environment and defaults (viper)
//   - File watching with reload hooks (fsnotify)
//   - Snapshot config reads and merged updates
//   - Metrics registry and debug probe registration
//
// Platform probes are build-tag-partitioned.
package control
