// Package api
// Author: momentics
//
// Live thread introspection for diagnostics.

package api

// Debug exposes runtime introspection of kernel threads.
type Debug interface {
	// DumpState emits a snapshot of system state for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers new debug probes.
	RegisterProbe(name string, fn func() any)
}
