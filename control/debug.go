// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Probe registry for live kernel inspection.

package control

import (
	"sort"
	"sync"

	"github.com/momentics/furi-thread/api"
)

var _ api.Debug = (*DebugProbes)(nil)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// Names lists registered probes in order.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	names := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DumpState returns output of all probes. Probes run outside the registry
// lock so they may register further probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	probes := make(map[string]func() any, len(dp.probes))
	for k, fn := range dp.probes {
		probes[k] = fn
	}
	dp.mu.RUnlock()

	out := make(map[string]any, len(probes))
	for k, fn := range probes {
		out[k] = fn()
	}
	return out
}
