// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control over a kernel using control
// package primitives.

package adapters

import (
	"github.com/momentics/furi-thread/api"
	"github.com/momentics/furi-thread/control"
	"github.com/momentics/furi-thread/rtos"
)

// ControlAdapter keeps a kernel, its settings store, metrics and probes in
// step. Accepted config changes are applied to the kernel.
type ControlAdapter struct {
	kernel  *rtos.Kernel
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

func NewControlAdapter(k *rtos.Kernel) api.Control {
	adapter := &ControlAdapter{
		kernel:  k,
		config:  control.NewConfigStore(),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
	adapter.config.SetConfig(control.SettingsOf(k).Map())
	adapter.config.OnReload(adapter.applyConfig)

	control.RegisterPlatformProbes(adapter.debug)
	adapter.debug.RegisterProbe("threads", func() any { return k.Threads() })
	adapter.debug.RegisterProbe("history", func() any { return k.History() })
	adapter.Refresh()
	return adapter
}

// applyConfig pushes the stored settings to the kernel. Settings that fail
// to decode or apply leave the kernel as it was and are logged.
func (c *ControlAdapter) applyConfig() {
	log := c.kernel.Config().Logger.WithComponent("control")
	s, err := control.SettingsFromMap(c.config.GetSnapshot())
	if err != nil {
		log.Warn("stored settings rejected", "error", err)
		return
	}
	if err := control.Apply(c.kernel, s); err != nil {
		log.Warn("settings not applied", "error", err)
	}
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

// SetConfig validates cfg merged over the current settings before storing
// it, so a rejected change leaves both store and kernel untouched.
func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	merged := c.config.GetSnapshot()
	for k, v := range cfg {
		merged[k] = v
	}
	if _, err := control.SettingsFromMap(merged); err != nil {
		return err
	}
	c.config.SetConfig(cfg)
	return nil
}

// Refresh publishes the kernel counters.
func (c *ControlAdapter) Refresh() {
	st := c.kernel.Stats()
	c.metrics.SetAll(map[string]any{
		"threads.allocated": st.Allocated,
		"threads.freed":     st.Freed,
		"threads.live":      st.Live,
		"threads.started":   st.Started,
		"threads.stopped":   st.Stopped,
		"threads.running":   st.Running,
		"threads.adopted":   st.Adopted,
		"handles.pending":   st.Handles,
	})
}

func (c *ControlAdapter) Stats() map[string]any {
	c.Refresh()
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any)
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	for k, v := range c.config.GetSnapshot() {
		combined["config."+k] = v
	}
	return combined
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
	control.RegisterReloadHook(fn)
}

func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}
