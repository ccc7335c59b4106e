package control

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreMergeAndListeners(t *testing.T) {
	cs := NewConfigStore()
	assert.Empty(t, cs.GetSnapshot())

	calls := 0
	cs.OnReload(func() {
		calls++
		v, ok := cs.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
	})
	cs.SetConfig(map[string]any{"k": 1})
	cs.SetConfig(map[string]any{"x": 2})
	assert.Equal(t, 2, calls)

	snap := cs.GetSnapshot()
	assert.Equal(t, map[string]any{"k": 1, "x": 2}, snap)

	snap["k"] = 99
	v, _ := cs.Get("k")
	assert.Equal(t, 1, v)
}

func TestMetricsRegistry(t *testing.T) {
	mr := NewMetricsRegistry()
	assert.True(t, mr.Updated().IsZero())

	mr.Set("a", 1)
	mr.SetAll(map[string]any{"b": 2, "c": 3})
	assert.False(t, mr.Updated().IsZero())
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 3}, mr.GetSnapshot())
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	RegisterPlatformProbes(dp)
	dp.RegisterProbe("answer", func() any { return 42 })

	names := dp.Names()
	require.Contains(t, names, "answer")
	require.Contains(t, names, "platform.cpus")
	assert.IsIncreasing(t, names)

	state := dp.DumpState()
	assert.Equal(t, 42, state["answer"])
	assert.Positive(t, state["platform.cpus"])
}

func TestHotReloadHooks(t *testing.T) {
	var fired atomic.Int32
	RegisterReloadHook(func() { fired.Add(1) })
	TriggerHotReloadSync()
	assert.EqualValues(t, 1, fired.Load())
}
