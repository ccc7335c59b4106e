package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/furi-thread/furitime"
	"github.com/momentics/furi-thread/rtos"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunScenario(t *testing.T) {
	out, err := execute(t, "run", "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "setter exit code: 42")
	assert.Contains(t, out, "setter flags:     0x1")
	assert.Contains(t, out, "waiter observed:  0x1")
	assert.Contains(t, out, "waiter remaining: 0")
}

func TestHandOffCustomFlag(t *testing.T) {
	r, err := handOff(0x40, -3, furitime.FromMillis(1000))
	require.NoError(t, err)
	assert.Equal(t, int32(-3), r.exitCode)
	assert.NoError(t, r.waitErr)
	assert.Equal(t, uint32(0x40), r.observed&0x40)
	assert.Zero(t, r.remaining&0x40)
}

func TestHandOffRejectsErrorBit(t *testing.T) {
	r, err := handOff(0x80000000, 1, furitime.Zero)
	assert.Error(t, err)
	assert.Error(t, r.waitErr)
	assert.Equal(t, int32(-1), r.exitCode)
}

func TestStress(t *testing.T) {
	before := rtos.Default().Stats()
	rep := stress(48, 6, 0, true, false)
	assert.Equal(t, 48, rep.Spawned)
	assert.Equal(t, 24, rep.Joined)
	assert.Equal(t, 24, rep.Detached)
	assert.Zero(t, rep.Mismatched)

	assert.Eventually(t, func() bool {
		return rtos.Default().Stats().Live == before.Live
	}, 5*time.Second, time.Millisecond)

	out, err := execute(t, "stress", "-n", "16", "--spawners", "4", "--detach=false")
	require.NoError(t, err)
	assert.Contains(t, out, "spawned 16 threads")
	assert.Contains(t, out, "threads.started")
}

func TestPs(t *testing.T) {
	out, err := execute(t, "ps", "-n", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Threads")
	assert.Contains(t, out, "sample-0")
	assert.Contains(t, out, "sample-2")
	assert.Contains(t, out, "Exit history")
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "furi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history_depth: 7\n"), 0o644))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "history_depth")
	assert.Contains(t, out, "7")
	assert.Equal(t, 7, rtos.Default().Config().HistoryDepth)

	out, err = execute(t, "config", "--config", "", "--set", "heap_track_mode=tree")
	require.NoError(t, err)
	assert.Contains(t, out, "tree")
	assert.Equal(t, rtos.HeapTrackTree, rtos.Default().Config().HeapTrackMode)

	_, err = execute(t, "config", "--set", "heap_track_mode=sometimes")
	assert.Error(t, err)
	_, err = execute(t, "config", "--set", "no_such_key=1")
	assert.Error(t, err)
	_, err = execute(t, "config", "--set", "missing-equals")
	assert.Error(t, err)

	configSet = nil
}
