package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerCarriesThreadAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelDebug, FormatJSON)

	l.WithThread("worker", 7).WithComponent("rtos").Debug("started", "stack", 1024)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "started", entry["msg"])
	assert.Equal(t, "worker", entry["thread"])
	assert.EqualValues(t, 7, entry["thread_id"])
	assert.Equal(t, "rtos", entry["component"])
	assert.EqualValues(t, 1024, entry["stack"])
}

func TestSetLevelAffectsChildren(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelInfo, FormatText)
	child := l.With("k", "v")

	child.Debug("hidden")
	assert.Empty(t, buf.String())

	l.SetLevel(LevelDebug)
	child.Debug("shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
	assert.Equal(t, LevelDebug, child.Level())
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	l := NewLogger(&bytes.Buffer{}, "verbose", FormatText)
	assert.Equal(t, LevelInfo, l.Level())
}

func TestNopLoggerDiscards(t *testing.T) {
	l := NopLogger()
	l.Error("nothing")
	SetDefault(nil)
	assert.NotNil(t, Default())
}
