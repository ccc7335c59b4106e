package thread

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/furi-thread/furitime"
)

func TestSleepBlocksAtLeast(t *testing.T) {
	start := time.Now()
	Sleep(3 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)

	start = time.Now()
	SleepTicks(furitime.FromTicks(2))
	assert.GreaterOrEqual(t, time.Since(start), kernel.TicksToDuration(2))
}

func TestSleepZeroAndNegative(t *testing.T) {
	assert.NotPanics(t, func() {
		Sleep(0)
		Sleep(-time.Second)
		YieldNow()
	})
}

func TestSleepRejectsOversize(t *testing.T) {
	assert.PanicsWithValue(t, "sleep exceeds maximum supported duration", func() {
		Sleep(MaxSleep + time.Millisecond)
	})
}

func TestSleepDelayUnits(t *testing.T) {
	cases := []struct {
		d  time.Duration
		n  uint32
		ms bool
	}{
		{-time.Second, 0, false},
		{1500 * time.Microsecond, 1500, false},
		{time.Hour - time.Microsecond, 3599999999, false},
		{time.Hour, 3600000, true},
		{time.Duration(1<<32)*time.Microsecond + time.Microsecond, 4294967, true},
		{MaxSleep, math.MaxUint32, true},
	}
	for _, tc := range cases {
		n, ms := sleepDelay(tc.d)
		assert.Equal(t, tc.n, n, tc.d.String())
		assert.Equal(t, tc.ms, ms, tc.d.String())
	}
}
