package furitime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromDurationRoundsUp(t *testing.T) {
	cases := []struct {
		in   time.Duration
		freq uint32
		want Duration
	}{
		{0, 1000, Zero},
		{-time.Second, 1000, Zero},
		{time.Microsecond, 1000, 1},
		{time.Millisecond, 1000, 1},
		{1500 * time.Microsecond, 1000, 2},
		{time.Second, 100, 100},
		{15 * time.Millisecond, 100, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, fromDuration(tc.in, tc.freq), "%v @ %d Hz", tc.in, tc.freq)
	}
}

func TestFromDurationSaturates(t *testing.T) {
	d := fromDuration(time.Duration(math.MaxInt64), 1000)
	assert.Equal(t, WaitForever-1, d)
	assert.False(t, d.IsForever())
}

func TestStd(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, FromTicks(250).Std())
	assert.Equal(t, time.Duration(math.MaxInt64), WaitForever.Std())
	assert.Equal(t, "forever", WaitForever.String())
	assert.Equal(t, uint32(42), FromMillis(42).Ticks())
}
