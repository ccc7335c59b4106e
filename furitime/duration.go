// File: furitime/duration.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Kernel tick durations used by sleeps and flag waits.

package furitime

import (
	"math"
	"time"

	"github.com/momentics/furi-thread/rtos"
)

// Duration is a span of kernel ticks.
type Duration uint32

// WaitForever disables a wait timeout.
const WaitForever = Duration(rtos.WaitForever)

// Zero is a non-blocking timeout.
const Zero Duration = 0

// FromTicks builds a Duration from a raw tick count.
func FromTicks(ticks uint32) Duration {
	return Duration(ticks)
}

// FromDuration converts wall time to ticks of the default kernel, rounding
// up so a non-zero d never becomes a non-blocking zero. Values that do not
// fit saturate just below WaitForever.
func FromDuration(d time.Duration) Duration {
	return fromDuration(d, rtos.Default().TickFrequency())
}

// FromMillis is FromDuration for a millisecond count.
func FromMillis(ms uint32) Duration {
	return FromDuration(time.Duration(ms) * time.Millisecond)
}

func fromDuration(d time.Duration, freq uint32) Duration {
	if d <= 0 {
		return Zero
	}
	period := time.Second / time.Duration(freq)
	ticks := d / period
	if d%period != 0 {
		ticks++
	}
	if ticks >= time.Duration(math.MaxUint32) {
		return WaitForever - 1
	}
	return Duration(ticks)
}

// Ticks returns the raw tick count.
func (d Duration) Ticks() uint32 {
	return uint32(d)
}

// IsForever reports whether d is WaitForever.
func (d Duration) IsForever() bool {
	return d == WaitForever
}

// Std converts d to wall time using the default kernel tick rate.
// WaitForever maps to the maximum time.Duration.
func (d Duration) Std() time.Duration {
	if d.IsForever() {
		return time.Duration(math.MaxInt64)
	}
	return rtos.Default().TicksToDuration(uint32(d))
}

func (d Duration) String() string {
	if d.IsForever() {
		return "forever"
	}
	return d.Std().String()
}
