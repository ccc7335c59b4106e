// File: thread/sleep.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"math"
	"time"

	"github.com/momentics/furi-thread/furitime"
)

// MaxSleep is the longest duration Sleep accepts: math.MaxUint32
// milliseconds, about 49.7 days. It is not a microsecond bound, so a sleep
// of 2^32 microseconds (about 71.6 minutes) or more is valid.
const MaxSleep = time.Duration(math.MaxUint32) * time.Millisecond

// YieldNow gives up the rest of the calling thread's time slice.
func YieldNow() {
	kernel.Yield()
}

// Sleep blocks the calling thread for at least d. Durations below an hour
// use microsecond resolution, longer ones millisecond resolution. Sleep
// panics when d exceeds MaxSleep.
func Sleep(d time.Duration) {
	n, ms := sleepDelay(d)
	if ms {
		kernel.DelayMs(n)
		return
	}
	kernel.DelayUs(n)
}

// sleepDelay converts d to a kernel delay count in microseconds, or in
// milliseconds when ms is true.
func sleepDelay(d time.Duration) (n uint32, ms bool) {
	if d > MaxSleep {
		panic("sleep exceeds maximum supported duration")
	}
	if d < 0 {
		d = 0
	}
	if d < time.Hour {
		return uint32(d / time.Microsecond), false
	}
	return uint32(d / time.Millisecond), true
}

// SleepTicks blocks the calling thread for d kernel ticks.
func SleepTicks(d furitime.Duration) {
	kernel.DelayTick(d.Ticks())
}
