// File: rtos/delay.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package rtos

import (
	"runtime"
	"time"
)

// Yield gives up the rest of the caller's timeslice.
func (k *Kernel) Yield() {
	runtime.Gosched()
}

// DelayUs blocks the caller for at least us microseconds.
func (k *Kernel) DelayUs(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// DelayMs blocks the caller for at least ms milliseconds.
func (k *Kernel) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// DelayTick blocks the caller for at least ticks kernel ticks.
func (k *Kernel) DelayTick(ticks uint32) {
	time.Sleep(k.TicksToDuration(ticks))
}
