// File: thread/flags.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Notification flags. Every call returns the flag word or a *api.StatusError.

package thread

import (
	"github.com/momentics/furi-thread/api"
	"github.com/momentics/furi-thread/furitime"
	"github.com/momentics/furi-thread/rtos"
)

// SetFlags ORs flags into the word of thread id and returns the result.
func SetFlags(id ThreadID, flags uint32) (uint32, error) {
	return flagResult(kernel.FlagsSet(rtos.ThreadID(id), flags))
}

// ClearFlags clears flags on the calling thread and returns the remaining
// flags.
func ClearFlags(flags uint32) (uint32, error) {
	return flagResult(kernel.FlagsClear(flags))
}

// GetFlags returns the calling thread's flags.
func GetFlags() (uint32, error) {
	return flagResult(kernel.FlagsGet())
}

// WaitAnyFlags waits until any bit of flags is set on the calling thread.
// With clear the matched bits are cleared. A zero timeout polls once.
func WaitAnyFlags(flags uint32, clear bool, timeout furitime.Duration) (uint32, error) {
	return waitFlags(flags, rtos.FlagWaitAny, clear, timeout)
}

// WaitAllFlags waits until every bit of flags is set on the calling
// thread.
func WaitAllFlags(flags uint32, clear bool, timeout furitime.Duration) (uint32, error) {
	return waitFlags(flags, rtos.FlagWaitAll, clear, timeout)
}

func waitFlags(flags, options uint32, clear bool, timeout furitime.Duration) (uint32, error) {
	if !clear {
		options |= rtos.FlagNoClear
	}
	return flagResult(kernel.FlagsWait(flags, options, timeout.Ticks()))
}

func flagResult(w uint32) (uint32, error) {
	if rtos.IsErrorWord(w) {
		return 0, api.Status(int32(w)).Err()
	}
	return w, nil
}
