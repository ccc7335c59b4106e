// File: rtos/flags.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-thread 32-bit notification flags. Results are raw words: when
// FlagError is set the word is a negated api.Status.

package rtos

import (
	"time"

	"github.com/momentics/furi-thread/api"
)

const (
	// FlagError marks a result word as an error status.
	FlagError uint32 = 0x80000000

	// Wait options.
	FlagWaitAny uint32 = 0x00000000
	FlagWaitAll uint32 = 0x00000001
	FlagNoClear uint32 = 0x00000002

	// WaitForever disables the wait timeout.
	WaitForever uint32 = 0xFFFFFFFF
)

// ErrorWord encodes a failing status as a flag result word.
func ErrorWord(s api.Status) uint32 {
	return uint32(int32(s))
}

// IsErrorWord reports whether a flag result carries the error bit.
func IsErrorWord(w uint32) bool {
	return w&FlagError != 0
}

// FlagsSet ORs flags into the word of thread id and wakes it. It returns
// the resulting flags.
func (k *Kernel) FlagsSet(id ThreadID, flags uint32) uint32 {
	if flags&FlagError != 0 {
		return ErrorWord(api.StatusErrorParameter)
	}
	tk := k.lookup(id)
	if tk == nil {
		return ErrorWord(api.StatusErrorParameter)
	}
	tk.flagsMu.Lock()
	tk.flags |= flags
	r := tk.flags
	tk.flagsMu.Unlock()
	tk.notify()
	return r
}

// FlagsClear clears flags on the calling thread and returns the resulting
// flags. Callers that are not kernel threads get a parameter error.
func (k *Kernel) FlagsClear(flags uint32) uint32 {
	if flags&FlagError != 0 {
		return ErrorWord(api.StatusErrorParameter)
	}
	tk := k.lookupCurrent()
	if tk == nil {
		return ErrorWord(api.StatusErrorParameter)
	}
	tk.flagsMu.Lock()
	tk.flags &^= flags
	r := tk.flags
	tk.flagsMu.Unlock()
	return r
}

// FlagsGet returns the calling thread's flags.
func (k *Kernel) FlagsGet() uint32 {
	tk := k.lookupCurrent()
	if tk == nil {
		return ErrorWord(api.StatusErrorParameter)
	}
	tk.flagsMu.Lock()
	defer tk.flagsMu.Unlock()
	return tk.flags
}

// FlagsWait blocks the calling thread until any (FlagWaitAny) or all
// (FlagWaitAll) of flags are set, or timeout ticks elapse. Unless
// FlagNoClear is given the awaited bits are cleared on success. The
// returned word holds the flags observed before clearing.
func (k *Kernel) FlagsWait(flags, options, timeout uint32) uint32 {
	if flags == 0 || flags&FlagError != 0 {
		return ErrorWord(api.StatusErrorParameter)
	}
	tk := k.lookupCurrent()
	if tk == nil {
		return ErrorWord(api.StatusErrorParameter)
	}

	var expired <-chan time.Time
	if timeout != 0 && timeout != WaitForever {
		timer := time.NewTimer(k.TicksToDuration(timeout))
		defer timer.Stop()
		expired = timer.C
	}

	for {
		tk.flagsMu.Lock()
		cur := tk.flags
		var matched bool
		if options&FlagWaitAll != 0 {
			matched = cur&flags == flags
		} else {
			matched = cur&flags != 0
		}
		if matched {
			if options&FlagNoClear == 0 {
				tk.flags &^= flags
			}
			tk.flagsMu.Unlock()
			return cur
		}
		tk.flagsMu.Unlock()

		if timeout == 0 {
			return ErrorWord(api.StatusErrorTimeout)
		}
		select {
		case <-tk.wake:
		case <-expired:
			return ErrorWord(api.StatusErrorTimeout)
		}
	}
}
