// File: internal/concurrency/pin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-generic thread locking helpers.

package concurrency

import "runtime"

// LockCurrentThread wires the calling goroutine to its OS thread and
// returns the native id of that thread. The goroutine must stay locked for
// the id to remain meaningful.
func LockCurrentThread() uint64 {
	runtime.LockOSThread()
	return CurrentThreadID()
}

// UnlockCurrentThread undoes one LockCurrentThread call.
func UnlockCurrentThread() {
	runtime.UnlockOSThread()
}

// CurrentThreadID returns the native id of the calling OS thread.
// Without LockCurrentThread the goroutine may migrate right after the call.
func CurrentThreadID() uint64 {
	return platformThreadID()
}
