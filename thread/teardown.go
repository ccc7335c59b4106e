// File: thread/teardown.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Two-owner release of the kernel thread-control object.

package thread

import (
	"sync/atomic"

	"github.com/momentics/furi-thread/rtos"
)

// shared is a Thread owned by the JoinHandle and by the kernel's stopped
// notification. The release that drops refs to zero frees the kernel
// object.
type shared struct {
	thread Thread
	refs   atomic.Int32
}

func newShared(t Thread) *shared {
	s := &shared{thread: t}
	s.refs.Store(2)
	return s
}

func (s *shared) release() {
	switch n := s.refs.Add(-1); {
	case n == 0:
		kernel.Free(s.thread.raw)
	case n < 0:
		panic("thread: shared thread released more than twice")
	}
}

// runStateCallback drops the kernel's share on the stopped notification,
// which the kernel delivers once, after the body returned.
func runStateCallback(_ *rtos.Thread, state rtos.State, context uintptr) {
	if state != rtos.StateStopped {
		return
	}
	s := kernel.TakeHandle(context).(*shared)
	s.release()
}
