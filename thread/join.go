// File: thread/join.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"context"
	"runtime"
	"sync/atomic"
)

// JoinHandle is the application's owning reference to a spawned thread.
// Join and Detach dispose of it; any later use panics. A handle that is
// garbage collected without being disposed detaches its thread.
type JoinHandle struct {
	s atomic.Pointer[shared]
}

func newJoinHandle(s *shared) *JoinHandle {
	h := &JoinHandle{}
	h.s.Store(s)
	runtime.SetFinalizer(h, (*JoinHandle).finalize)
	return h
}

func (h *JoinHandle) load() *shared {
	s := h.s.Load()
	if s == nil {
		panic("thread: join handle used after disposal")
	}
	return s
}

// take disposes of h and hands its share to the caller.
func (h *JoinHandle) take() *shared {
	s := h.s.Swap(nil)
	if s == nil {
		panic("thread: join handle used after disposal")
	}
	runtime.SetFinalizer(h, nil)
	return s
}

func (h *JoinHandle) finalize() {
	if s := h.s.Swap(nil); s != nil {
		s.release()
	}
}

// Thread returns the spawned thread. The result keeps h reachable and is
// valid until h is disposed.
func (h *JoinHandle) Thread() *Thread {
	t := h.load().thread
	t.owner = h
	return &t
}

// Join blocks until the thread body returns, disposes of h and returns the
// body's exit code.
func (h *JoinHandle) Join() int32 {
	s := h.take()
	kernel.Join(s.thread.raw)
	code := kernel.GetReturnCode(s.thread.raw)
	s.release()
	return code
}

// JoinContext is Join bounded by ctx. On ctx expiry h stays usable and the
// context error is returned.
func (h *JoinHandle) JoinContext(ctx context.Context) (int32, error) {
	defer runtime.KeepAlive(h)
	if err := kernel.JoinContext(ctx, h.load().thread.raw); err != nil {
		return 0, err
	}
	return h.Join(), nil
}

// IsFinished reports whether the body has returned. Once it is true Join
// returns without blocking.
func (h *JoinHandle) IsFinished() bool {
	defer runtime.KeepAlive(h)
	return kernel.GetID(h.load().thread.raw) == 0
}

// Detach disposes of h without waiting. The thread keeps running and its
// kernel object is freed when it stops.
func (h *JoinHandle) Detach() {
	h.take().release()
}

func (h *JoinHandle) String() string {
	return "JoinHandle{..}"
}
