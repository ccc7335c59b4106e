// File: rtos/current.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Calling-thread lookup and scoped adoption of OS threads the kernel did
// not start.

package rtos

import (
	"github.com/momentics/furi-thread/internal/concurrency"
)

// lookupCurrent returns the task bound to the calling OS thread, if any.
func (k *Kernel) lookupCurrent() *task {
	osid := concurrency.CurrentThreadID()
	k.mu.RLock()
	tk, ok := k.byOS.Get(osid)
	k.mu.RUnlock()
	if !ok || tk.finished() {
		return nil
	}
	return tk
}

// GetCurrent returns the thread-control object of the caller, nil when the
// caller is not a kernel thread.
func (k *Kernel) GetCurrent() *Thread {
	if tk := k.lookupCurrent(); tk != nil {
		return tk.thread
	}
	return nil
}

// GetCurrentID returns the id of the calling thread, zero when the caller
// is not a kernel thread.
func (k *Kernel) GetCurrentID() ThreadID {
	if tk := k.lookupCurrent(); tk != nil {
		return tk.id
	}
	return 0
}

// RunAdopted runs fn with the calling goroutine registered as a kernel
// thread carrying a raw name, stored without validation. The registration
// is dropped when fn returns or panics. Calling it from a kernel thread
// panics.
func (k *Kernel) RunAdopted(name string, fn func()) {
	k.check(fn != nil, "adopt with nil function")
	k.check(k.lookupCurrent() == nil, "adopt of a registered thread")
	tk := k.adopt(name)
	defer k.release(tk)
	fn()
}

func (k *Kernel) adopt(name string) *task {
	mode := HeapTrackMode(k.heapMode.Load())
	t := &Thread{
		k:         k,
		name:      name,
		hasName:   true,
		heapTrace: mode == HeapTrackMain || mode == HeapTrackAll,
		adopted:   true,
	}
	t.state.Store(int32(StateRunning))

	t.mu.Lock()
	tk := newTask(k.nextID.Add(1), t)
	t.mu.Unlock()
	tk.osid = concurrency.LockCurrentThread()

	k.mu.Lock()
	k.tasks.Put(tk.id, tk)
	k.byOS.Put(tk.osid, tk)
	k.mu.Unlock()
	t.task.Store(tk)
	k.adopted.Add(1)

	k.logger().Debug("thread adopted", "thread", name, "thread_id", tk.id, "os_thread", tk.osid)
	return tk
}

// release unregisters an adopted task and unlocks its OS thread.
func (k *Kernel) release(tk *task) {
	tk.thread.state.Store(int32(StateStopped))
	k.mu.Lock()
	k.tasks.Delete(tk.id)
	if cur, ok := k.byOS.Get(tk.osid); ok && cur == tk {
		k.byOS.Delete(tk.osid)
	}
	close(tk.done)
	k.mu.Unlock()
	concurrency.UnlockCurrentThread()
	k.logger().Debug("thread released", "thread_id", tk.id)
}

// GetName returns the raw name of a running thread. ok is false for
// unknown ids and unnamed threads.
func (k *Kernel) GetName(id ThreadID) (name string, ok bool) {
	tk := k.lookup(id)
	if tk == nil || !tk.hasName {
		return "", false
	}
	return tk.name, true
}

// ThreadByID returns the thread-control object of a running thread.
func (k *Kernel) ThreadByID(id ThreadID) (*Thread, bool) {
	tk := k.lookup(id)
	if tk == nil {
		return nil, false
	}
	return tk.thread, true
}
