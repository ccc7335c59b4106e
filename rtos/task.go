// File: rtos/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package rtos

import "sync"

// task is one run of a thread, or an adopted OS thread. It stays in the
// kernel registry from start until retire.
type task struct {
	id        ThreadID
	osid      uint64
	name      string
	hasName   bool
	stackSize int
	heapTrace bool
	adopted   bool
	thread    *Thread // valid while the task is registered

	flagsMu sync.Mutex
	flags   uint32
	wake    chan struct{} // capacity 1, pinged on every flag change
	done    chan struct{} // closed by retire
}

// newTask snapshots t's configuration. Caller holds t.mu.
func newTask(id uint32, t *Thread) *task {
	return &task{
		id:        ThreadID(id),
		name:      t.name,
		hasName:   t.hasName,
		stackSize: t.stackSize,
		heapTrace: t.heapTrace,
		adopted:   t.adopted,
		thread:    t,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

func (tk *task) finished() bool {
	select {
	case <-tk.done:
		return true
	default:
		return false
	}
}

func (tk *task) notify() {
	select {
	case tk.wake <- struct{}{}:
	default:
	}
}

func (tk *task) info() ThreadInfo {
	tk.flagsMu.Lock()
	flags := tk.flags
	tk.flagsMu.Unlock()
	return ThreadInfo{
		ID:        tk.id,
		Name:      tk.name,
		HasName:   tk.hasName,
		State:     State(tk.thread.state.Load()),
		Flags:     flags,
		StackSize: tk.stackSize,
		HeapTrace: tk.heapTrace,
		Adopted:   tk.adopted,
	}
}
