// File: rtos/thread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread-control objects: allocation, configuration, start, join and free.

package rtos

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/momentics/furi-thread/internal/concurrency"
)

// Thread is a kernel thread-control object. It is manipulated only through
// Kernel methods and must be released with Kernel.Free once stopped.
type Thread struct {
	k *Kernel

	mu            sync.Mutex // guards configuration below
	name          string
	hasName       bool
	stackSize     int
	heapTrace     bool
	callback      Callback
	context       uintptr
	stateCallback StateCallback
	stateContext  uintptr
	adopted       bool

	state    atomic.Int32
	ret      atomic.Int32
	heapUsed atomic.Int64
	freed    atomic.Bool
	task     atomic.Pointer[task]
}

// Alloc creates a stopped, unconfigured thread-control object.
func (k *Kernel) Alloc() *Thread {
	t := &Thread{k: k, heapTrace: k.defaultHeapTrace()}
	t.state.Store(int32(StateStopped))
	k.allocated.Add(1)
	k.logger().Debug("thread allocated", "heap_trace", t.heapTrace)
	return t
}

func (k *Kernel) defaultHeapTrace() bool {
	switch HeapTrackMode(k.heapMode.Load()) {
	case HeapTrackAll:
		return true
	case HeapTrackTree:
		if parent := k.lookupCurrent(); parent != nil {
			return parent.heapTrace
		}
	}
	return false
}

// Free releases a stopped thread-control object. Freeing twice, freeing a
// thread that has not stopped, or freeing an adopted thread panics.
func (k *Kernel) Free(t *Thread) {
	k.check(t != nil, "free of nil thread")
	k.check(t.k == k, "free of thread owned by another kernel")
	k.check(!t.adopted, "free of adopted thread")
	k.check(State(t.state.Load()) == StateStopped, "free of thread in state %s", State(t.state.Load()))
	k.check(t.freed.CompareAndSwap(false, true), "double free of thread")

	t.mu.Lock()
	t.callback = nil
	t.context = 0
	t.stateCallback = nil
	t.stateContext = 0
	name := t.name
	t.mu.Unlock()

	k.freed.Add(1)
	k.logger().Debug("thread freed", "thread", name)
}

// IsFreed reports whether Free has been called on t.
func (t *Thread) IsFreed() bool {
	return t.freed.Load()
}

func (k *Kernel) alive(t *Thread) {
	k.check(t != nil, "nil thread")
	k.check(!t.freed.Load(), "use of freed thread")
}

// configurable asserts t may be reconfigured. Caller holds t.mu.
func (k *Kernel) configurable(t *Thread) {
	k.alive(t)
	k.check(!t.adopted, "reconfiguring adopted thread")
	k.check(State(t.state.Load()) == StateStopped && !t.active(), "reconfiguring started thread %q", t.name)
}

// active reports whether a run of t has not yet been retired.
func (t *Thread) active() bool {
	tk := t.task.Load()
	return tk != nil && !tk.finished()
}

// SetName sets the label of a stopped thread. The name is stored verbatim.
func (k *Kernel) SetName(t *Thread, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.name, t.hasName = name, true
}

// SetStackSize records the stack size; limits are enforced by Start.
func (k *Kernel) SetStackSize(t *Thread, size int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.stackSize = size
}

// EnableHeapTrace turns on heap accounting for the next run.
func (k *Kernel) EnableHeapTrace(t *Thread) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.heapTrace = true
}

// DisableHeapTrace turns off heap accounting for the next run.
func (k *Kernel) DisableHeapTrace(t *Thread) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.heapTrace = false
}

// SetCallback sets the entry point.
func (k *Kernel) SetCallback(t *Thread, cb Callback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.callback = cb
}

// SetContext sets the word passed to the entry point.
func (k *Kernel) SetContext(t *Thread, ctx uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.context = ctx
}

// SetStateCallback sets the state observer.
func (k *Kernel) SetStateCallback(t *Thread, cb StateCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.stateCallback = cb
}

// SetStateContext sets the word passed to the state observer.
func (k *Kernel) SetStateContext(t *Thread, ctx uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	t.stateContext = ctx
}

// runConfig is the configuration captured at Start.
type runConfig struct {
	cb   Callback
	ctx  uintptr
	scb  StateCallback
	sctx uintptr
}

// Start launches t on a dedicated OS thread. The thread id is obtainable as
// soon as Start returns.
func (k *Kernel) Start(t *Thread) {
	rc, tk := k.prepare(t)

	t.setState(StateStarting, rc)

	k.mu.Lock()
	k.tasks.Put(tk.id, tk)
	k.mu.Unlock()
	t.task.Store(tk)
	k.started.Add(1)

	k.logger().Debug("thread starting", "thread", tk.name, "thread_id", tk.id, "stack", tk.stackSize)
	go k.run(t, tk, rc)
}

// prepare validates t for Start and snapshots its configuration.
func (k *Kernel) prepare(t *Thread) (runConfig, *task) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k.configurable(t)
	k.check(t.callback != nil, "start of thread %q without callback", t.name)
	maxStack := int(k.maxStack.Load())
	k.check(t.stackSize > 0 && t.stackSize <= maxStack,
		"stack size %d of thread %q outside (0, %d]", t.stackSize, t.name, maxStack)
	rc := runConfig{cb: t.callback, ctx: t.context, scb: t.stateCallback, sctx: t.stateContext}
	return rc, newTask(k.nextID.Add(1), t)
}

func (t *Thread) setState(s State, rc runConfig) {
	t.state.Store(int32(s))
	if rc.scb != nil {
		rc.scb(t, s, rc.sctx)
	}
}

// run is the body of the OS thread backing tk. The goroutine stays locked
// until it exits, which tears the OS thread down with it.
func (k *Kernel) run(t *Thread, tk *task, rc runConfig) {
	tk.osid = concurrency.LockCurrentThread()
	k.mu.Lock()
	k.byOS.Put(tk.osid, tk)
	k.mu.Unlock()

	t.setState(StateRunning, rc)

	var heapStart uint64
	if tk.heapTrace {
		heapStart = heapAllocBytes()
	}
	ret := rc.cb(rc.ctx)
	t.ret.Store(ret)
	var heapUsed int64 = -1
	if tk.heapTrace {
		heapUsed = int64(heapAllocBytes() - heapStart)
		t.heapUsed.Store(heapUsed)
	}

	// The stopped notification may free t; it is not touched afterwards.
	t.setState(StateStopped, rc)
	k.retire(tk, ret, heapUsed)
}

// retire unregisters tk and wakes joiners in one critical section, so the
// id disappears exactly when Join stops blocking.
func (k *Kernel) retire(tk *task, ret int32, heapUsed int64) {
	k.history.add(ExitRecord{
		ID:         tk.id,
		Name:       tk.name,
		ReturnCode: ret,
		StackSize:  tk.stackSize,
		HeapUsed:   heapUsed,
	})
	k.stopped.Add(1)
	k.logger().Debug("thread stopped", "thread", tk.name, "thread_id", tk.id, "ret", ret)

	k.mu.Lock()
	k.tasks.Delete(tk.id)
	if cur, ok := k.byOS.Get(tk.osid); ok && cur == tk {
		k.byOS.Delete(tk.osid)
	}
	close(tk.done)
	k.mu.Unlock()
}

// Join blocks until the current run of t has stopped. It returns at once
// for a thread that was never started or has already stopped.
func (k *Kernel) Join(t *Thread) {
	k.alive(t)
	if tk := t.task.Load(); tk != nil {
		<-tk.done
	}
}

// JoinContext is Join bounded by ctx.
func (k *Kernel) JoinContext(ctx context.Context, t *Thread) error {
	k.alive(t)
	tk := t.task.Load()
	if tk == nil {
		return nil
	}
	select {
	case <-tk.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetID returns the id of t while it runs, zero otherwise.
func (k *Kernel) GetID(t *Thread) ThreadID {
	k.alive(t)
	tk := t.task.Load()
	if tk == nil || tk.finished() {
		return 0
	}
	return tk.id
}

// GetReturnCode returns the value produced by the last completed run.
func (k *Kernel) GetReturnCode(t *Thread) int32 {
	k.alive(t)
	return t.ret.Load()
}

// GetState returns the lifecycle state of t.
func (k *Kernel) GetState(t *Thread) State {
	k.alive(t)
	return State(t.state.Load())
}

// GetStackSize returns the configured stack size.
func (k *Kernel) GetStackSize(t *Thread) int {
	k.alive(t)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stackSize
}

// GetHeapSize returns the bytes allocated during the last run of a traced
// thread. ok is false when tracing was off or the thread has not stopped.
func (k *Kernel) GetHeapSize(t *Thread) (size int64, ok bool) {
	k.alive(t)
	if tk := t.task.Load(); tk == nil || !tk.heapTrace || !tk.finished() {
		return 0, false
	}
	return t.heapUsed.Load(), true
}

// HeapTraceEnabled reports whether the next (or current) run is traced.
func (k *Kernel) HeapTraceEnabled(t *Thread) bool {
	k.alive(t)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.heapTrace
}
