// File: thread/thread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/momentics/furi-thread/rtos"
)

// Thread is a view of a kernel thread. A Thread obtained from a JoinHandle
// must not be used after the handle is disposed; one obtained from Current
// must not outlive the calling thread.
type Thread struct {
	name    string
	hasName bool
	raw     *rtos.Thread // nil for callers the kernel does not know
	owner   *JoinHandle  // keeps an undisposed handle reachable
}

// Current returns the calling thread. Callers the kernel did not start and
// that are not inside RunAdopted get an unnamed Thread without an id.
func Current() *Thread {
	raw := kernel.GetCurrent()
	if raw == nil {
		return &Thread{}
	}
	name, ok := kernel.GetName(kernel.GetCurrentID())
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return &Thread{name: name, hasName: ok, raw: raw}
}

// RunAdopted runs fn with the calling goroutine registered as a named
// thread, so Current and the flag operations work inside fn. The name is
// kept verbatim. The registration ends when fn returns.
func RunAdopted(name string, fn func()) {
	kernel.RunAdopted(name, fn)
}

// ID returns the thread's id. ok is false once the thread has stopped.
func (t *Thread) ID() (id ThreadID, ok bool) {
	if t.raw == nil {
		return 0, false
	}
	defer runtime.KeepAlive(t)
	id = ThreadID(kernel.GetID(t.raw))
	return id, id != 0
}

// Name returns the thread name. ok is false for unnamed threads and names
// that are not valid UTF-8.
func (t *Thread) Name() (name string, ok bool) {
	if !t.hasName || !utf8.ValidString(t.name) {
		return "", false
	}
	return t.name, true
}

// StackSize returns the configured stack size in bytes.
func (t *Thread) StackSize() int {
	if t.raw == nil {
		return 0
	}
	defer runtime.KeepAlive(t)
	return kernel.GetStackSize(t.raw)
}

// HeapUsed returns the bytes allocated by the thread body. It is only
// known for traced threads that have stopped.
func (t *Thread) HeapUsed() (int64, bool) {
	if t.raw == nil {
		return 0, false
	}
	defer runtime.KeepAlive(t)
	return kernel.GetHeapSize(t.raw)
}

func (t *Thread) String() string {
	name, ok := t.Name()
	if !ok {
		name = "<unnamed>"
	}
	if id, ok := t.ID(); ok {
		return fmt.Sprintf("Thread{name: %q, id: %d}", name, id)
	}
	return fmt.Sprintf("Thread{name: %q}", name)
}

// ThreadID identifies a running thread. Ids are not reused while the
// thread runs.
type ThreadID uint32

// CurrentID returns the calling thread's id.
func CurrentID() ThreadID {
	return ThreadID(kernel.GetCurrentID())
}

// IDFromRaw returns the id of a raw kernel thread, zero if it is not
// running. raw must be a live thread-control object.
func IDFromRaw(raw *rtos.Thread) ThreadID {
	return ThreadID(kernel.GetID(raw))
}

func (id ThreadID) String() string {
	return fmt.Sprintf("ThreadID(%d)", uint32(id))
}
