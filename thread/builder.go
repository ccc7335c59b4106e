// File: thread/builder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"strings"

	"github.com/momentics/furi-thread/api"
)

// MinStackSize is the stack size used when none is configured.
const MinStackSize = 1024

// Builder accumulates thread configuration. It is consumed by Spawn.
type Builder struct {
	name      string
	hasName   bool
	stackSize int
	heapTrace bool
	spawned   bool
}

// NewBuilder returns the base configuration for spawning a thread.
func NewBuilder() *Builder {
	return &Builder{}
}

// Name labels the thread-to-be. A name containing a nul byte is rejected
// with a *api.NulError and the builder is left as it was.
func (b *Builder) Name(name string) (*Builder, error) {
	if i := strings.IndexByte(name, 0); i >= 0 {
		return b, &api.NulError{Pos: i, Name: name}
	}
	b.name, b.hasName = name, true
	return b, nil
}

// StackSize sets the stack size in bytes. The kernel enforces its limits
// when the thread starts.
func (b *Builder) StackSize(size int) *Builder {
	b.stackSize = size
	return b
}

// EnableHeapTrace turns heap tracing on. Without it the kernel's heap track
// mode decides: tracing is on in mode "all", or in mode "tree" when the
// spawning thread traces.
func (b *Builder) EnableHeapTrace() *Builder {
	b.heapTrace = true
	return b
}

// Spawn consumes the builder, starts body on a new kernel thread and
// returns its JoinHandle. Spawning twice from one builder panics.
func (b *Builder) Spawn(body func() int32) *JoinHandle {
	if body == nil {
		panic("thread: nil thread body")
	}
	if b.spawned {
		panic("thread: builder already consumed")
	}
	b.spawned = true

	stackSize := b.stackSize
	if stackSize == 0 {
		stackSize = MinStackSize
	}

	raw := kernel.Alloc()
	if b.hasName {
		kernel.SetName(raw, b.name)
	}
	kernel.SetStackSize(raw, stackSize)
	if b.heapTrace {
		kernel.EnableHeapTrace(raw)
	}

	s := newShared(Thread{name: b.name, hasName: b.hasName, raw: raw})

	kernel.SetCallback(raw, runThreadBody)
	kernel.SetContext(raw, boxBody(body))
	kernel.SetStateCallback(raw, runStateCallback)
	kernel.SetStateContext(raw, kernel.NewHandle(s))
	kernel.Start(raw)

	return newJoinHandle(s)
}

// Spawn starts body with the default Builder configuration.
func Spawn(body func() int32) *JoinHandle {
	return NewBuilder().Spawn(body)
}
