// File: rtos/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Context handle table. Go values cannot be stored in the untyped context
// words the kernel passes to callbacks, so they are registered here and the
// handle travels instead.

package rtos

import (
	"sync"

	"github.com/dolthub/swiss"
)

type handleTable struct {
	mu   sync.Mutex
	m    *swiss.Map[uintptr, any]
	next uintptr
}

func newHandleTable() *handleTable {
	return &handleTable{m: swiss.NewMap[uintptr, any](16)}
}

func (h *handleTable) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m.Count()
}

// NewHandle registers v and returns a non-zero context word for it.
func (k *Kernel) NewHandle(v any) uintptr {
	h := k.handles
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.m.Put(id, v)
	return id
}

// TakeHandle removes and returns the value behind h. Taking an unknown or
// already taken handle panics.
func (k *Kernel) TakeHandle(h uintptr) any {
	t := k.handles
	t.mu.Lock()
	v, ok := t.m.Get(h)
	if ok {
		t.m.Delete(h)
	}
	t.mu.Unlock()
	k.check(ok, "take of unknown context handle %#x", h)
	return v
}

// LookupHandle returns the value behind h without removing it.
func (k *Kernel) LookupHandle(h uintptr) (any, bool) {
	t := k.handles
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m.Get(h)
}
