// File: rtos/history.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded record of recent thread exits.

package rtos

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// ExitRecord describes one finished thread run.
type ExitRecord struct {
	ID         ThreadID
	Name       string
	ReturnCode int32
	StackSize  int
	HeapUsed   int64 // -1 when heap tracing was off
	StoppedAt  time.Time
}

type history struct {
	mu  sync.Mutex
	q   *queue.Queue
	max int
}

func newHistory(depth int) *history {
	return &history{q: queue.New(), max: depth}
}

func (h *history) add(r ExitRecord) {
	if r.StoppedAt.IsZero() {
		r.StoppedAt = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.q.Add(r)
	h.trim()
}

func (h *history) trim() {
	for h.q.Length() > h.max {
		h.q.Remove()
	}
}

func (h *history) resize(depth int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.max = depth
	h.trim()
}

func (h *history) depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.max
}

func (h *history) snapshot() []ExitRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ExitRecord, h.q.Length())
	for i := range out {
		out[i] = h.q.Get(i).(ExitRecord)
	}
	return out
}
