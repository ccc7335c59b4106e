// File: rtos/kernel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Kernel instance: configuration, task registry and counters.

package rtos

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dolthub/swiss"

	"github.com/momentics/furi-thread/internal/logging"
)

const (
	DefaultTickFrequency = 1000
	DefaultMaxStackSize  = 1 << 20
	DefaultHistoryDepth  = 32
)

// Config holds kernel-wide settings.
type Config struct {
	TickFrequency uint32 // ticks per second
	HeapTrackMode HeapTrackMode
	MaxStackSize  int
	HistoryDepth  int
	Logger        *logging.Logger
}

// DefaultConfig returns the settings used by Default().
func DefaultConfig() Config {
	return Config{
		TickFrequency: DefaultTickFrequency,
		HeapTrackMode: HeapTrackNone,
		MaxStackSize:  DefaultMaxStackSize,
		HistoryDepth:  DefaultHistoryDepth,
	}
}

// Stats is a snapshot of kernel counters.
type Stats struct {
	Allocated int64 // thread-control objects ever allocated
	Freed     int64
	Live      int64 // allocated and not yet freed
	Started   int64
	Stopped   int64
	Running   int64 // registered tasks, adopted ones included
	Adopted   int64 // adoptions ever made
	Handles   int64 // outstanding context handles
}

// Kernel owns thread-control objects and running tasks.
type Kernel struct {
	tickFreq  atomic.Uint32
	heapMode  atomic.Int32
	maxStack  atomic.Int64
	base      atomic.Pointer[logging.Logger]
	log       atomic.Pointer[logging.Logger]
	nextID    atomic.Uint32
	allocated atomic.Int64
	freed     atomic.Int64
	started   atomic.Int64
	stopped   atomic.Int64
	adopted   atomic.Int64

	mu    sync.RWMutex
	tasks *swiss.Map[ThreadID, *task] // by kernel id
	byOS  *swiss.Map[uint64, *task]   // by native thread id

	handles *handleTable
	history *history
}

// New creates a kernel with cfg. Zero fields fall back to defaults.
func New(cfg Config) *Kernel {
	k := &Kernel{
		tasks:   swiss.NewMap[ThreadID, *task](64),
		byOS:    swiss.NewMap[uint64, *task](64),
		handles: newHandleTable(),
		history: newHistory(DefaultHistoryDepth),
	}
	k.Reconfigure(cfg)
	return k
}

var (
	defaultOnce   sync.Once
	defaultKernel *Kernel
)

// Default returns the process-wide kernel.
func Default() *Kernel {
	defaultOnce.Do(func() {
		defaultKernel = New(DefaultConfig())
	})
	return defaultKernel
}

// Reconfigure applies cfg to a live kernel. Threads already allocated keep
// their heap-trace setting.
func (k *Kernel) Reconfigure(cfg Config) {
	if cfg.TickFrequency == 0 {
		cfg.TickFrequency = DefaultTickFrequency
	}
	if cfg.MaxStackSize <= 0 {
		cfg.MaxStackSize = DefaultMaxStackSize
	}
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = DefaultHistoryDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	k.tickFreq.Store(cfg.TickFrequency)
	k.heapMode.Store(int32(cfg.HeapTrackMode))
	k.maxStack.Store(int64(cfg.MaxStackSize))
	k.base.Store(cfg.Logger)
	k.log.Store(cfg.Logger.WithComponent("rtos"))
	k.history.resize(cfg.HistoryDepth)
}

// Config returns the effective configuration.
func (k *Kernel) Config() Config {
	return Config{
		TickFrequency: k.tickFreq.Load(),
		HeapTrackMode: HeapTrackMode(k.heapMode.Load()),
		MaxStackSize:  int(k.maxStack.Load()),
		HistoryDepth:  k.history.depth(),
		Logger:        k.base.Load(),
	}
}

func (k *Kernel) logger() *logging.Logger {
	return k.log.Load()
}

// TickFrequency returns the number of kernel ticks per second.
func (k *Kernel) TickFrequency() uint32 {
	return k.tickFreq.Load()
}

// TicksToDuration converts kernel ticks to wall time.
func (k *Kernel) TicksToDuration(ticks uint32) time.Duration {
	return time.Duration(ticks) * time.Second / time.Duration(k.tickFreq.Load())
}

// Stats returns a snapshot of kernel counters.
func (k *Kernel) Stats() Stats {
	k.mu.RLock()
	running := int64(k.tasks.Count())
	k.mu.RUnlock()
	allocated, freed := k.allocated.Load(), k.freed.Load()
	return Stats{
		Allocated: allocated,
		Freed:     freed,
		Live:      allocated - freed,
		Started:   k.started.Load(),
		Stopped:   k.stopped.Load(),
		Running:   running,
		Adopted:   k.adopted.Load(),
		Handles:   int64(k.handles.count()),
	}
}

// History returns the most recent thread exits, oldest first.
func (k *Kernel) History() []ExitRecord {
	return k.history.snapshot()
}

// ThreadInfo describes a registered task.
type ThreadInfo struct {
	ID        ThreadID
	Name      string
	HasName   bool
	State     State
	Flags     uint32
	StackSize int
	HeapTrace bool
	Adopted   bool
}

// Threads lists registered tasks ordered by id.
func (k *Kernel) Threads() []ThreadInfo {
	k.mu.RLock()
	out := make([]ThreadInfo, 0, k.tasks.Count())
	k.tasks.Iter(func(id ThreadID, tk *task) bool {
		out = append(out, tk.info())
		return false
	})
	k.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// check is the kernel assertion: a false cond is a contract violation.
func (k *Kernel) check(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	k.logger().Error("kernel check failed", "reason", msg)
	panic("rtos: " + msg)
}

func (k *Kernel) lookup(id ThreadID) *task {
	if id == 0 {
		return nil
	}
	k.mu.RLock()
	tk, _ := k.tasks.Get(id)
	k.mu.RUnlock()
	return tk
}
