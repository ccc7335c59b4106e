// File: rtos/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package rtos

import (
	"fmt"
	"strings"
)

// ThreadID identifies a running kernel thread. Zero is the null id.
type ThreadID uint32

// State is a kernel thread lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Callback is a thread entry point. The returned value becomes the
// thread's return code.
type Callback func(context uintptr) int32

// StateCallback observes state transitions. StateStopped is delivered
// exactly once per run and is the last transition; the callback may free
// the thread.
type StateCallback func(t *Thread, state State, context uintptr)

// HeapTrackMode selects which threads trace heap usage by default.
type HeapTrackMode int

const (
	HeapTrackNone HeapTrackMode = iota
	// HeapTrackMain traces adopted (bootstrap) threads only.
	HeapTrackMain
	// HeapTrackTree traces threads spawned by a tracing thread.
	HeapTrackTree
	HeapTrackAll
)

func (m HeapTrackMode) String() string {
	switch m {
	case HeapTrackMain:
		return "main"
	case HeapTrackTree:
		return "tree"
	case HeapTrackAll:
		return "all"
	default:
		return "none"
	}
}

// ParseHeapTrackMode accepts none, main, tree or all.
func ParseHeapTrackMode(s string) (HeapTrackMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HeapTrackNone, nil
	case "main":
		return HeapTrackMain, nil
	case "tree":
		return HeapTrackTree, nil
	case "all":
		return HeapTrackAll, nil
	}
	return HeapTrackNone, fmt.Errorf("rtos: unknown heap track mode %q", s)
}
