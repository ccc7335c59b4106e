//go:build !linux && !windows
// +build !linux,!windows

// File: internal/concurrency/ostid_other.go
// Author: momentics <momentics@gmail.com>
//
// Fallback for platforms where x/sys exposes no portable thread id.
// The goroutine id is used instead; kernel threads own exactly one
// goroutine each, so it identifies them just as well.

package concurrency

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

func platformThreadID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		panic("concurrency: cannot parse goroutine id: " + err.Error())
	}
	// Keep clear of real tids handed out by other code paths.
	return id | 1<<63
}
