//go:build linux
// +build linux

// File: internal/concurrency/ostid_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux native thread id via gettid(2).

package concurrency

import "golang.org/x/sys/unix"

func platformThreadID() uint64 {
	return uint64(unix.Gettid())
}
