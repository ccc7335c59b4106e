//go:build windows
// +build windows

// File: internal/concurrency/ostid_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows native thread id via GetCurrentThreadId.

package concurrency

import "golang.org/x/sys/windows"

func platformThreadID() uint64 {
	return uint64(windows.GetCurrentThreadId())
}
