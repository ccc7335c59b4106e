// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// OS thread primitives for the furi-thread kernel: locking a goroutine to
// its OS thread for the lifetime of a kernel thread and reading the native
// thread id that keys the kernel's task registry.
//
// Implementations are build-tag partitioned (Linux/Windows) with a portable
// fallback for other platforms.
package concurrency
