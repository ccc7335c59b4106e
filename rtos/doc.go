// Package rtos
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw real-time kernel thread API. It mirrors a C thread primitive surface:
// thread-control objects are allocated and freed explicitly, configured
// through setters before start, and report lifecycle changes through a
// state callback that receives an untyped context word. Thread bodies are
// plain func(context uintptr) int32 entry points.
//
// Every started thread runs on its own goroutine locked to a dedicated OS
// thread. Identity, flags and delays are addressed by kernel thread id.
//
// The API is unsafe by contract: freeing a thread twice, freeing a running
// thread, touching a freed thread or reconfiguring a started one are
// programming errors and panic. Package thread provides the safe wrapper.
package rtos
