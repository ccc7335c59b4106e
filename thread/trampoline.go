// File: thread/trampoline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread body transport through the kernel's callback + context word.

package thread

// threadBody is the type-erased, single-call form of a thread body.
type threadBody func() int32

// boxBody parks body in the kernel handle table and returns the context
// word for runThreadBody.
func boxBody(body func() int32) uintptr {
	return kernel.NewHandle(threadBody(body))
}

// runThreadBody is the kernel entry point of every spawned thread. Taking
// the handle removes it, so the body can run at most once.
func runThreadBody(context uintptr) int32 {
	body := kernel.TakeHandle(context).(threadBody)
	return body()
}
