// Package thread
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Safe thread lifecycle API over the rtos kernel.
//
// A Builder configures and spawns a thread and returns its JoinHandle. The
// kernel thread-control object behind it has exactly two owners: the
// JoinHandle and the kernel's stopped notification. Whichever releases last
// frees the object, so it is freed once, and never before the thread body
// has returned and the application has let go of the handle.
//
//	h := thread.NewBuilder().StackSize(2048).Spawn(func() int32 {
//		return 42
//	})
//	code := h.Join() // 42
//
// Dropping a JoinHandle without Join or Detach detaches the thread once the
// handle is garbage collected.
//
// Notification flags give each thread a 32-bit word for lightweight
// signalling with bounded waits.
package thread
