// File: rtos/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package rtos

import "runtime/metrics"

const heapAllocsMetric = "/gc/heap/allocs:bytes"

// heapAllocBytes returns the cumulative bytes allocated by the process.
// Per-thread figures derived from it are approximate: concurrent threads
// allocate into the same counter.
func heapAllocBytes() uint64 {
	s := []metrics.Sample{{Name: heapAllocsMetric}}
	metrics.Read(s)
	if s[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return s[0].Value.Uint64()
}
