package concurrency

import (
	"sync"
	"testing"
)

func TestLockCurrentThreadStableID(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		id := LockCurrentThread()
		defer UnlockCurrentThread()
		for i := 0; i < 100; i++ {
			if got := CurrentThreadID(); got != id {
				t.Errorf("thread id changed while locked: %d != %d", got, id)
				return
			}
		}
	}()
	<-done
}

func TestLockedGoroutinesHaveDistinctIDs(t *testing.T) {
	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[uint64]struct{})
		release = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			id := LockCurrentThread()
			defer UnlockCurrentThread()
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
			wg.Done()
			<-release
		}()
	}
	wg.Wait()
	close(release)
	if len(ids) != n {
		t.Fatalf("expected %d distinct thread ids, got %d", n, len(ids))
	}
}
