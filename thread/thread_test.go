package thread

import (
	"context"
	"errors"
	"math"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/furi-thread/api"
	"github.com/momentics/furi-thread/rtos"
)

func TestSpawnJoinReturnsExitCode(t *testing.T) {
	for _, code := range []int32{0, 1, 42, -1, math.MaxInt32, math.MinInt32} {
		h := Spawn(func() int32 { return code })
		assert.Equal(t, code, h.Join())
	}
}

func TestBuilderNameRejectsNul(t *testing.T) {
	b := NewBuilder()
	same, err := b.Name("ab\x00c")
	require.Error(t, err)
	assert.Same(t, b, same)
	assert.True(t, errors.Is(err, api.ErrEmbeddedNul))

	var nulErr *api.NulError
	require.True(t, errors.As(err, &nulErr))
	assert.Equal(t, 2, nulErr.Pos)
	assert.False(t, b.hasName)

	_, err = b.Name("worker")
	require.NoError(t, err)
	h := b.Spawn(func() int32 { return 0 })
	name, ok := h.Thread().Name()
	assert.True(t, ok)
	assert.Equal(t, "worker", name)
	h.Join()
}

func TestBuilderDefaults(t *testing.T) {
	release := make(chan struct{})
	h := NewBuilder().Spawn(func() int32 {
		<-release
		return 0
	})
	th := h.Thread()
	assert.Equal(t, MinStackSize, th.StackSize())
	_, ok := th.Name()
	assert.False(t, ok)
	id, ok := th.ID()
	assert.True(t, ok)
	assert.NotZero(t, id)
	close(release)
	h.Join()
}

func TestBuilderStackSize(t *testing.T) {
	release := make(chan struct{})
	h := NewBuilder().StackSize(4096).Spawn(func() int32 {
		<-release
		return 0
	})
	assert.Equal(t, 4096, h.Thread().StackSize())
	close(release)
	h.Join()
}

func TestBuilderConsumedBySpawn(t *testing.T) {
	b := NewBuilder()
	b.Spawn(func() int32 { return 0 }).Join()
	assert.PanicsWithValue(t, "thread: builder already consumed", func() {
		b.Spawn(func() int32 { return 0 })
	})
}

func TestHeapTraceReported(t *testing.T) {
	var sink [][]byte
	h := NewBuilder().EnableHeapTrace().Spawn(func() int32 {
		for i := 0; i < 4; i++ {
			sink = append(sink, make([]byte, 64<<10))
		}
		return int32(len(sink))
	})
	th := h.Thread()
	require.Eventually(t, h.IsFinished, time.Second, time.Millisecond)
	used, ok := th.HeapUsed()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, used, int64(4*64<<10))
	h.Join()

	h = Spawn(func() int32 { return 0 })
	th = h.Thread()
	require.Eventually(t, h.IsFinished, time.Second, time.Millisecond)
	_, ok = th.HeapUsed()
	assert.False(t, ok)
	h.Join()
}

func TestDetachBeforeStop(t *testing.T) {
	release := make(chan struct{})
	h := Spawn(func() int32 {
		<-release
		return 0
	})
	raw := h.Thread().raw

	h.Detach()
	assert.False(t, raw.IsFreed())

	close(release)
	assert.Eventually(t, raw.IsFreed, time.Second, time.Millisecond)
}

func TestDetachAfterStop(t *testing.T) {
	h := Spawn(func() int32 { return 3 })
	raw := h.Thread().raw

	require.Eventually(t, h.IsFinished, time.Second, time.Millisecond)
	assert.False(t, raw.IsFreed())

	h.Detach()
	assert.True(t, raw.IsFreed())
}

func TestJoinFreesThread(t *testing.T) {
	before := kernel.Stats()
	h := Spawn(func() int32 { return 0 })
	raw := h.Thread().raw
	h.Join()
	assert.True(t, raw.IsFreed())

	after := kernel.Stats()
	assert.Equal(t, before.Handles, after.Handles)
	assert.Equal(t, before.Freed+1, after.Freed)
}

func TestIsFinishedConsistentWithJoin(t *testing.T) {
	release := make(chan struct{})
	h := Spawn(func() int32 {
		<-release
		return 9
	})
	assert.False(t, h.IsFinished())

	close(release)
	require.Eventually(t, h.IsFinished, time.Second, time.Millisecond)

	done := make(chan int32, 1)
	go func() { done <- h.Join() }()
	select {
	case code := <-done:
		assert.Equal(t, int32(9), code)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Join blocked after IsFinished reported true")
	}
}

func TestJoinContextExpires(t *testing.T) {
	release := make(chan struct{})
	h := Spawn(func() int32 {
		<-release
		return 5
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := h.JoinContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	code, err := h.JoinContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(5), code)
}

func TestHandleUsedAfterDisposalPanics(t *testing.T) {
	h := Spawn(func() int32 { return 0 })
	h.Join()

	const msg = "thread: join handle used after disposal"
	assert.PanicsWithValue(t, msg, func() { h.Thread() })
	assert.PanicsWithValue(t, msg, func() { h.Join() })
	assert.PanicsWithValue(t, msg, func() { h.IsFinished() })
	assert.PanicsWithValue(t, msg, func() { h.Detach() })
	assert.Equal(t, "JoinHandle{..}", h.String())
}

func TestCollectedHandleDetaches(t *testing.T) {
	h := Spawn(func() int32 { return 0 })
	raw := h.Thread().raw
	h = nil

	assert.Eventually(t, func() bool {
		runtime.GC()
		return raw.IsFreed()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestCurrentInsideSpawnedThread(t *testing.T) {
	type seen struct {
		name    string
		named   bool
		id      ThreadID
		current ThreadID
	}
	out := make(chan seen, 1)

	b, err := NewBuilder().Name("observer")
	require.NoError(t, err)
	h := b.Spawn(func() int32 {
		cur := Current()
		var s seen
		s.name, s.named = cur.Name()
		s.id, _ = cur.ID()
		s.current = CurrentID()
		out <- s
		return 0
	})
	spawnedID, ok := h.Thread().ID()
	s := <-out
	h.Join()

	assert.True(t, s.named)
	assert.Equal(t, "observer", s.name)
	assert.Equal(t, s.current, s.id)
	if ok {
		assert.Equal(t, spawnedID, s.id)
	}
}

func TestCurrentAdoptedThreadNames(t *testing.T) {
	cases := []struct {
		desc  string
		raw   string
		name  string
		named bool
	}{
		{"raw name", "boot", "boot", true},
		{"truncated at nul", "boot\x00tail", "boot", true},
		{"invalid utf-8", "\xff\xfe", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			type result struct {
				name  string
				named bool
				str   string
			}
			out := make(chan result, 1)
			go func() {
				RunAdopted(tc.raw, func() {
					cur := Current()
					var r result
					r.name, r.named = cur.Name()
					r.str = cur.String()
					out <- r
				})
			}()
			r := <-out
			assert.Equal(t, tc.named, r.named)
			assert.Equal(t, tc.name, r.name)
			assert.Contains(t, r.str, "id: ")
		})
	}
}

func TestCurrentOutsideKernelThreads(t *testing.T) {
	before := kernel.Stats()
	type result struct {
		id    ThreadID
		cur   *Thread
		curOK bool
	}
	out := make(chan result, 1)
	go func() {
		var r result
		r.id = CurrentID()
		r.cur = Current()
		_, r.curOK = r.cur.ID()
		out <- r
	}()
	r := <-out

	assert.Zero(t, r.id)
	assert.False(t, r.curOK)
	_, named := r.cur.Name()
	assert.False(t, named)
	assert.Zero(t, r.cur.StackSize())
	_, known := r.cur.HeapUsed()
	assert.False(t, known)
	assert.Equal(t, `Thread{name: "<unnamed>"}`, r.cur.String())

	assert.Equal(t, before.Adopted, kernel.Stats().Adopted)
	for _, info := range kernel.Threads() {
		assert.False(t, info.Adopted)
	}
}

func TestIsFinishedPollingUnderGC(t *testing.T) {
	for i := 0; i < 50; i++ {
		h := Spawn(func() int32 { return 0 })
		for !h.IsFinished() {
			runtime.GC()
		}
		runtime.GC()
	}
}

func TestThreadViewKeepsHandleReachable(t *testing.T) {
	release := make(chan struct{})
	th := Spawn(func() int32 {
		<-release
		return 0
	}).Thread()
	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}
	assert.NotPanics(t, func() {
		_, ok := th.ID()
		assert.True(t, ok)
		th.StackSize()
	})
	close(release)
	assert.Eventually(t, func() bool {
		_, ok := th.ID()
		return !ok
	}, 5*time.Second, time.Millisecond)
	th.owner.Detach()
}

func TestIDFromRaw(t *testing.T) {
	release := make(chan struct{})
	h := Spawn(func() int32 {
		<-release
		return 0
	})
	id, ok := h.Thread().ID()
	require.True(t, ok)
	assert.Equal(t, id, IDFromRaw(h.Thread().raw))
	assert.Equal(t, "ThreadID("+strconv.FormatUint(uint64(id), 10)+")", id.String())
	close(release)
	h.Join()

	raw := kernel.Alloc()
	assert.Zero(t, IDFromRaw(raw))
	kernel.Free(raw)
}

func TestThreadString(t *testing.T) {
	b, err := NewBuilder().Name("printer")
	require.NoError(t, err)
	release := make(chan struct{})
	h := b.Spawn(func() int32 {
		<-release
		return 0
	})
	assert.Contains(t, h.Thread().String(), `name: "printer", id: `)
	close(release)
	require.Eventually(t, h.IsFinished, time.Second, time.Millisecond)
	assert.Equal(t, `Thread{name: "printer"}`, h.Thread().String())
	h.Join()
}

func TestManyConcurrentSpawns(t *testing.T) {
	before := kernel.Stats()
	const n = 64
	codes := make([]int32, n)

	var wg conc.WaitGroup
	for i := 0; i < n; i++ {
		wg.Go(func() {
			h := Spawn(func() int32 { return int32(i) })
			codes[i] = h.Join()
		})
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, int32(i), code)
	}
	after := kernel.Stats()
	assert.Equal(t, before.Live, after.Live)
	assert.Equal(t, before.Handles, after.Handles)
	assert.Equal(t, before.Started+n, after.Started)
}

func TestRawThreadStoppedState(t *testing.T) {
	h := Spawn(func() int32 { return 0 })
	raw := h.Thread().raw
	require.Eventually(t, h.IsFinished, time.Second, time.Millisecond)
	assert.Equal(t, rtos.StateStopped, kernel.GetState(raw))
	h.Detach()
}
