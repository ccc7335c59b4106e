// File: internal/cli/stress.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/momentics/furi-thread/adapters"
	"github.com/momentics/furi-thread/rtos"
	"github.com/momentics/furi-thread/thread"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Spawn and join many threads concurrently",
	RunE:  runStress,
}

var (
	stressThreads   int
	stressSpawners  int
	stressSleep     time.Duration
	stressDetach    bool
	stressHeapTrace bool
)

func init() {
	stressCmd.Flags().IntVarP(&stressThreads, "threads", "n", 256, "threads to spawn")
	stressCmd.Flags().IntVar(&stressSpawners, "spawners", 8, "concurrent spawning goroutines")
	stressCmd.Flags().DurationVar(&stressSleep, "sleep", 0, "time each thread sleeps before returning")
	stressCmd.Flags().BoolVar(&stressDetach, "detach", false, "detach every other thread instead of joining it")
	stressCmd.Flags().BoolVar(&stressHeapTrace, "heap-trace", false, "enable heap tracing on every thread")
	rootCmd.AddCommand(stressCmd)
}

type stressReport struct {
	Spawned    int
	Joined     int
	Detached   int
	Mismatched int
	Elapsed    time.Duration
	Stats      rtos.Stats
}

func runStress(cmd *cobra.Command, _ []string) error {
	if stressThreads <= 0 || stressSpawners <= 0 {
		return fmt.Errorf("threads and spawners must be positive")
	}
	rep := stress(stressThreads, stressSpawners, stressSleep, stressDetach, stressHeapTrace)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "spawned %d threads in %s (%d joined, %d detached)\n",
		rep.Spawned, rep.Elapsed.Round(time.Microsecond), rep.Joined, rep.Detached)
	ctrl := adapters.NewControlAdapter(rtos.Default())
	printMetrics(out, ctrl.Stats())
	if rep.Mismatched > 0 {
		return fmt.Errorf("%d threads returned an unexpected exit code", rep.Mismatched)
	}
	return nil
}

type outcome int

const (
	joinedOK outcome = iota
	joinedBad
	detached
)

func stress(n, spawners int, sleep time.Duration, detach, heapTrace bool) stressReport {
	start := time.Now()
	p := pool.NewWithResults[outcome]().WithMaxGoroutines(spawners)
	for i := 0; i < n; i++ {
		p.Go(func() outcome {
			b, err := thread.NewBuilder().Name(fmt.Sprintf("stress-%d", i))
			if err != nil {
				return joinedBad
			}
			if heapTrace {
				b.EnableHeapTrace()
			}
			h := b.Spawn(func() int32 {
				if sleep > 0 {
					thread.Sleep(sleep)
				} else {
					thread.YieldNow()
				}
				return int32(i)
			})
			if detach && i%2 == 1 {
				h.Detach()
				return detached
			}
			if h.Join() != int32(i) {
				return joinedBad
			}
			return joinedOK
		})
	}
	rep := stressReport{Spawned: n}
	for _, o := range p.Wait() {
		switch o {
		case joinedOK:
			rep.Joined++
		case joinedBad:
			rep.Joined++
			rep.Mismatched++
		case detached:
			rep.Detached++
		}
	}
	rep.Elapsed = time.Since(start)
	rep.Stats = rtos.Default().Stats()
	return rep
}
