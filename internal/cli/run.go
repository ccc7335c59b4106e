// File: internal/cli/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momentics/furi-thread/furitime"
	"github.com/momentics/furi-thread/thread"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the flag hand-off scenario",
	Long: `Spawns a waiter blocked on flag 0x1 and a setter that raises 0x1 on
itself and on the waiter, then exits with the given code. Both threads are
joined and the observed flags are printed.`,
	RunE: runScenario,
}

var (
	runExitCode int32
	runFlag     uint32
	runTimeout  uint32
)

func init() {
	runCmd.Flags().Int32Var(&runExitCode, "exit-code", 42, "setter exit code")
	runCmd.Flags().Uint32Var(&runFlag, "flag", 0x1, "flag bit to hand off")
	runCmd.Flags().Uint32Var(&runTimeout, "timeout-ms", 1000, "waiter timeout in milliseconds")
	rootCmd.AddCommand(runCmd)
}

type scenarioResult struct {
	setterCode uint32
	exitCode   int32
	observed   uint32
	remaining  uint32
	waitErr    error
}

func runScenario(cmd *cobra.Command, _ []string) error {
	r, err := handOff(runFlag, runExitCode, furitime.FromMillis(runTimeout))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "setter exit code: %d\n", r.exitCode)
	fmt.Fprintf(out, "setter flags:     %#x\n", r.setterCode)
	if r.waitErr != nil {
		fmt.Fprintf(out, "waiter:           %v\n", r.waitErr)
		return r.waitErr
	}
	fmt.Fprintf(out, "waiter observed:  %#x\n", r.observed)
	fmt.Fprintf(out, "waiter remaining: %#x\n", r.remaining)
	return nil
}

func handOff(flag uint32, code int32, timeout furitime.Duration) (scenarioResult, error) {
	var r scenarioResult
	ready := make(chan thread.ThreadID, 1)

	b, err := thread.NewBuilder().Name("waiter")
	if err != nil {
		return r, err
	}
	waiter := b.Spawn(func() int32 {
		ready <- thread.CurrentID()
		r.observed, r.waitErr = thread.WaitAnyFlags(flag, true, timeout)
		r.remaining, _ = thread.GetFlags()
		return 0
	})
	waiterID := <-ready

	b, err = thread.NewBuilder().Name("setter")
	if err != nil {
		return r, err
	}
	var setErr error
	setter := b.Spawn(func() int32 {
		if _, setErr = thread.SetFlags(thread.CurrentID(), flag); setErr != nil {
			return -1
		}
		r.setterCode, _ = thread.GetFlags()
		if _, setErr = thread.SetFlags(waiterID, flag); setErr != nil {
			return -1
		}
		return code
	})

	r.exitCode = setter.Join()
	waiter.Join()
	return r, setErr
}
