// File: internal/cli/ps.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momentics/furi-thread/rtos"
	"github.com/momentics/furi-thread/thread"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List kernel threads and recent exits",
	Long: `Starts a set of sample threads, lists every registered kernel thread
while they run, then stops them and lists the exit history.`,
	RunE: runPs,
}

var psThreads int

func init() {
	psCmd.Flags().IntVarP(&psThreads, "threads", "n", 4, "sample threads to start")
	rootCmd.AddCommand(psCmd)
}

func runPs(cmd *cobra.Command, _ []string) error {
	if psThreads < 0 {
		return fmt.Errorf("threads must not be negative")
	}
	k := rtos.Default()
	release := make(chan struct{})
	started := make(chan struct{}, psThreads)

	handles := make([]*thread.JoinHandle, 0, psThreads)
	for i := 0; i < psThreads; i++ {
		b, err := thread.NewBuilder().Name(fmt.Sprintf("sample-%d", i))
		if err != nil {
			close(release)
			return err
		}
		handles = append(handles, b.StackSize(thread.MinStackSize<<uint(i%4)).Spawn(func() int32 {
			thread.SetFlags(thread.CurrentID(), 1<<uint(i%31))
			started <- struct{}{}
			<-release
			return int32(i)
		}))
	}
	for range handles {
		<-started
	}

	out := cmd.OutOrStdout()
	printTitle(out, "Threads")
	fmt.Fprintln(out, threadsTable(k.Threads()).Render())

	close(release)
	for _, h := range handles {
		h.Join()
	}

	printTitle(out, "Exit history")
	fmt.Fprintln(out, historyTable(k.History()).Render())
	return nil
}
