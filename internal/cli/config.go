// File: internal/cli/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/momentics/furi-thread/adapters"
	"github.com/momentics/furi-thread/control"
	"github.com/momentics/furi-thread/rtos"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective kernel settings",
	RunE:  runConfig,
}

var configSet []string

func init() {
	configCmd.Flags().StringArrayVar(&configSet, "set", nil, "apply key=value before printing (repeatable)")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	ctrl := adapters.NewControlAdapter(rtos.Default())
	if len(configSet) > 0 {
		changes, err := parseAssignments(configSet)
		if err != nil {
			return err
		}
		if err := ctrl.SetConfig(changes); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	if cfgFile != "" {
		fmt.Fprintf(out, "settings file: %s\n", cfgFile)
	}
	fmt.Fprintln(out, keyValueTable(ctrl.GetConfig()).Render())
	return nil
}

func parseAssignments(items []string) (map[string]any, error) {
	known := control.DefaultSettings().Map()
	out := make(map[string]any, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", item)
		}
		if _, ok := known[key]; !ok {
			return nil, fmt.Errorf("unknown setting %q", key)
		}
		out[key] = value
	}
	return out, nil
}
