// File: internal/cli/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package cli implements the furithread command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/momentics/furi-thread/control"
	"github.com/momentics/furi-thread/internal/logging"
	"github.com/momentics/furi-thread/rtos"
)

var rootCmd = &cobra.Command{
	Use:   "furithread",
	Short: "Exercise the furi-thread kernel",
	Long: `furithread drives the thread lifecycle layer: it spawns and joins
kernel threads, signals them through notification flags and reports kernel
counters, live threads and recent exits.

Settings come from --config, FURI_* environment variables and defaults.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile     string
	logLevel    string
	watchConfig bool
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "settings file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().BoolVar(&watchConfig, "watch", false, "reload the settings file while running")
}

// setup loads the settings and reconfigures the default kernel with them.
func setup(cmd *cobra.Command, _ []string) error {
	loader := control.NewLoader(cfgFile, nil)
	s, err := loader.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		s.Log.Level = logLevel
		if err := s.Validate(); err != nil {
			return err
		}
	}

	logger := s.NewLogger(cmd.ErrOrStderr())
	logging.SetDefault(logger)
	loader.SetLogger(logger)

	k := rtos.Default()
	k.Reconfigure(s.KernelConfig(logger))

	if watchConfig {
		loader.OnChange(func(s control.Settings) {
			if err := control.Apply(k, s); err != nil {
				logger.Warn("settings not applied", "error", err)
			}
		})
		loader.Watch()
	}
	return nil
}
