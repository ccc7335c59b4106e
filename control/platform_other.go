//go:build !linux && !windows
// +build !linux,!windows

// control/platform_other.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"os"
	"runtime"
)

// RegisterPlatformProbes sets the portable debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.pid", func() any {
		return os.Getpid()
	})
}
