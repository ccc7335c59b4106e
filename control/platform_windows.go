//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific debug probes.

package control

import (
	"runtime"
	"runtime/pprof"

	"golang.org/x/sys/windows"
)

// RegisterPlatformProbes sets Windows-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.pid", func() any {
		return int(windows.GetCurrentProcessId())
	})
	dp.RegisterProbe("platform.os_threads", func() any {
		return pprof.Lookup("threadcreate").Count()
	})
}
