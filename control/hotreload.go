// control/hotreload.go
// Process-wide hot-reload hooks fired when the settings file changes.
// TriggerHotReloadSync exists for deterministic test notification.

package control

import "sync"

var (
	hooksMu     sync.Mutex
	reloadHooks []func()
)

// RegisterReloadHook adds a new component reload listener.
func RegisterReloadHook(fn func()) {
	hooksMu.Lock()
	reloadHooks = append(reloadHooks, fn)
	hooksMu.Unlock()
}

func hooks() []func() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	return append([]func(){}, reloadHooks...)
}

// TriggerHotReload dispatches all reload hooks asynchronously.
func TriggerHotReload() {
	for _, fn := range hooks() {
		go fn()
	}
}

// TriggerHotReloadSync invokes all reload hooks synchronously (for test determinism).
func TriggerHotReloadSync() {
	for _, fn := range hooks() {
		fn()
	}
}
