// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout derivation and scenario replay.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the layout core dependency-free from observability frameworks
//   - Allows different backends (structured logs, Prometheus, tracing)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... derive panes ...
//	observability.Layout().OnLayoutUpdate("default", "DoubleWide", changed, time.Since(start))
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout guides.
// Scope identifies the guide: "default" for the device-global guide, or the
// container's name for scoped guides.
type LayoutHooks interface {
	// OnLayoutUpdate records a recomputation and whether it changed the snapshot.
	OnLayoutUpdate(scope, mode string, changed bool, duration time.Duration)

	// OnAdapterFault records an adapter read that failed and forced the
	// single-pane fallback.
	OnAdapterFault(scope string, err error)

	// OnDetach records a guide detaching from its notification sources.
	// err is the swallowed teardown error, if any.
	OnDetach(scope string, err error)
}

// =============================================================================
// Scenario Hooks
// =============================================================================

// ScenarioHooks receives events from scenario replay.
type ScenarioHooks interface {
	OnScenarioStart(name string, steps int)
	OnStepApplied(name string, index int, action string, notifications int)
	OnScenarioComplete(name string, transitions int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutUpdate(string, string, bool, time.Duration) {}
func (NoopLayoutHooks) OnAdapterFault(string, error)                       {}
func (NoopLayoutHooks) OnDetach(string, error)                             {}

// NoopScenarioHooks is a no-op implementation of ScenarioHooks.
type NoopScenarioHooks struct{}

func (NoopScenarioHooks) OnScenarioStart(string, int)                          {}
func (NoopScenarioHooks) OnStepApplied(string, int, string, int)               {}
func (NoopScenarioHooks) OnScenarioComplete(string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	scenarioHooks ScenarioHooks = NoopScenarioHooks{}
	hooksMu       sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any guide is created.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetScenarioHooks registers custom scenario hooks.
func SetScenarioHooks(h ScenarioHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scenarioHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Scenario returns the registered scenario hooks.
func Scenario() ScenarioHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scenarioHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	scenarioHooks = NoopScenarioHooks{}
}
