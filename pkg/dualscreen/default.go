package dualscreen

import (
	"sync"

	"github.com/matzehuels/dualscreen/pkg/display"
)

// Process-wide defaults. The adapter is registered once with Init; the guide
// and info are built on first access and never replaced.
var (
	defaultMu      sync.Mutex
	defaultAdapter display.Adapter
	defaultOpts    []Option

	defaultGuideOnce sync.Once
	defaultGuide     *Guide

	currentOnce sync.Once
	current     *Info
)

// Init registers the platform adapter behind DefaultGuide and Current.
// It reports false, and changes nothing, once the default guide exists.
func Init(adapter display.Adapter, opts ...Option) bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultGuide != nil {
		return false
	}
	defaultAdapter = adapter
	defaultOpts = opts
	return true
}

// DefaultGuide returns the full-screen guide, creating it on first call.
func DefaultGuide() *Guide {
	defaultGuideOnce.Do(func() {
		defaultMu.Lock()
		defer defaultMu.Unlock()
		defaultGuide = NewGuide(defaultAdapter, defaultOpts...)
	})
	return defaultGuide
}

// Current returns the process-wide Info over DefaultGuide.
func Current() *Info {
	currentOnce.Do(func() {
		current = NewInfo(DefaultGuide())
	})
	return current
}
