package dualscreen

import (
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/event"
	"github.com/matzehuels/dualscreen/pkg/geom"
	"github.com/matzehuels/dualscreen/pkg/observability"
)

// testDuo is a dual-screen device with DIP-friendly numbers: 1400x900 DIP in
// natural orientation with a 40 DIP vertical hinge at x=680.
var testDuo = display.Profile{
	Name:    "test-duo",
	Density: 2,
	Screen:  geom.Size{Width: 2800, Height: 1800},
	Hinge:   geom.NewRect(1360, 0, 80, 1800),
}

var testFlat = display.Profile{
	Name:    "test-flat",
	Density: 2,
	Screen:  geom.Size{Width: 1000, Height: 2000},
}

// recorder collects guide states and info properties.
type recorder struct {
	states []State
	props  []Property
}

func watchGuide(g *Guide) *recorder {
	r := &recorder{}
	g.Subscribe(func(s State) { r.states = append(r.states, s) })
	return r
}

func watchInfo(i *Info) *recorder {
	r := &recorder{}
	i.Subscribe(func(p Property) { r.props = append(r.props, p) })
	return r
}

// hookRecorder captures layout hooks.
type hookRecorder struct {
	mu      sync.Mutex
	faults  []error
	detach  []error
	updates int
}

func (h *hookRecorder) OnLayoutUpdate(string, string, bool, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates++
}

func (h *hookRecorder) OnAdapterFault(_ string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.faults = append(h.faults, err)
}

func (h *hookRecorder) OnDetach(_ string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach = append(h.detach, err)
}

func installHooks(t *testing.T) *hookRecorder {
	t.Helper()
	h := &hookRecorder{}
	observability.SetLayoutHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

// hingeFault wraps an adapter whose hinge read fails.
type hingeFault struct {
	display.Adapter
	err error
}

func (a hingeFault) HingeRectPixels() (geom.Rect, error) {
	return geom.Zero, a.err
}

// badRotation wraps an adapter that reports an out-of-range rotation.
type badRotation struct {
	display.Adapter
}

func (badRotation) Rotation() (display.Rotation, error) {
	return display.Rotation(7), nil
}

// silentAdapter wraps an adapter that never signals screen changes.
type silentAdapter struct {
	display.Adapter
}

func (silentAdapter) OnScreenChanged(func()) *event.Subscription {
	return event.NewSubscription(nil)
}

func assertPairing(t *testing.T, s State) {
	t.Helper()
	if s.Hinge.IsZero() != s.Pane2.IsZero() {
		t.Errorf("hinge %v and pane2 %v must be both zero or both non-zero", s.Hinge, s.Pane2)
	}
	bounds := s.SpanningBounds()
	switch {
	case s.Hinge.IsZero() || s.Pane2.IsZero():
		if len(bounds) != 0 {
			t.Errorf("SpanningBounds() = %v, want empty", bounds)
		}
	default:
		if len(bounds) != 2 || bounds[0] != s.Pane1 || bounds[1] != s.Pane2 {
			t.Errorf("SpanningBounds() = %v, want [pane1 pane2]", bounds)
		}
	}
	if s.Mode.IsDouble() != s.IsSpanned() {
		t.Errorf("mode %v disagrees with spanned=%t", s.Mode, s.IsSpanned())
	}
}
