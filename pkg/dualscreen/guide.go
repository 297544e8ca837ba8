package dualscreen

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/event"
	"github.com/matzehuels/dualscreen/pkg/geom"
	"github.com/matzehuels/dualscreen/pkg/observability"
)

// defaultScope names the full-screen guide in logs and hooks.
const defaultScope = "default"

// Container is a layout context a scoped guide measures against.
type Container interface {
	// Name identifies the container in logs.
	Name() string

	// ScreenBounds returns the container's rectangle in screen DIP, or false
	// if it is not currently laid out on screen.
	ScreenBounds() (geom.Rect, bool)
}

// LayoutWatcher is implemented by containers that can report their own
// layout passes. Scoped guides recompute after each one.
type LayoutWatcher interface {
	WatchLayout(fn func()) (*event.Subscription, error)
}

// Guide derives the dual-screen layout for one context.
// It is not safe for concurrent use.
type Guide struct {
	adapter   display.Adapter
	container Container
	scope     string
	logger    *log.Logger

	state    State
	computed bool
	closed   bool

	// screen is the last screen size read successfully, in DIP.
	screen geom.Size

	changes   event.Feed[State]
	screenSub *event.Subscription
	layoutSub *event.Subscription
}

// Option configures a Guide.
type Option func(*Guide)

// WithContainer scopes the guide to c: panes are measured relative to it.
func WithContainer(c Container) Option {
	return func(g *Guide) {
		if c != nil {
			g.container = c
			g.scope = c.Name()
		}
	}
}

// WithLogger sets the guide's logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(g *Guide) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuide creates a guide over adapter and subscribes to its change signal.
// A nil adapter behaves like display.Unavailable.
func NewGuide(adapter display.Adapter, opts ...Option) *Guide {
	if adapter == nil {
		adapter = display.Unavailable{}
	}
	g := &Guide{
		adapter: adapter,
		scope:   defaultScope,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.screenSub = adapter.OnScreenChanged(g.UpdateLayouts)
	if w, ok := g.container.(LayoutWatcher); ok {
		sub, err := w.WatchLayout(g.UpdateLayouts)
		if err != nil {
			g.logger.Debug("container layout not watchable", "scope", g.scope, "err", err)
		} else {
			g.layoutSub = sub
		}
	}
	return g
}

// Scope returns "default" for full-screen guides or the container name.
func (g *Guide) Scope() string {
	return g.scope
}

// State returns the current snapshot, computing it on first access.
func (g *Guide) State() State {
	if !g.computed {
		g.UpdateLayouts()
	}
	return g.state
}

// Hinge recomputes and returns the hinge bounds, or the zero Rect when no
// hinge splits this context.
func (g *Guide) Hinge() geom.Rect {
	g.UpdateLayouts()
	return g.state.Hinge
}

// Pane1 returns the first pane (left or top).
func (g *Guide) Pane1() geom.Rect {
	return g.State().Pane1
}

// Pane2 returns the second pane, or the zero Rect in single-pane mode.
func (g *Guide) Pane2() geom.Rect {
	return g.State().Pane2
}

// IsLandscape reports whether the screen is rotated a quarter turn.
func (g *Guide) IsLandscape() bool {
	return g.State().IsLandscape
}

// Mode returns the current span mode.
func (g *Guide) Mode() SpanMode {
	return g.State().Mode
}

// Subscribe registers fn to receive each changed snapshot.
func (g *Guide) Subscribe(fn func(State)) *event.Subscription {
	return g.changes.Subscribe(fn)
}

// UpdateLayouts recomputes the snapshot from the adapter's latest values and
// notifies subscribers if any derived value changed.
func (g *Guide) UpdateLayouts() {
	start := time.Now()

	next, ok := g.derive()
	if !ok {
		// The container is not on screen; keep the last snapshot.
		g.computed = true
		return
	}

	changed := next != g.state
	g.computed = true
	observability.Layout().OnLayoutUpdate(g.scope, next.Mode.String(), changed, time.Since(start))
	if !changed {
		return
	}

	g.state = next
	g.logger.Debug("layout changed",
		"scope", g.scope,
		"mode", next.Mode,
		"pane1", next.Pane1,
		"pane2", next.Pane2,
		"hinge", next.Hinge,
		"landscape", next.IsLandscape)
	g.changes.Emit(next)
}

// Close detaches the guide from the adapter and its container and drops all
// subscribers. It is safe to call more than once and after the container was
// torn down; teardown errors are logged, not returned.
func (g *Guide) Close() {
	if g.closed {
		return
	}
	g.closed = true

	var detachErr error
	for _, sub := range []*event.Subscription{g.screenSub, g.layoutSub} {
		if err := sub.Unsubscribe(); err != nil {
			g.logger.Debug("ignoring detach error", "scope", g.scope, "err", err)
			if detachErr == nil {
				detachErr = err
			}
		}
	}
	g.changes.Close()
	observability.Layout().OnDetach(g.scope, detachErr)
}

// reading is one pass over the adapter, already converted to DIP.
type reading struct {
	rotation display.Rotation
	screen   geom.Size
	hinge    geom.Rect
	dual     bool
}

// read collects what the adapter can provide. On error the reading is still
// usable as a single-pane fallback: dual is false and unreadable values are zero.
func (g *Guide) read() (reading, error) {
	var r reading
	var firstErr error
	fail := func(what string, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", what, err)
		}
	}

	if rot, err := g.adapter.Rotation(); err != nil {
		fail("rotation", err)
	} else if !rot.Valid() {
		fail("rotation", errors.New(errors.ErrCodeInvalidRotation, "rotation must be 0, 90, 180 or 270, got %d", int(rot)))
	} else {
		r.rotation = rot
	}

	density, err := g.adapter.DensityScale()
	if err == nil {
		err = errors.ValidateDensity(density)
	}
	if err != nil {
		fail("density", err)
		return r, firstErr
	}

	if size, err := g.adapter.ScreenSizePixels(); err != nil {
		fail("screen size", err)
	} else {
		r.screen = size.ToDIP(density)
	}

	if firstErr != nil || !g.adapter.IsDualModeActive() {
		return r, firstErr
	}

	px, err := g.adapter.HingeRectPixels()
	if err == nil {
		err = errors.ValidateExtent(px.X, px.Y, px.Width, px.Height)
	}
	if err != nil {
		fail("hinge", err)
		return r, firstErr
	}
	r.hinge = px.ToDIP(density)
	r.dual = !r.hinge.IsZero()
	return r, nil
}

// derive computes the next snapshot. It returns false when the guide's
// container cannot be measured. When the screen size cannot be read the
// last known size is used, so a fault collapses to one full-screen pane.
func (g *Guide) derive() (State, bool) {
	r, err := g.read()
	if err != nil {
		g.logger.Debug("display adapter fault, using single pane", "scope", g.scope, "err", err)
		observability.Layout().OnAdapterFault(g.scope, err)
	}
	if r.screen.IsEmpty() {
		r.screen = g.screen
	} else {
		g.screen = r.screen
	}

	area := geom.FromSize(r.screen)
	if g.container != nil {
		bounds, ok := g.container.ScreenBounds()
		if !ok {
			return State{}, false
		}
		area = bounds
	}

	return Split(area, r.hinge, r.dual, r.rotation.IsLandscape()), true
}
