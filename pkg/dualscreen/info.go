package dualscreen

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/event"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// Property identifies one of the values an Info publishes.
type Property string

const (
	PropSpanningBounds Property = "SpanningBounds"
	PropHingeBounds    Property = "HingeBounds"
	PropIsLandscape    Property = "IsLandscape"
	PropSpanMode       Property = "SpanMode"
)

// Info mirrors a Guide's derived values and notifies subscribers per
// property when one of them changes.
type Info struct {
	guide  *Guide
	owned  bool
	closed bool
	logger *log.Logger

	spanningBounds []geom.Rect
	hingeBounds    geom.Rect
	isLandscape    bool
	spanMode       SpanMode

	changes  event.Feed[Property]
	guideSub *event.Subscription
}

// NewInfo wraps guide. Closing the Info does not close the guide.
func NewInfo(guide *Guide) *Info {
	info := &Info{
		guide:          guide,
		logger:         guide.logger,
		spanningBounds: []geom.Rect{},
	}
	info.load(guide.State())
	info.guideSub = guide.Subscribe(info.apply)
	return info
}

// NewScopedInfo builds a guide scoped to c and wraps it. Closing the Info
// also closes that guide.
func NewScopedInfo(adapter display.Adapter, c Container, opts ...Option) *Info {
	opts = append(opts, WithContainer(c))
	info := NewInfo(NewGuide(adapter, opts...))
	info.owned = true
	return info
}

// Guide returns the backing guide.
func (i *Info) Guide() *Guide {
	return i.guide
}

// SpanningBounds returns [Pane1, Pane2] while content spans the hinge, or an
// empty slice. It reads the adapter first, so a change the adapter never
// signalled is still returned and published.
func (i *Info) SpanningBounds() []geom.Rect {
	i.sync()
	return slices.Clone(i.spanningBounds)
}

// HingeBounds returns the hinge rectangle, or zero. Like SpanningBounds it
// reads the adapter first.
func (i *Info) HingeBounds() geom.Rect {
	i.sync()
	return i.hingeBounds
}

// IsLandscape reports the current orientation.
func (i *Info) IsLandscape() bool {
	return i.isLandscape
}

// SpanMode returns the current span mode.
func (i *Info) SpanMode() SpanMode {
	return i.spanMode
}

// Subscribe registers fn to receive the identifier of each changed property.
func (i *Info) Subscribe(fn func(Property)) *event.Subscription {
	return i.changes.Subscribe(fn)
}

// Refresh recomputes the guide and publishes whatever changed.
// IsLandscape and SpanMode return the last published values; call Refresh
// when the adapter may have changed without signalling.
func (i *Info) Refresh() {
	i.sync()
}

// sync recomputes the guide. Changes reach apply through the guide
// subscription; the guide stores its state before notifying, so a getter
// called from a subscriber sees no further change.
func (i *Info) sync() {
	if i.closed {
		return
	}
	i.guide.UpdateLayouts()
	i.apply(i.guide.State())
}

// Close detaches from the guide, closing it too when the Info owns it.
// Safe to call more than once.
func (i *Info) Close() {
	if i.closed {
		return
	}
	i.closed = true
	if err := i.guideSub.Unsubscribe(); err != nil {
		i.logger.Debug("ignoring detach error", "scope", i.guide.Scope(), "err", err)
	}
	i.changes.Close()
	if i.owned {
		i.guide.Close()
	}
}

// load sets the initial values without notifying.
func (i *Info) load(s State) {
	i.spanningBounds = s.SpanningBounds()
	i.hingeBounds = s.Hinge
	i.isLandscape = s.IsLandscape
	i.spanMode = s.Mode
}

// apply publishes s property by property.
func (i *Info) apply(s State) {
	i.setSpanningBounds(s.SpanningBounds())
	i.setIsLandscape(s.IsLandscape)
	i.setHingeBounds(s.Hinge)
	i.setSpanMode(s.Mode)
}

func (i *Info) setSpanningBounds(v []geom.Rect) {
	if slices.Equal(i.spanningBounds, v) {
		return
	}
	i.spanningBounds = v
	i.notify(PropSpanningBounds)
}

func (i *Info) setHingeBounds(v geom.Rect) {
	if i.hingeBounds == v {
		return
	}
	i.hingeBounds = v
	i.notify(PropHingeBounds)
}

func (i *Info) setIsLandscape(v bool) {
	if i.isLandscape == v {
		return
	}
	i.isLandscape = v
	i.notify(PropIsLandscape)
}

func (i *Info) setSpanMode(v SpanMode) {
	if i.spanMode == v {
		return
	}
	i.spanMode = v
	i.notify(PropSpanMode)
}

func (i *Info) notify(p Property) {
	i.changes.Emit(p)
}
