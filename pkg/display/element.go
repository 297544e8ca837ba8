package display

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/event"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// SimElement is an element placed directly on a Simulator's root view.
type SimElement struct {
	id     string
	sim    *Simulator
	bounds geom.Rect
	alive  bool
	layout event.Feed[struct{}]
}

// AddElement places an element at bounds (screen DIP). An existing element
// with the same id is replaced.
func (s *Simulator) AddElement(id string, bounds geom.Rect) *SimElement {
	if old, ok := s.elements[id]; ok {
		old.Destroy()
	}
	el := &SimElement{id: id, sim: s, bounds: bounds, alive: true}
	s.elements[id] = el
	return el
}

// Element returns a live element by id.
func (s *Simulator) Element(id string) (*SimElement, bool) {
	el, ok := s.elements[id]
	return el, ok
}

func (e *SimElement) ElementID() string { return e.id }

// Bounds returns the element's rectangle. Simulated elements are children
// of the root view, so this is also their screen rectangle.
func (e *SimElement) Bounds() geom.Rect { return e.bounds }

// Alive reports whether the element is still attached.
func (e *SimElement) Alive() bool { return e.alive }

// Move lays the element out at new bounds and runs a layout pass.
func (e *SimElement) Move(bounds geom.Rect) {
	if !e.alive || bounds == e.bounds {
		return
	}
	e.bounds = bounds
	e.layout.Emit(struct{}{})
}

// Destroy tears the element down. Watchers see one final layout pass in
// which they detach themselves.
func (e *SimElement) Destroy() {
	if !e.alive {
		return
	}
	e.alive = false
	if e.sim.elements[e.id] == e {
		delete(e.sim.elements, e.id)
	}
	e.layout.Emit(struct{}{})
}

// =============================================================================
// ElementLocator
// =============================================================================

func (s *Simulator) ElementScreenLocation(el Element) (geom.Point, bool) {
	se, ok := s.lookup(el)
	if !ok {
		return geom.Point{}, false
	}
	return se.bounds.Origin(), true
}

func (s *Simulator) WatchElementLayout(el Element, fn func()) (*event.Subscription, error) {
	if fn == nil {
		return event.NewSubscription(nil), nil
	}
	se, ok := s.lookup(el)
	if !ok {
		return nil, errors.New(errors.ErrCodeElementDetached, "element %s is not attached", el.ElementID())
	}

	var inner *event.Subscription
	inner = se.layout.Subscribe(func(struct{}) {
		if !se.alive {
			if err := inner.Unsubscribe(); err != nil {
				s.logger.Debug("layout watcher already removed", "element", se.id, "err", err)
			}
			return
		}
		fn()
	})

	return event.NewSubscription(func() error {
		err := inner.Unsubscribe()
		if !se.alive {
			return errors.New(errors.ErrCodeElementDetached, "element %s was torn down", se.id)
		}
		return err
	}), nil
}

func (s *Simulator) lookup(el Element) (*SimElement, bool) {
	if el == nil {
		return nil, false
	}
	se, ok := s.elements[el.ElementID()]
	if !ok || !se.alive {
		return nil, false
	}
	return se, true
}

// =============================================================================
// ElementContainer
// =============================================================================

// ElementContainer measures an element through an ElementLocator so a scoped
// layout guide can compute panes relative to it.
type ElementContainer struct {
	el      Element
	locator ElementLocator
	logger  *log.Logger
}

// NewElementContainer wraps el. A nil logger uses log.Default().
func NewElementContainer(locator ElementLocator, el Element, logger *log.Logger) *ElementContainer {
	if logger == nil {
		logger = log.Default()
	}
	return &ElementContainer{el: el, locator: locator, logger: logger}
}

// Name returns the element id.
func (c *ElementContainer) Name() string {
	return c.el.ElementID()
}

// ScreenBounds returns the element's rectangle in screen DIP, or false when
// the element is not on screen.
func (c *ElementContainer) ScreenBounds() (geom.Rect, bool) {
	loc, ok := c.locator.ElementScreenLocation(c.el)
	if !ok {
		return geom.Zero, false
	}
	b := c.el.Bounds()
	return geom.NewRect(loc.X, loc.Y, b.Width, b.Height), true
}

// WatchLayout forwards to the locator.
func (c *ElementContainer) WatchLayout(fn func()) (*event.Subscription, error) {
	sub, err := c.locator.WatchElementLayout(c.el, fn)
	if err != nil {
		c.logger.Debug("cannot watch element layout", "element", c.Name(), "err", err)
		return nil, err
	}
	return sub, nil
}
