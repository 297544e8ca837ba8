package display

import (
	"fmt"

	"github.com/matzehuels/dualscreen/pkg/event"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// Rotation is the screen rotation relative to the device's natural orientation.
type Rotation int

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// IsLandscape reports whether the rotation is a quarter turn from natural.
func (r Rotation) IsLandscape() bool {
	return r == Rotation90 || r == Rotation270
}

// Next returns the rotation a quarter turn clockwise.
func (r Rotation) Next() Rotation {
	return (r + 1) % 4
}

// Valid reports whether r is one of the four standard rotations.
func (r Rotation) Valid() bool {
	return r >= Rotation0 && r <= Rotation270
}

func (r Rotation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
	return fmt.Sprintf("%d°", r.Degrees())
}

// RotationFromDegrees converts 0, 90, 180 or 270 to a Rotation.
func RotationFromDegrees(deg int) (Rotation, bool) {
	deg = ((deg % 360) + 360) % 360
	if deg%90 != 0 {
		return Rotation0, false
	}
	return Rotation(deg / 90), true
}

// Adapter is the capability set layout guides consume.
//
// Geometry is reported in device pixels for the current rotation. Any method
// may fail; guides treat a failure as "not spanned" and keep producing
// single-pane geometry.
type Adapter interface {
	// IsDualModeActive reports whether content is currently spanned across
	// both display regions.
	IsDualModeActive() bool

	// HingeRectPixels returns the hinge bounds, or the zero Rect if none.
	HingeRectPixels() (geom.Rect, error)

	// Rotation returns the current screen rotation.
	Rotation() (Rotation, error)

	// DensityScale returns pixels per device-independent unit.
	DensityScale() (float64, error)

	// ScreenSizePixels returns the full available screen area.
	ScreenSizePixels() (geom.Size, error)

	// OnScreenChanged registers fn to run whenever any of the values above
	// may have changed. Signals can be redundant.
	OnScreenChanged(fn func()) *event.Subscription
}

// Element is a UI element the platform can place on screen.
type Element interface {
	// ElementID identifies the element in logs.
	ElementID() string

	// Bounds is the element's layout rectangle in DIP, relative to its parent.
	Bounds() geom.Rect
}

// ElementLocator finds elements on screen and watches them for layout changes.
type ElementLocator interface {
	// ElementScreenLocation returns the element's top-left corner in screen
	// DIP, or false if the element is not attached to a live view.
	ElementScreenLocation(el Element) (geom.Point, bool)

	// WatchElementLayout calls fn after every layout pass that affects el.
	// Unsubscribing is safe after the element was torn down.
	WatchElementLayout(el Element, fn func()) (*event.Subscription, error)
}
