package dualscreen

import (
	"fmt"

	"github.com/matzehuels/dualscreen/pkg/geom"
)

// SpanMode describes whether content occupies one pane or two.
type SpanMode int

const (
	// SinglePane: one usable region, no hinge splitting content.
	SinglePane SpanMode = iota
	// DoubleWide: two panes side by side around a vertical hinge.
	DoubleWide
	// DoubleTall: two panes stacked around a horizontal hinge.
	DoubleTall
)

// IsDouble reports whether content is split across two panes.
func (m SpanMode) IsDouble() bool {
	return m == DoubleWide || m == DoubleTall
}

// PaneCount returns 1 or 2.
func (m SpanMode) PaneCount() int {
	if m.IsDouble() {
		return 2
	}
	return 1
}

func (m SpanMode) String() string {
	switch m {
	case SinglePane:
		return "SinglePane"
	case DoubleWide:
		return "DoubleWide"
	case DoubleTall:
		return "DoubleTall"
	default:
		return fmt.Sprintf("SpanMode(%d)", int(m))
	}
}

// State is a derived layout snapshot. All geometry is in DIP, relative to the
// guide's context. States are comparable with ==.
type State struct {
	Hinge       geom.Rect
	Pane1       geom.Rect
	Pane2       geom.Rect
	IsLandscape bool
	Mode        SpanMode
}

// IsSpanned reports whether both the hinge and the second pane are present.
func (s State) IsSpanned() bool {
	return !s.Hinge.IsZero() && !s.Pane2.IsZero()
}

// SpanningBounds returns [Pane1, Pane2] when content is split by the hinge,
// or an empty slice otherwise.
func (s State) SpanningBounds() []geom.Rect {
	if !s.IsSpanned() {
		return []geom.Rect{}
	}
	return []geom.Rect{s.Pane1, s.Pane2}
}

func (s State) String() string {
	if !s.IsSpanned() {
		return fmt.Sprintf("%s pane1=%v landscape=%t", s.Mode, s.Pane1, s.IsLandscape)
	}
	return fmt.Sprintf("%s pane1=%v hinge=%v pane2=%v landscape=%t", s.Mode, s.Pane1, s.Hinge, s.Pane2, s.IsLandscape)
}

// Split derives panes for a context occupying area (screen DIP) on a device
// whose hinge sits at hinge (screen DIP). When dual is false, or the area
// does not straddle the hinge on its split axis, the whole area is Pane1.
func Split(area, hinge geom.Rect, dual, landscape bool) State {
	single := State{
		Pane1:       geom.FromSize(area.Size()),
		IsLandscape: landscape,
		Mode:        SinglePane,
	}
	if !dual || hinge.IsEmpty() || area.IsEmpty() {
		return single
	}

	s := State{IsLandscape: landscape}
	if hinge.IsVertical() {
		if area.X >= hinge.X || area.Right() <= hinge.Right() {
			return single
		}
		left := hinge.X - area.X
		s.Pane1 = geom.NewRect(0, 0, left, area.Height)
		s.Pane2 = geom.NewRect(hinge.Right()-area.X, 0, area.Width-left-hinge.Width, area.Height)
		s.Mode = DoubleWide
	} else {
		if area.Y >= hinge.Y || area.Bottom() <= hinge.Bottom() {
			return single
		}
		top := hinge.Y - area.Y
		s.Pane1 = geom.NewRect(0, 0, area.Width, top)
		s.Pane2 = geom.NewRect(0, hinge.Bottom()-area.Y, area.Width, area.Height-top-hinge.Height)
		s.Mode = DoubleTall
	}

	s.Hinge = hinge.Intersect(area).Relative(area.Origin())
	if s.Hinge.IsEmpty() || s.Pane1.IsEmpty() || s.Pane2.IsEmpty() {
		return single
	}
	return s
}
