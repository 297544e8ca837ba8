// Package geom provides the rectangle, point and size types used to describe
// screen regions.
//
// Values are plain float64 structs so they can be compared with == and used
// as map keys. Whether a value is in device pixels or device-independent
// units (DIP) is a matter of context: display adapters report pixels, and
// everything above the adapter boundary is DIP after a single call to
// [Rect.ToDIP] or [Size.ToDIP].
package geom

import "fmt"

// Point is a location in screen coordinates.
type Point struct {
	X, Y float64
}

// Size is a width and height.
type Size struct {
	Width, Height float64
}

// IsEmpty returns true if either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ToDIP converts a pixel size to device-independent units.
func (s Size) ToDIP(density float64) Size {
	return Size{Width: s.Width / density, Height: s.Height / density}
}

// Swap returns the size with width and height exchanged.
func (s Size) Swap() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// Rect is an axis-aligned rectangle.
// X and Y are the top-left corner; Width and Height are dimensions.
// The zero Rect means "no region".
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Zero is the "no hinge / not applicable" sentinel.
var Zero = Rect{}

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// FromSize returns a Rect at the origin with the given size.
func FromSize(s Size) Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the dimensions of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// IsZero reports whether every field is zero.
func (r Rect) IsZero() bool {
	return r == Zero
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsVertical reports whether the rectangle is taller than it is wide.
// A vertical hinge splits the screen into left and right panes.
func (r Rect) IsVertical() bool {
	return r.Width < r.Height
}

// Translate returns a new Rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Relative returns r expressed in the coordinate space of a container whose
// top-left corner sits at origin.
func (r Rect) Relative(origin Point) Rect {
	return r.Translate(-origin.X, -origin.Y)
}

// ToDIP converts a pixel rectangle to device-independent units by dividing
// every component by density.
func (r Rect) ToDIP(density float64) Rect {
	return Rect{
		X:      r.X / density,
		Y:      r.Y / density,
		Width:  r.Width / density,
		Height: r.Height / density,
	}
}

// Intersect returns the intersection of two rectangles.
// If the rectangles don't overlap, returns the zero Rect. When one rectangle
// lies inside the other it is returned as is, without rounding drift.
func (r Rect) Intersect(other Rect) Rect {
	if other.covers(r) && !r.IsEmpty() {
		return r
	}
	if r.covers(other) && !other.IsEmpty() {
		return other
	}

	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())

	width := right - x
	height := bottom - y

	if width <= 0 || height <= 0 {
		return Zero
	}

	return Rect{X: x, Y: y, Width: width, Height: height}
}

func (r Rect) covers(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y && other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Intersects returns true if the two rectangles overlap.
// Touching edges do not count as overlapping.
func (r Rect) Intersects(other Rect) bool {
	return !r.Intersect(other).IsEmpty()
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// String formats the rectangle as "(x, y, w, h)".
func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", r.X, r.Y, r.Width, r.Height)
}
