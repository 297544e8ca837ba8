package display

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/event"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// Simulator is an in-memory dual-screen device.
//
// The device geometry is stored in its natural orientation and rotated on
// every read, the way a platform reports hinge bounds per rotation. Setters
// fire OnScreenChanged only when the stored value actually changed, except
// [Simulator.Touch] and [Simulator.SetHingeAngle], which model redundant
// configuration and sensor callbacks.
//
// A Simulator is not safe for concurrent use; drive it from the goroutine
// that owns the layout guides.
type Simulator struct {
	profile    Profile
	rotation   Rotation
	density    float64
	spanned    bool
	available  bool
	hingeAngle int
	logger     *log.Logger

	changed  event.Feed[struct{}]
	elements map[string]*SimElement
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSimulatorLogger sets the logger for signal tracing.
func WithSimulatorLogger(l *log.Logger) SimulatorOption {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// Spanned starts the simulator with content spanned across both screens.
func Spanned() SimulatorOption {
	return func(s *Simulator) { s.spanned = true }
}

// NewSimulator creates a device from a profile, unspanned, at Rotation0.
func NewSimulator(p Profile, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		profile:    p,
		density:    p.Density,
		available:  true,
		hingeAngle: 180,
		logger:     log.Default(),
		elements:   make(map[string]*SimElement),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the device profile.
func (s *Simulator) Profile() Profile {
	return s.profile
}

// IsSpanned reports the raw spanned flag, regardless of availability.
func (s *Simulator) IsSpanned() bool {
	return s.spanned
}

// Available reports whether the display service is answering reads.
func (s *Simulator) Available() bool {
	return s.available
}

// HingeAngle returns the last reported hinge sensor angle in degrees.
func (s *Simulator) HingeAngle() int {
	return s.hingeAngle
}

// =============================================================================
// Adapter
// =============================================================================

func (s *Simulator) IsDualModeActive() bool {
	return s.available && s.spanned && s.profile.HasHinge()
}

func (s *Simulator) HingeRectPixels() (geom.Rect, error) {
	if !s.available {
		return geom.Zero, errUnavailable()
	}
	if !s.profile.HasHinge() {
		return geom.Zero, nil
	}
	return rotateRect(s.profile.Hinge, s.profile.Screen, s.rotation), nil
}

func (s *Simulator) Rotation() (Rotation, error) {
	if !s.available {
		return Rotation0, errUnavailable()
	}
	return s.rotation, nil
}

func (s *Simulator) DensityScale() (float64, error) {
	if !s.available {
		return 0, errUnavailable()
	}
	if err := errors.ValidateDensity(s.density); err != nil {
		return 0, err
	}
	return s.density, nil
}

func (s *Simulator) ScreenSizePixels() (geom.Size, error) {
	if !s.available {
		return geom.Size{}, errUnavailable()
	}
	if s.rotation.IsLandscape() {
		return s.profile.Screen.Swap(), nil
	}
	return s.profile.Screen, nil
}

func (s *Simulator) OnScreenChanged(fn func()) *event.Subscription {
	return s.changed.Subscribe(func(struct{}) { fn() })
}

// =============================================================================
// Device controls
// =============================================================================

// SetRotation rotates the device.
func (s *Simulator) SetRotation(r Rotation) error {
	if !r.Valid() {
		return errors.New(errors.ErrCodeInvalidRotation, "invalid rotation %d", int(r))
	}
	if r == s.rotation {
		return nil
	}
	s.rotation = r
	s.signal("rotation", r.String())
	return nil
}

// Rotate turns the device a quarter turn clockwise.
func (s *Simulator) Rotate() {
	_ = s.SetRotation(s.rotation.Next())
}

// SetSpanned spans content across both screens or returns it to one.
func (s *Simulator) SetSpanned(spanned bool) {
	if spanned == s.spanned {
		return
	}
	s.spanned = spanned
	s.signal("spanned", spanned)
}

// SetDensity changes the density scale. Invalid densities are stored and
// surface as read errors, the way a misconfigured platform would.
func (s *Simulator) SetDensity(d float64) {
	if d == s.density {
		return
	}
	s.density = d
	s.signal("density", d)
}

// SetAvailable toggles the display service; while unavailable every read fails.
func (s *Simulator) SetAvailable(available bool) {
	if available == s.available {
		return
	}
	s.available = available
	s.signal("available", available)
}

// SetHingeAngle records a hinge sensor reading. Any change in angle fires a
// signal even though it rarely changes the layout.
func (s *Simulator) SetHingeAngle(deg int) {
	if deg == s.hingeAngle {
		return
	}
	s.hingeAngle = deg
	s.signal("hinge_angle", deg)
}

// SetProfile swaps the device geometry, as on a display configuration change.
func (s *Simulator) SetProfile(p Profile) {
	if p == s.profile {
		return
	}
	s.profile = p
	s.density = p.Density
	s.signal("profile", p.Name)
}

// Touch fires a change signal without changing anything.
func (s *Simulator) Touch() {
	s.signal("touch", true)
}

// Listeners returns the number of OnScreenChanged subscribers.
func (s *Simulator) Listeners() int {
	return s.changed.Len()
}

func (s *Simulator) signal(key string, value any) {
	s.logger.Debug("screen changed", key, value)
	s.changed.Emit(struct{}{})
}

// rotateRect maps a rectangle given in the natural orientation of a screen of
// size natural into the coordinate space of rotation r (clockwise).
func rotateRect(rect geom.Rect, natural geom.Size, r Rotation) geom.Rect {
	w, h := natural.Width, natural.Height
	switch r {
	case Rotation90:
		return geom.NewRect(rect.Y, w-rect.X-rect.Width, rect.Height, rect.Width)
	case Rotation180:
		return geom.NewRect(w-rect.X-rect.Width, h-rect.Y-rect.Height, rect.Width, rect.Height)
	case Rotation270:
		return geom.NewRect(h-rect.Y-rect.Height, rect.X, rect.Height, rect.Width)
	default:
		return rect
	}
}

var (
	_ Adapter        = (*Simulator)(nil)
	_ ElementLocator = (*Simulator)(nil)
)
