// Package scenario replays scripted device interactions against a simulated
// display and records what the layout guide and info published in response.
//
// # Scenario Files
//
// Scenarios are TOML documents:
//
//	name = "fold-and-rotate"
//	profile = "surface-duo"
//	spanned = false
//
//	[[elements]]
//	id = "list"
//	bounds = [600, 100, 200, 300]
//
//	[[steps]]
//	action = "span"
//
//	[[steps]]
//	action = "rotate"
//	degrees = 90
//
// The profile is a built-in profile name or a path to a profile TOML file.
// Elements are placed on the simulated root view in screen DIP; each gets a
// scoped Info alongside the full-screen one.
//
// # Actions
//
//   - rotate: quarter turn clockwise, or to degrees when set
//   - span, unspan: span content across both screens or return it to one
//   - density: set the density scale to value
//   - hinge-angle: report a hinge sensor reading of degrees
//   - touch: fire a change signal that changes nothing
//   - unavailable, available: lose or regain the display service
//   - profile: swap the device profile
//   - move: lay element out at bounds
//   - destroy: tear element down
//   - refresh: force the full-screen Info to recompute
//
// # Usage
//
//	sc, err := scenario.Load("testdata/rotate.toml")
//	if err != nil {
//	    return err
//	}
//	res, err := scenario.NewRunner(logger).Run(ctx, sc)
package scenario

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// Action names a step kind.
type Action string

const (
	ActionRotate      Action = "rotate"
	ActionSpan        Action = "span"
	ActionUnspan      Action = "unspan"
	ActionDensity     Action = "density"
	ActionHingeAngle  Action = "hinge-angle"
	ActionTouch       Action = "touch"
	ActionUnavailable Action = "unavailable"
	ActionAvailable   Action = "available"
	ActionProfile     Action = "profile"
	ActionMove        Action = "move"
	ActionDestroy     Action = "destroy"
	ActionRefresh     Action = "refresh"
)

// ValidActions is the set of supported step actions.
var ValidActions = map[Action]bool{
	ActionRotate:      true,
	ActionSpan:        true,
	ActionUnspan:      true,
	ActionDensity:     true,
	ActionHingeAngle:  true,
	ActionTouch:       true,
	ActionUnavailable: true,
	ActionAvailable:   true,
	ActionProfile:     true,
	ActionMove:        true,
	ActionDestroy:     true,
	ActionRefresh:     true,
}

// =============================================================================
// Types
// =============================================================================

// Scenario is a scripted sequence of device interactions.
type Scenario struct {
	Name        string    `toml:"name"`
	Description string    `toml:"description"`
	Profile     string    `toml:"profile"`
	Spanned     bool      `toml:"spanned"`
	Elements    []Element `toml:"elements"`
	Steps       []Step    `toml:"steps"`
}

// Element is a view placed on the simulated screen.
type Element struct {
	ID     string    `toml:"id"`
	Bounds []float64 `toml:"bounds"` // x, y, width, height in screen DIP
}

// Rect returns the element's bounds.
func (e Element) Rect() geom.Rect {
	return rectOf(e.Bounds)
}

// Step is one interaction. Which fields apply depends on Action.
type Step struct {
	Action  Action    `toml:"action"`
	Degrees *int      `toml:"degrees"`
	Value   float64   `toml:"value"`
	Profile string    `toml:"profile"`
	Element string    `toml:"element"`
	Bounds  []float64 `toml:"bounds"`
}

// String returns a short label such as "rotate 90°" or "density 3".
func (s Step) String() string {
	switch s.Action {
	case ActionRotate:
		if s.Degrees != nil {
			return fmt.Sprintf("rotate %d°", *s.Degrees)
		}
		return "rotate"
	case ActionHingeAngle:
		if s.Degrees != nil {
			return fmt.Sprintf("hinge-angle %d°", *s.Degrees)
		}
	case ActionDensity:
		return fmt.Sprintf("density %g", s.Value)
	case ActionProfile:
		return "profile " + s.Profile
	case ActionMove:
		return fmt.Sprintf("move %s %v", s.Element, rectOf(s.Bounds))
	case ActionDestroy:
		return "destroy " + s.Element
	}
	return string(s.Action)
}

func rectOf(b []float64) geom.Rect {
	if len(b) != 4 {
		return geom.Zero
	}
	return geom.NewRect(b[0], b[1], b[2], b[3])
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the scenario's structure. Profile references are resolved
// when the scenario runs.
func (sc *Scenario) Validate() error {
	if err := errors.ValidateName(sc.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScenario, err, "scenario name")
	}
	if len(sc.Steps) == 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario %s has no steps", sc.Name)
	}

	ids := make(map[string]bool, len(sc.Elements))
	for _, el := range sc.Elements {
		if err := errors.ValidateName(el.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "element id")
		}
		if ids[el.ID] {
			return errors.New(errors.ErrCodeInvalidScenario, "duplicate element %q", el.ID)
		}
		if err := validateBounds(el.Bounds); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "element %s", el.ID)
		}
		ids[el.ID] = true
	}

	for i, step := range sc.Steps {
		if err := step.validate(ids); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "step %d (%s)", i+1, step.Action)
		}
	}
	return nil
}

func (s Step) validate(elements map[string]bool) error {
	if !ValidActions[s.Action] {
		return errors.New(errors.ErrCodeInvalidInput, "unknown action %q", s.Action)
	}

	switch s.Action {
	case ActionRotate:
		if s.Degrees != nil {
			if _, ok := display.RotationFromDegrees(*s.Degrees); !ok {
				return errors.New(errors.ErrCodeInvalidRotation, "rotation must be 0, 90, 180 or 270, got %d", *s.Degrees)
			}
		}
	case ActionHingeAngle:
		if s.Degrees == nil {
			return errors.New(errors.ErrCodeInvalidInput, "degrees is required")
		}
		if *s.Degrees < 0 || *s.Degrees > 360 {
			return errors.New(errors.ErrCodeInvalidInput, "hinge angle must be within [0, 360], got %d", *s.Degrees)
		}
	case ActionDensity:
		return errors.ValidateDensity(s.Value)
	case ActionProfile:
		if s.Profile == "" {
			return errors.New(errors.ErrCodeInvalidInput, "profile is required")
		}
	case ActionMove:
		if !elements[s.Element] {
			return errors.New(errors.ErrCodeNotFound, "unknown element %q", s.Element)
		}
		return validateBounds(s.Bounds)
	case ActionDestroy:
		if !elements[s.Element] {
			return errors.New(errors.ErrCodeNotFound, "unknown element %q", s.Element)
		}
	}
	return nil
}

func validateBounds(b []float64) error {
	if len(b) != 4 {
		return errors.New(errors.ErrCodeInvalidGeometry, "bounds must be [x, y, width, height], got %d values", len(b))
	}
	return errors.ValidateExtent(b[0], b[1], b[2], b[3])
}

// =============================================================================
// Loading
// =============================================================================

// Parse decodes and validates a TOML scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidScenario, "unknown scenario key %q", undecoded[0].String())
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads a TOML scenario from path.
func Load(path string) (*Scenario, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scenario %s", path)
		}
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return Parse(data)
}
