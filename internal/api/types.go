package api

import (
	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/dualscreen"
	"github.com/matzehuels/dualscreen/pkg/geom"
	"github.com/matzehuels/dualscreen/pkg/scenario"
)

// Rect is a rectangle in DIP.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func rectJSON(r geom.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func rectsJSON(rs []geom.Rect) []Rect {
	out := make([]Rect, 0, len(rs))
	for _, r := range rs {
		out = append(out, rectJSON(r))
	}
	return out
}

// Layout is the response of GET /layout.
type Layout struct {
	Mode           string `json:"mode"`
	IsLandscape    bool   `json:"is_landscape"`
	Pane1          Rect   `json:"pane1"`
	Pane2          Rect   `json:"pane2"`
	Hinge          Rect   `json:"hinge"`
	SpanningBounds []Rect `json:"spanning_bounds"`
	Device         Device `json:"device"`
	Seq            int    `json:"seq"` // last event sequence number
}

// Device reports the simulator settings. Rotation and density are zero
// while the display service is unavailable.
type Device struct {
	Profile    string  `json:"profile"`
	Rotation   int     `json:"rotation"`
	Spanned    bool    `json:"spanned"`
	Density    float64 `json:"density"`
	HingeAngle int     `json:"hinge_angle"`
	Available  bool    `json:"available"`
}

func deviceJSON(sim *display.Simulator) Device {
	d := Device{
		Profile:    sim.Profile().Name,
		Spanned:    sim.IsSpanned(),
		HingeAngle: sim.HingeAngle(),
		Available:  sim.Available(),
	}
	if rot, err := sim.Rotation(); err == nil {
		d.Rotation = rot.Degrees()
	}
	if density, err := sim.DensityScale(); err == nil {
		d.Density = density
	}
	return d
}

// DeviceUpdate is the body of POST /device. Omitted fields are left alone.
type DeviceUpdate struct {
	Profile    *string  `json:"profile,omitempty"`
	Available  *bool    `json:"available,omitempty"`
	Density    *float64 `json:"density,omitempty"`
	Rotation   *int     `json:"rotation,omitempty"`
	Spanned    *bool    `json:"spanned,omitempty"`
	HingeAngle *int     `json:"hinge_angle,omitempty"`
}

// Profile is one entry of GET /profiles.
type Profile struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Density     float64 `json:"density"`
	Width       float64 `json:"width"`  // device pixels
	Height      float64 `json:"height"` // device pixels
	Hinge       *Rect   `json:"hinge,omitempty"`
}

func profileJSON(p display.Profile) Profile {
	out := Profile{
		Name:        p.Name,
		Description: p.Description,
		Density:     p.Density,
		Width:       p.Screen.Width,
		Height:      p.Screen.Height,
	}
	if p.HasHinge() {
		h := rectJSON(p.Hinge)
		out.Hinge = &h
	}
	return out
}

// Event is one property change notification.
type Event struct {
	Seq      int    `json:"seq"`
	Property string `json:"property"`
	Mode     string `json:"mode"` // span mode after the change
}

// Events is the response of GET /events.
type Events struct {
	Events []Event `json:"events"`
	Next   int     `json:"next"` // pass as since to continue
}

// RunResult is the response of POST /scenarios.
type RunResult struct {
	RunID         string       `json:"run_id"`
	Scenario      string       `json:"scenario"`
	Profile       string       `json:"profile"`
	Steps         []StepResult `json:"steps"`
	Transitions   int          `json:"transitions"`
	Notifications int          `json:"notifications"`
	Final         string       `json:"final_mode"`
}

// StepResult summarizes one replayed step.
type StepResult struct {
	Index         int            `json:"index"`
	Step          string         `json:"step"`
	Mode          string         `json:"mode"`
	Notifications []Notification `json:"notifications"`
}

// Notification is one property change within a scenario step.
type Notification struct {
	Scope    string `json:"scope"`
	Property string `json:"property"`
}

func runResultJSON(res *scenario.Result) RunResult {
	out := RunResult{
		RunID:         res.RunID,
		Scenario:      res.Scenario,
		Profile:       res.Profile.Name,
		Steps:         make([]StepResult, 0, len(res.Steps)),
		Transitions:   res.Stats.Transitions,
		Notifications: res.Stats.Notifications,
		Final:         res.Final().Mode.String(),
	}
	for _, sr := range res.Steps {
		notes := make([]Notification, 0, len(sr.Notifications))
		for _, n := range sr.Notifications {
			notes = append(notes, Notification{Scope: n.Scope, Property: string(n.Property)})
		}
		out.Steps = append(out.Steps, StepResult{
			Index:         sr.Index,
			Step:          sr.Step.String(),
			Mode:          sr.State.Mode.String(),
			Notifications: notes,
		})
	}
	return out
}

func layoutJSON(s dualscreen.State, sim *display.Simulator, seq int) Layout {
	return Layout{
		Mode:           s.Mode.String(),
		IsLandscape:    s.IsLandscape,
		Pane1:          rectJSON(s.Pane1),
		Pane2:          rectJSON(s.Pane2),
		Hinge:          rectJSON(s.Hinge),
		SpanningBounds: rectsJSON(s.SpanningBounds()),
		Device:         deviceJSON(sim),
		Seq:            seq,
	}
}
