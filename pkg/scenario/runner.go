package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/dualscreen"
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/observability"
)

// DefaultScope is the scope of the full-screen guide in results.
const DefaultScope = "default"

// Result is the record of one scenario run.
type Result struct {
	RunID    string
	Scenario string
	Profile  display.Profile

	// Initial holds each scope's state before the first step.
	Initial map[string]dualscreen.State

	Steps       []StepResult
	Transitions []Transition
	Stats       Stats
}

// StepResult records what one step caused.
type StepResult struct {
	Index         int
	Step          Step
	State         dualscreen.State // full-screen state after the step
	Notifications []Notification
}

// Notification is one property change published by an Info.
type Notification struct {
	Scope    string
	Property dualscreen.Property
}

// Transition is one change event emitted by a guide.
type Transition struct {
	Scope string
	Step  int
	Label string
	From  dualscreen.State
	To    dualscreen.State
}

// Stats contains run statistics.
type Stats struct {
	Steps         int
	Notifications int
	Transitions   int
	Duration      time.Duration
}

// Final returns the full-screen state after the last step.
func (r *Result) Final() dualscreen.State {
	if len(r.Steps) == 0 {
		return r.Initial[DefaultScope]
	}
	return r.Steps[len(r.Steps)-1].State
}

// ScopeTransitions returns the transitions recorded for scope, in order.
func (r *Result) ScopeTransitions(scope string) []Transition {
	var out []Transition
	for _, t := range r.Transitions {
		if t.Scope == scope {
			out = append(out, t)
		}
	}
	return out
}

// Runner replays scenarios against a fresh Simulator per run.
// It holds no per-run state, so one Runner may serve several goroutines.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// run is the mutable state of one replay.
type run struct {
	sim    *display.Simulator
	guides map[string]*dualscreen.Guide
	infos  map[string]*dualscreen.Info
	order  []string
	last   map[string]dualscreen.State

	step          int
	label         string
	notifications []Notification
	result        *Result
}

// Run replays sc and returns what was published. The context is checked
// between steps.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (res *Result, err error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	profile, err := display.ResolveProfile(sc.Profile)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	start := time.Now()
	hooks := observability.Scenario()
	hooks.OnScenarioStart(sc.Name, len(sc.Steps))
	defer func() {
		transitions := 0
		if res != nil {
			transitions = len(res.Transitions)
		}
		hooks.OnScenarioComplete(sc.Name, transitions, time.Since(start), err)
	}()

	var opts []display.SimulatorOption
	opts = append(opts, display.WithSimulatorLogger(r.Logger))
	if sc.Spanned {
		opts = append(opts, display.Spanned())
	}
	sim := display.NewSimulator(profile, opts...)

	st := &run{
		sim:    sim,
		guides: make(map[string]*dualscreen.Guide),
		infos:  make(map[string]*dualscreen.Info),
		last:   make(map[string]dualscreen.State),
		result: &Result{
			RunID:    uuid.NewString(),
			Scenario: sc.Name,
			Profile:  profile,
			Initial:  make(map[string]dualscreen.State),
		},
	}
	defer st.close()

	st.attach(DefaultScope, dualscreen.NewInfo(dualscreen.NewGuide(sim, dualscreen.WithLogger(r.Logger))))
	for _, el := range sc.Elements {
		se := sim.AddElement(el.ID, el.Rect())
		c := display.NewElementContainer(sim, se, r.Logger)
		st.attach(el.ID, dualscreen.NewScopedInfo(sim, c, dualscreen.WithLogger(r.Logger)))
	}

	r.Logger.Info("running scenario",
		"run", st.result.RunID,
		"name", sc.Name,
		"profile", profile.Name,
		"steps", len(sc.Steps),
		"elements", len(sc.Elements))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", sc.Name, i+1, err)
		}

		st.step = i + 1
		st.label = step.String()
		st.notifications = nil

		if err := st.apply(step); err != nil {
			return nil, fmt.Errorf("scenario %s: step %d (%s): %w", sc.Name, i+1, step.Action, err)
		}

		sr := StepResult{
			Index:         i + 1,
			Step:          step,
			State:         st.guides[DefaultScope].State(),
			Notifications: st.notifications,
		}
		st.result.Steps = append(st.result.Steps, sr)
		st.result.Stats.Notifications += len(sr.Notifications)
		hooks.OnStepApplied(sc.Name, sr.Index, string(step.Action), len(sr.Notifications))

		r.Logger.Debug("applied step",
			"index", sr.Index,
			"step", st.label,
			"mode", sr.State.Mode,
			"notifications", len(sr.Notifications))
	}

	res = st.result
	res.Stats.Steps = len(res.Steps)
	res.Stats.Transitions = len(res.Transitions)
	res.Stats.Duration = time.Since(start)

	r.Logger.Info("scenario complete",
		"run", res.RunID,
		"name", sc.Name,
		"transitions", res.Stats.Transitions,
		"notifications", res.Stats.Notifications,
		"duration", res.Stats.Duration)
	return res, nil
}

// attach records info's initial state and subscribes to its guide and
// property changes.
func (st *run) attach(scope string, info *dualscreen.Info) {
	g := info.Guide()
	st.guides[scope] = g
	st.infos[scope] = info
	st.order = append(st.order, scope)

	initial := g.State()
	st.result.Initial[scope] = initial
	st.last[scope] = initial

	g.Subscribe(func(s dualscreen.State) {
		st.result.Transitions = append(st.result.Transitions, Transition{
			Scope: scope,
			Step:  st.step,
			Label: st.label,
			From:  st.last[scope],
			To:    s,
		})
		st.last[scope] = s
	})
	info.Subscribe(func(p dualscreen.Property) {
		st.notifications = append(st.notifications, Notification{Scope: scope, Property: p})
	})
}

func (st *run) apply(step Step) error {
	sim := st.sim
	switch step.Action {
	case ActionRotate:
		if step.Degrees == nil {
			sim.Rotate()
			return nil
		}
		rot, _ := display.RotationFromDegrees(*step.Degrees)
		return sim.SetRotation(rot)
	case ActionSpan:
		sim.SetSpanned(true)
	case ActionUnspan:
		sim.SetSpanned(false)
	case ActionDensity:
		sim.SetDensity(step.Value)
	case ActionHingeAngle:
		sim.SetHingeAngle(*step.Degrees)
	case ActionTouch:
		sim.Touch()
	case ActionUnavailable:
		sim.SetAvailable(false)
	case ActionAvailable:
		sim.SetAvailable(true)
	case ActionProfile:
		p, err := display.ResolveProfile(step.Profile)
		if err != nil {
			return err
		}
		sim.SetProfile(p)
	case ActionMove:
		el, ok := sim.Element(step.Element)
		if !ok {
			return errors.New(errors.ErrCodeElementDetached, "element %s was torn down", step.Element)
		}
		el.Move(rectOf(step.Bounds))
	case ActionDestroy:
		el, ok := sim.Element(step.Element)
		if !ok {
			return errors.New(errors.ErrCodeElementDetached, "element %s was torn down", step.Element)
		}
		el.Destroy()
	case ActionRefresh:
		st.infos[DefaultScope].Refresh()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported action %q", step.Action)
	}
	return nil
}

// close detaches every info, scoped ones first.
func (st *run) close() {
	for i := len(st.order) - 1; i >= 0; i-- {
		scope := st.order[i]
		st.infos[scope].Close()
		if scope == DefaultScope {
			st.guides[scope].Close()
		}
	}
}
