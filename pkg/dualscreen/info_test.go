package dualscreen

import (
	"slices"
	"testing"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

func TestInfoInitialValuesDoNotNotify(t *testing.T) {
	sim := display.NewSimulator(testDuo, display.Spanned())
	g := NewGuide(sim)
	defer g.Close()

	info := NewInfo(g)
	defer info.Close()
	rec := watchInfo(info)

	if info.SpanMode() != DoubleWide {
		t.Errorf("SpanMode() = %v, want DoubleWide", info.SpanMode())
	}
	if got, want := info.HingeBounds(), geom.NewRect(680, 0, 40, 900); got != want {
		t.Errorf("HingeBounds() = %v, want %v", got, want)
	}
	if len(info.SpanningBounds()) != 2 {
		t.Errorf("SpanningBounds() = %v, want two panes", info.SpanningBounds())
	}

	info.Refresh()
	if len(rec.props) != 0 {
		t.Errorf("Refresh() without changes notified %v", rec.props)
	}
}

func TestInfoSpanningBoundsIsCopy(t *testing.T) {
	g := NewGuide(display.NewSimulator(testDuo, display.Spanned()))
	info := NewInfo(g)
	defer info.Close()
	defer g.Close()

	bounds := info.SpanningBounds()
	bounds[0] = geom.Zero
	if info.SpanningBounds()[0].IsZero() {
		t.Error("mutating the returned slice changed the Info")
	}
}

func TestInfoSuppressesRedundantSignals(t *testing.T) {
	sim := display.NewSimulator(testDuo, display.Spanned())
	g := NewGuide(sim)
	defer g.Close()
	info := NewInfo(g)
	defer info.Close()
	guideRec := watchGuide(g)
	infoRec := watchInfo(info)

	sim.Touch()
	sim.SetHingeAngle(90)
	sim.Touch()

	if len(guideRec.states) != 0 {
		t.Errorf("guide emitted %d events, want 0", len(guideRec.states))
	}
	if len(infoRec.props) != 0 {
		t.Errorf("info notified %v, want none", infoRec.props)
	}
}

func TestScopedInfoIgnoresDensityChange(t *testing.T) {
	sim := display.NewSimulator(testDuo)
	el := sim.AddElement("card", geom.NewRect(100, 100, 300, 200))
	info := NewScopedInfo(sim, display.NewElementContainer(sim, el, nil))
	defer info.Close()
	rec := watchInfo(info)

	sim.SetDensity(2.5)
	sim.SetDensity(3)

	if len(rec.props) != 0 {
		t.Errorf("density change notified %v, want none", rec.props)
	}
	if got := info.Guide().Pane1(); got != geom.NewRect(0, 0, 300, 200) {
		t.Errorf("Pane1() = %v, want element size", got)
	}
}

func TestInfoOrientationFlip(t *testing.T) {
	sim := display.NewSimulator(testDuo, display.Spanned())
	g := NewGuide(sim)
	defer g.Close()
	info := NewInfo(g)
	defer info.Close()
	guideRec := watchGuide(g)
	infoRec := watchInfo(info)

	sim.Rotate()

	if len(guideRec.states) != 1 {
		t.Fatalf("guide emitted %d events, want 1", len(guideRec.states))
	}
	want := State{
		Hinge:       geom.NewRect(0, 680, 900, 40),
		Pane1:       geom.NewRect(0, 0, 900, 680),
		Pane2:       geom.NewRect(0, 720, 900, 680),
		IsLandscape: true,
		Mode:        DoubleTall,
	}
	if guideRec.states[0] != want {
		t.Errorf("state = %v, want %v", guideRec.states[0], want)
	}

	wantProps := []Property{PropSpanningBounds, PropIsLandscape, PropHingeBounds, PropSpanMode}
	if !slices.Equal(infoRec.props, wantProps) {
		t.Errorf("props = %v, want %v", infoRec.props, wantProps)
	}
	if !info.IsLandscape() || info.SpanMode() != DoubleTall || info.HingeBounds() != want.Hinge {
		t.Errorf("info not updated: landscape=%t mode=%v hinge=%v", info.IsLandscape(), info.SpanMode(), info.HingeBounds())
	}
}

func TestInfoUnspanNotifies(t *testing.T) {
	sim := display.NewSimulator(testDuo, display.Spanned())
	g := NewGuide(sim)
	defer g.Close()
	info := NewInfo(g)
	defer info.Close()
	rec := watchInfo(info)

	sim.SetSpanned(false)

	wantProps := []Property{PropSpanningBounds, PropHingeBounds, PropSpanMode}
	if !slices.Equal(rec.props, wantProps) {
		t.Errorf("props = %v, want %v", rec.props, wantProps)
	}
	if b := info.SpanningBounds(); b == nil || len(b) != 0 {
		t.Errorf("SpanningBounds() = %#v, want empty non-nil", b)
	}
}

func TestScopedInfo(t *testing.T) {
	sim := display.NewSimulator(testDuo, display.Spanned())
	el := sim.AddElement("list", geom.NewRect(600, 100, 200, 300))
	info := NewScopedInfo(sim, display.NewElementContainer(sim, el, nil))
	defer info.Close()

	g := info.Guide()
	if g.Scope() != "list" {
		t.Errorf("Scope() = %q, want list", g.Scope())
	}
	want := State{
		Hinge: geom.NewRect(80, 0, 40, 300),
		Pane1: geom.NewRect(0, 0, 80, 300),
		Pane2: geom.NewRect(120, 0, 80, 300),
		Mode:  DoubleWide,
	}
	if g.State() != want {
		t.Errorf("straddling state = %v, want %v", g.State(), want)
	}

	rec := watchInfo(info)
	el.Move(geom.NewRect(800, 100, 200, 300))
	if g.State() != (State{Pane1: geom.NewRect(0, 0, 200, 300), Mode: SinglePane}) {
		t.Errorf("state on right screen = %v, want single pane", g.State())
	}
	if len(rec.props) == 0 {
		t.Error("moving off the hinge did not notify")
	}
}

func TestScopedInfoTeardown(t *testing.T) {
	hooks := installHooks(t)

	sim := display.NewSimulator(testDuo, display.Spanned())
	el := sim.AddElement("detail", geom.NewRect(600, 100, 200, 300))
	info := NewScopedInfo(sim, display.NewElementContainer(sim, el, nil))
	before := info.Guide().State()
	rec := watchInfo(info)

	el.Destroy()
	sim.Touch()
	sim.Rotate()

	if len(rec.props) != 0 {
		t.Errorf("torn-down container notified %v", rec.props)
	}
	if info.Guide().State() != before {
		t.Errorf("state changed after teardown: %v -> %v", before, info.Guide().State())
	}

	info.Close()
	info.Close()
	if sim.Listeners() != 0 {
		t.Errorf("Listeners() = %d after Close, want 0", sim.Listeners())
	}
	if len(hooks.detach) != 1 || !errors.Is(hooks.detach[0], errors.ErrCodeElementDetached) {
		t.Errorf("detach errors = %v, want one ELEMENT_DETACHED", hooks.detach)
	}
}

func TestInfoBoundsReadAdapter(t *testing.T) {
	sim := display.NewSimulator(testDuo)
	g := NewGuide(silentAdapter{Adapter: sim})
	defer g.Close()
	info := NewInfo(g)
	defer info.Close()
	rec := watchInfo(info)

	sim.SetSpanned(true)
	if len(rec.props) != 0 {
		t.Fatalf("props = %v before any read, want none", rec.props)
	}

	if got, want := info.HingeBounds(), geom.NewRect(680, 0, 40, 900); got != want {
		t.Errorf("HingeBounds() = %v, want %v", got, want)
	}
	if len(info.SpanningBounds()) != 2 {
		t.Errorf("SpanningBounds() = %v, want two panes", info.SpanningBounds())
	}
	if info.SpanMode() != DoubleWide {
		t.Errorf("SpanMode() = %v, want DoubleWide", info.SpanMode())
	}
	wantProps := []Property{PropSpanningBounds, PropHingeBounds, PropSpanMode}
	if !slices.Equal(rec.props, wantProps) {
		t.Errorf("props = %v, want %v", rec.props, wantProps)
	}
}
