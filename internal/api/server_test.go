package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/errors"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	p, err := display.LookupProfile("surface-duo")
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(display.NewSimulator(p, display.WithSimulatorLogger(logger)), logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

// call sends a request and decodes the JSON response into out.
func call(t *testing.T, ts *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, data, err)
		}
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	var body health
	if status := call(t, ts, http.MethodGet, "/healthz", "", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestProfiles(t *testing.T) {
	ts := newTestServer(t)
	var profiles []Profile
	if status := call(t, ts, http.MethodGet, "/profiles", "", &profiles); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(profiles) != len(display.Builtin()) {
		t.Fatalf("got %d profiles, want %d", len(profiles), len(display.Builtin()))
	}
	for _, p := range profiles {
		switch p.Name {
		case "surface-duo":
			if p.Hinge == nil || *p.Hinge != (Rect{X: 1350, Width: 84, Height: 1800}) {
				t.Errorf("surface-duo hinge = %v", p.Hinge)
			}
		case "single-screen":
			if p.Hinge != nil {
				t.Errorf("single-screen hinge = %v, want none", p.Hinge)
			}
		}
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)

	var l Layout
	if status := call(t, ts, http.MethodGet, "/layout", "", &l); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if l.Mode != "SinglePane" || l.Pane1 != (Rect{Width: 1113.6, Height: 720}) {
		t.Errorf("initial layout = %+v", l)
	}
	if l.SpanningBounds == nil || len(l.SpanningBounds) != 0 {
		t.Errorf("spanning_bounds = %v, want empty list", l.SpanningBounds)
	}
	if l.Device.Profile != "surface-duo" || l.Device.Density != 2.5 || !l.Device.Available {
		t.Errorf("device = %+v", l.Device)
	}
}

func TestDeviceUpdate(t *testing.T) {
	ts := newTestServer(t)

	var l Layout
	if status := call(t, ts, http.MethodPost, "/device", `{"spanned": true}`, &l); status != http.StatusOK {
		t.Fatalf("span status = %d", status)
	}
	if l.Mode != "DoubleWide" || l.Hinge != (Rect{X: 540, Width: 33.6, Height: 720}) || len(l.SpanningBounds) != 2 {
		t.Errorf("spanned layout = %+v", l)
	}
	if l.Seq != 3 {
		t.Errorf("seq = %d, want 3", l.Seq)
	}

	var ev Events
	call(t, ts, http.MethodGet, "/events", "", &ev)
	var props []string
	for _, e := range ev.Events {
		props = append(props, e.Property)
		if e.Mode != "DoubleWide" {
			t.Errorf("event %d mode = %s, want DoubleWide", e.Seq, e.Mode)
		}
	}
	if want := []string{"SpanningBounds", "HingeBounds", "SpanMode"}; !slices.Equal(props, want) {
		t.Errorf("events = %v, want %v", props, want)
	}

	call(t, ts, http.MethodPost, "/device", `{"rotation": 90}`, &l)
	if l.Mode != "DoubleTall" || !l.IsLandscape || l.Device.Rotation != 90 {
		t.Errorf("rotated layout = %+v", l)
	}
	if l.Hinge != (Rect{Y: 540, Width: 720, Height: 33.6}) {
		t.Errorf("rotated hinge = %+v", l.Hinge)
	}

	call(t, ts, http.MethodGet, "/events?since=3", "", &ev)
	if len(ev.Events) != 4 || ev.Next != 7 {
		t.Errorf("events since 3 = %+v, want 4 ending at 7", ev)
	}
}

func TestDeviceSignalsWithoutChange(t *testing.T) {
	ts := newTestServer(t)

	var l Layout
	for _, path := range []string{"/device/touch", "/device/refresh"} {
		if status := call(t, ts, http.MethodPost, path, "", &l); status != http.StatusOK {
			t.Errorf("%s status = %d", path, status)
		}
	}
	if status := call(t, ts, http.MethodPost, "/device", `{"hinge_angle": 90}`, &l); status != http.StatusOK {
		t.Errorf("hinge angle status = %d", status)
	}
	if l.Seq != 0 || l.Device.HingeAngle != 90 {
		t.Errorf("layout = %+v, want no notifications", l)
	}
}

func TestDeviceUnavailable(t *testing.T) {
	ts := newTestServer(t)

	var l Layout
	call(t, ts, http.MethodPost, "/device", `{"spanned": true, "available": false}`, &l)
	if l.Device.Available || l.Mode != "SinglePane" {
		t.Errorf("layout without display service = %+v", l)
	}

	call(t, ts, http.MethodPost, "/device", `{"available": true}`, &l)
	if !l.Device.Available || l.Mode != "DoubleWide" {
		t.Errorf("layout after recovery = %+v", l)
	}
}

func TestDeviceErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad rotation", `{"rotation": 45}`, http.StatusBadRequest, "INVALID_ROTATION"},
		{"unknown profile", `{"profile": "nokia-3310"}`, http.StatusNotFound, "PROFILE_NOT_FOUND"},
		{"bad density", `{"density": -1}`, http.StatusBadRequest, "INVALID_DENSITY"},
		{"bad hinge angle", `{"hinge_angle": 400}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"tilt": 1}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"partly invalid", `{"spanned": true, "rotation": 45}`, http.StatusBadRequest, "INVALID_ROTATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			var body errorBody
			if status := call(t, ts, http.MethodPost, "/device", tt.body, &body); status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Error.Code, tt.code, body.Error.Message)
			}

			var l Layout
			call(t, ts, http.MethodGet, "/layout", "", &l)
			if l.Mode != "SinglePane" || l.Seq != 0 {
				t.Errorf("rejected update changed the device: %+v", l)
			}
		})
	}
}

func TestEventsBadCursor(t *testing.T) {
	ts := newTestServer(t)
	var body errorBody
	if status := call(t, ts, http.MethodGet, "/events?since=soon", "", &body); status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if body.Error.Code != "INVALID_INPUT" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

const fold = `
name = "http"
spanned = true

[[steps]]
action = "rotate"
degrees = 90

[[steps]]
action = "unspan"
`

func TestScenario(t *testing.T) {
	ts := newTestServer(t)

	var res RunResult
	if status := call(t, ts, http.MethodPost, "/scenarios", fold, &res); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if res.RunID == "" || res.Scenario != "http" || res.Profile != "surface-duo" {
		t.Errorf("result = %+v", res)
	}
	if len(res.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(res.Steps))
	}
	if res.Steps[0].Step != "rotate 90°" || res.Steps[0].Mode != "DoubleTall" {
		t.Errorf("step 1 = %+v", res.Steps[0])
	}
	if res.Final != "SinglePane" {
		t.Errorf("final mode = %s", res.Final)
	}

	var again RunResult
	call(t, ts, http.MethodPost, "/scenarios", fold, &again)
	if again.RunID == res.RunID {
		t.Errorf("run id %s reused", res.RunID)
	}

	var l Layout
	call(t, ts, http.MethodGet, "/layout", "", &l)
	if l.Seq != 0 {
		t.Errorf("scenario replay touched the served device: %+v", l)
	}
}

func TestScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", "name = ", "INVALID_SCENARIO"},
		{"no steps", `name = "x"`, "INVALID_SCENARIO"},
		{"profile file", "name = \"x\"\nprofile = \"/etc/duo.toml\"\n[[steps]]\naction = \"touch\"\n", "INVALID_SCENARIO"},
		{"profile file in step", "name = \"x\"\n[[steps]]\naction = \"profile\"\nprofile = \"duo.toml\"\n", "INVALID_SCENARIO"},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			status := call(t, ts, http.MethodPost, "/scenarios", tt.body, &body)
			if status != http.StatusBadRequest || body.Error.Code != tt.code {
				t.Errorf("got %d %q (%s), want 400 %s", status, body.Error.Code, body.Error.Message, tt.code)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	for code, want := range map[errors.Code]int{
		errors.ErrCodeInvalidGeometry:    http.StatusBadRequest,
		errors.ErrCodeFileNotFound:       http.StatusNotFound,
		errors.ErrCodeElementDetached:    http.StatusConflict,
		errors.ErrCodeAdapterUnavailable: http.StatusServiceUnavailable,
		errors.ErrCodeUnsupported:        http.StatusNotImplemented,
		errors.ErrCodeInternal:           http.StatusInternalServerError,
	} {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", code, got, want)
		}
	}
}
