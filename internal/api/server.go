package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dualscreen/pkg/buildinfo"
	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/dualscreen"
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/scenario"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20
	// maxEvents is how many notifications the server keeps for polling.
	maxEvents = 256
)

// Server owns one simulator, the guide and info watching it, and a bounded
// log of the info's notifications. The simulator is not safe for concurrent
// use, so every handler that touches it holds mu.
type Server struct {
	mu     sync.Mutex
	sim    *display.Simulator
	guide  *dualscreen.Guide
	info   *dualscreen.Info
	events []Event
	seq    int

	runner *scenario.Runner
	logger *log.Logger
}

// New starts watching sim. A nil logger uses log.Default().
func New(sim *display.Simulator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sim:    sim,
		runner: scenario.NewRunner(logger),
		logger: logger,
	}
	s.guide = dualscreen.NewGuide(sim, dualscreen.WithLogger(logger))
	s.info = dualscreen.NewInfo(s.guide)
	// Notifications are emitted synchronously from device updates, which
	// already hold mu.
	s.info.Subscribe(func(p dualscreen.Property) {
		s.seq++
		s.events = append(s.events, Event{Seq: s.seq, Property: string(p), Mode: s.guide.Mode().String()})
		if len(s.events) > maxEvents {
			s.events = s.events[len(s.events)-maxEvents:]
		}
	})
	return s
}

// Close detaches the info and guide from the simulator.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info.Close()
	s.guide.Close()
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, health{Status: "ok", Build: buildinfo.Get()})
	})
	r.Get("/profiles", s.handleProfiles)
	r.Get("/layout", s.handleLayout)
	r.Get("/events", s.handleEvents)

	r.Route("/device", func(r chi.Router) {
		r.Post("/", s.handleDevice)
		r.Post("/touch", s.handleTouch)
		r.Post("/refresh", s.handleRefresh)
	})
	r.Post("/scenarios", s.handleScenario)

	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	builtin := display.Builtin()
	out := make([]Profile, 0, len(builtin))
	for _, p := range builtin {
		out = append(out, profileJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.layout())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "since must be a non-negative integer, got %q", v))
			return
		}
		since = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := Events{Events: []Event{}, Next: s.seq}
	for _, e := range s.events {
		if e.Seq > since {
			out.Events = append(out.Events, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	var u DeviceUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode device update"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(u); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.layout())
}

func (s *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Touch()
	writeJSON(w, http.StatusOK, s.layout())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info.Refresh()
	writeJSON(w, http.StatusOK, s.layout())
}

// handleScenario replays a TOML scenario on its own simulator; the served
// device is not touched.
func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scenario"))
		return
	}
	sc, err := scenario.Parse(data)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := builtinProfilesOnly(sc); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Run(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResultJSON(res))
}

// =============================================================================
// Device
// =============================================================================

// apply validates the whole update before changing anything, then applies
// it field by field. Each change that moves the layout notifies on its own.
func (s *Server) apply(u DeviceUpdate) error {
	var (
		profile display.Profile
		rot     display.Rotation
	)
	if u.Profile != nil {
		p, err := display.LookupProfile(*u.Profile)
		if err != nil {
			return err
		}
		profile = p
	}
	if u.Rotation != nil {
		r, ok := display.RotationFromDegrees(*u.Rotation)
		if !ok {
			return errors.New(errors.ErrCodeInvalidRotation, "rotation must be 0, 90, 180 or 270, got %d", *u.Rotation)
		}
		rot = r
	}
	if u.Density != nil {
		if err := errors.ValidateDensity(*u.Density); err != nil {
			return err
		}
	}
	if u.HingeAngle != nil && (*u.HingeAngle < 0 || *u.HingeAngle > 360) {
		return errors.New(errors.ErrCodeInvalidInput, "hinge_angle must be within 0..360, got %d", *u.HingeAngle)
	}

	if u.Profile != nil {
		s.sim.SetProfile(profile)
	}
	if u.Available != nil {
		s.sim.SetAvailable(*u.Available)
	}
	if u.Density != nil {
		s.sim.SetDensity(*u.Density)
	}
	if u.Rotation != nil {
		if err := s.sim.SetRotation(rot); err != nil {
			return err
		}
	}
	if u.Spanned != nil {
		s.sim.SetSpanned(*u.Spanned)
	}
	if u.HingeAngle != nil {
		s.sim.SetHingeAngle(*u.HingeAngle)
	}
	s.logger.Debug("device updated", "device", deviceJSON(s.sim), "mode", s.guide.Mode())
	return nil
}

// layout must be called with mu held.
func (s *Server) layout() Layout {
	return layoutJSON(s.guide.State(), s.sim, s.seq)
}

// builtinProfilesOnly rejects scenarios that would make the server read
// profile files from its own disk.
func builtinProfilesOnly(sc *scenario.Scenario) error {
	check := func(name string) error {
		if name == "" {
			return nil
		}
		if _, err := display.LookupProfile(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "scenario %s", sc.Name)
		}
		return nil
	}
	if err := check(sc.Profile); err != nil {
		return err
	}
	for _, step := range sc.Steps {
		if step.Action != scenario.ActionProfile {
			continue
		}
		if err := check(step.Profile); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Responses
// =============================================================================

type health struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(code), body)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDensity, errors.ErrCodeInvalidGeometry,
		errors.ErrCodeInvalidRotation, errors.ErrCodeInvalidProfile, errors.ErrCodeInvalidScenario,
		errors.ErrCodeInvalidPath, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeProfileNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeElementDetached:
		return http.StatusConflict
	case errors.ErrCodeAdapterUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// =============================================================================
// Middleware
// =============================================================================

// logRequests logs each request at debug level, or warn for server errors.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", kv...)
			return
		}
		s.logger.Debug("request", kv...)
	})
}
