package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Replayed 12 steps (3ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks writes layout and scenario events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLayoutUpdate(scope, mode string, changed bool, d time.Duration) {
	h.logger.Debug("layout update", "scope", scope, "mode", mode, "changed", changed, "duration", d)
}

func (h *logHooks) OnAdapterFault(scope string, err error) {
	h.logger.Warn("display adapter fault", "scope", scope, "err", err)
}

func (h *logHooks) OnDetach(scope string, err error) {
	if err != nil {
		h.logger.Debug("guide detached", "scope", scope, "err", err)
		return
	}
	h.logger.Debug("guide detached", "scope", scope)
}

func (h *logHooks) OnScenarioStart(name string, steps int) {
	h.logger.Debug("scenario start", "name", name, "steps", steps)
}

func (h *logHooks) OnStepApplied(name string, index int, action string, notifications int) {
	h.logger.Debug("step applied", "name", name, "index", index, "action", action, "notifications", notifications)
}

func (h *logHooks) OnScenarioComplete(name string, transitions int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("scenario failed", "name", name, "err", err, "duration", d)
		return
	}
	h.logger.Debug("scenario complete", "name", name, "transitions", transitions, "duration", d)
}
