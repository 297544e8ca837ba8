package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dualscreen/internal/config"
	"github.com/matzehuels/dualscreen/pkg/buildinfo"
	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/geom"
	"github.com/matzehuels/dualscreen/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "dualscreen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
//
// Config seeds flag defaults, so it must be set before RootCommand.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Config: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// Its PersistentPreRunE attaches the logger to the command context and, at
// debug level, routes layout and scenario hooks into the log.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Dualscreen derives pane layouts for dual-screen devices",
		Long:         `Dualscreen computes how content splits around the hinge of a dual-screen device, simulates device interactions, and replays scripted scenarios.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				hooks := &logHooks{logger: c.Logger}
				observability.SetLayoutHooks(hooks)
				observability.SetScenarioHooks(hooks)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Device Flags
// =============================================================================

// deviceOpts holds the flags shared by commands that build a simulator.
type deviceOpts struct {
	profile  string  // built-in profile name or .toml path
	rotation int     // degrees clockwise
	spanned  bool    // span content across both screens
	density  float64 // density override, 0 keeps the profile's
}

// register adds the device flags, defaulting to d.
func (o *deviceOpts) register(cmd *cobra.Command, d config.DeviceConfig) {
	cmd.Flags().StringVarP(&o.profile, "profile", "p", d.Profile, "device profile name or .toml file")
	cmd.Flags().IntVarP(&o.rotation, "rotation", "r", d.Rotation, "screen rotation in degrees: 0, 90, 180, 270")
	cmd.Flags().BoolVarP(&o.spanned, "spanned", "s", d.Spanned, "span content across both screens")
	cmd.Flags().Float64Var(&o.density, "density", d.Density, "override the profile's density scale")
}

// simulator builds a simulator from the flags.
func (o *deviceOpts) simulator(logger *log.Logger) (*display.Simulator, error) {
	p, err := display.ResolveProfile(o.profile)
	if err != nil {
		return nil, err
	}
	rot, ok := display.RotationFromDegrees(o.rotation)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRotation, "rotation must be 0, 90, 180 or 270, got %d", o.rotation)
	}
	if o.density != 0 {
		if err := errors.ValidateDensity(o.density); err != nil {
			return nil, err
		}
		p.Density = o.density
	}

	opts := []display.SimulatorOption{display.WithSimulatorLogger(logger)}
	if o.spanned {
		opts = append(opts, display.Spanned())
	}
	sim := display.NewSimulator(p, opts...)
	if err := sim.SetRotation(rot); err != nil {
		return nil, err
	}
	return sim, nil
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Zero, errors.New(errors.ErrCodeInvalidGeometry, "expected x,y,width,height, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Zero, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "parse %q", s)
		}
		v[i] = f
	}
	if err := errors.ValidateExtent(v[0], v[1], v[2], v[3]); err != nil {
		return geom.Zero, err
	}
	return geom.NewRect(v[0], v[1], v[2], v[3]), nil
}
