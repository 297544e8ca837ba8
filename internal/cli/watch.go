package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/dualscreen"
)

// watchCommand opens an interactive simulator.
func (c *CLI) watchCommand() *cobra.Command {
	var device deviceOpts

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Drive a simulated device interactively",
		Long: `Watch opens a simulated device and redraws its panes as you rotate, span
and reconfigure it. Every property change the layout info publishes is listed
below the drawing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			sim, err := device.simulator(logger)
			if err != nil {
				return err
			}
			guide := dualscreen.NewGuide(sim, dualscreen.WithLogger(logger))
			defer guide.Close()
			info := dualscreen.NewInfo(guide)
			defer info.Close()

			p := tea.NewProgram(newWatchModel(sim, info), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	device.register(cmd, c.Config.Device)
	return cmd
}

// =============================================================================
// WatchModel - Interactive device simulator
// =============================================================================

const (
	maxWatchEvents = 8
	densityStep    = 0.25
	hingeStep      = 15
)

// watchEvents is shared between the model copies bubbletea passes around and
// the Info subscription that fills it.
type watchEvents struct {
	lines []string
	seq   int
}

func (e *watchEvents) add(line string) {
	e.seq++
	e.lines = append(e.lines, fmt.Sprintf("%3d %s", e.seq, line))
	if len(e.lines) > maxWatchEvents {
		e.lines = e.lines[len(e.lines)-maxWatchEvents:]
	}
}

// WatchModel is the bubbletea model for the interactive simulator.
type WatchModel struct {
	sim    *display.Simulator
	info   *dualscreen.Info
	events *watchEvents
	width  int
}

func newWatchModel(sim *display.Simulator, info *dualscreen.Info) WatchModel {
	events := &watchEvents{}
	info.Subscribe(func(p dualscreen.Property) {
		events.add(describeProperty(info, p))
	})
	return WatchModel{
		sim:    sim,
		info:   info,
		events: events,
		width:  60,
	}
}

func describeProperty(info *dualscreen.Info, p dualscreen.Property) string {
	switch p {
	case dualscreen.PropSpanningBounds:
		return fmt.Sprintf("%s %v", p, info.SpanningBounds())
	case dualscreen.PropHingeBounds:
		return fmt.Sprintf("%s %v", p, info.HingeBounds())
	case dualscreen.PropIsLandscape:
		return fmt.Sprintf("%s %t", p, info.IsLandscape())
	case dualscreen.PropSpanMode:
		return fmt.Sprintf("%s %v", p, info.SpanMode())
	}
	return string(p)
}

func (m WatchModel) Init() tea.Cmd {
	return nil
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.sim.Rotate()
		case "s":
			m.sim.SetSpanned(!m.sim.IsSpanned())
		case "+", "=":
			if d, err := m.sim.DensityScale(); err == nil {
				m.sim.SetDensity(d + densityStep)
			}
		case "-":
			if d, err := m.sim.DensityScale(); err == nil && d > densityStep {
				m.sim.SetDensity(d - densityStep)
			}
		case "h":
			angle := m.sim.HingeAngle() - hingeStep
			if angle < 0 {
				angle = 360
			}
			m.sim.SetHingeAngle(angle)
		case "t":
			m.sim.Touch()
		case "a":
			m.sim.SetAvailable(!m.sim.Available())
		case "u":
			m.info.Refresh()
		}
	case tea.WindowSizeMsg:
		m.width = max(20, min(msg.Width-4, 100))
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dual-screen simulator"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.status()))
	b.WriteString("\n\n")

	s := m.info.Guide().State()
	b.WriteString(drawLayout(layoutArea(s), s, m.width))
	b.WriteString("\n\n")
	printState(&b, s)

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("changes"))
	b.WriteString("\n")
	if len(m.events.lines) == 0 {
		b.WriteString(StyleDim.Render("  none yet"))
		b.WriteString("\n")
	}
	for _, line := range m.events.lines {
		b.WriteString("  " + StyleValue.Render(line) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render(
		"r rotate  s span  +/- density  h hinge  t touch  a display service  u refresh  q quit"))
	return b.String()
}

func (m WatchModel) status() string {
	p := m.sim.Profile()
	parts := []string{p.Name}
	if rot, err := m.sim.Rotation(); err == nil {
		parts = append(parts, rot.String())
	}
	parts = append(parts, spannedLabel(m.sim.IsSpanned()))
	if d, err := m.sim.DensityScale(); err == nil {
		parts = append(parts, fmt.Sprintf("density %g", d))
	}
	parts = append(parts, fmt.Sprintf("hinge %d°", m.sim.HingeAngle()))
	if !m.sim.Available() {
		parts = append(parts, StyleWarning.Render("display service lost"))
	}
	return strings.Join(parts, " · ")
}
