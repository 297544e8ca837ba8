package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dualscreen/pkg/dualscreen"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions, pane 1
	colorGreen  = lipgloss.Color("35")  // Green - success, pane 2
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text, hinge
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	stylePane1 = lipgloss.NewStyle().Foreground(colorCyan)
	stylePane2 = lipgloss.NewStyle().Foreground(colorGreen)
	styleHinge = lipgloss.NewStyle().Foreground(colorDim)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Layout Output
// =============================================================================

// printState prints a layout snapshot as key-value lines.
func printState(w io.Writer, s dualscreen.State) {
	orientation := "portrait"
	if s.IsLandscape {
		orientation = "landscape"
	}
	printKeyValue(w, "mode", StyleHighlight.Render(s.Mode.String()))
	printKeyValue(w, "orientation", orientation)
	printKeyValue(w, "pane1", stylePane1.Render(s.Pane1.String()))
	if s.IsSpanned() {
		printKeyValue(w, "hinge", styleHinge.Render(s.Hinge.String()))
		printKeyValue(w, "pane2", stylePane2.Render(s.Pane2.String()))
	}
}

// Glyphs used by drawLayout.
const (
	glyphPane1 = "░"
	glyphHinge = "█"
	glyphPane2 = "▒"
	glyphEmpty = " "
)

// drawLayout draws s inside an area of the given size, width terminal cells
// wide. Cells are assumed to be twice as tall as they are wide. A hinge
// narrower than a cell still gets at least one column or row.
func drawLayout(area geom.Size, s dualscreen.State, width int) string {
	if area.IsEmpty() || width <= 0 {
		return StyleDim.Render("(no screen)")
	}
	sx := float64(width) / area.Width
	height := max(1, int(area.Height*sx/2+0.5))
	sy := float64(height) / area.Height

	var b strings.Builder
	for row := range height {
		var line strings.Builder
		prev, run := "", 0
		flush := func() {
			if run > 0 {
				line.WriteString(glyphStyle(prev).Render(strings.Repeat(prev, run)))
			}
		}
		for col := range width {
			cell := geom.NewRect(float64(col)/sx, float64(row)/sy, 1/sx, 1/sy)
			center := geom.Point{X: cell.X + cell.Width/2, Y: cell.Y + cell.Height/2}

			g := glyphEmpty
			switch {
			case s.IsSpanned() && cell.Intersects(s.Hinge):
				g = glyphHinge
			case s.Pane1.Contains(center):
				g = glyphPane1
			case s.Pane2.Contains(center):
				g = glyphPane2
			}
			if g != prev {
				flush()
				prev, run = g, 0
			}
			run++
		}
		flush()
		b.WriteString(line.String())
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func glyphStyle(g string) lipgloss.Style {
	switch g {
	case glyphPane1:
		return stylePane1
	case glyphPane2:
		return stylePane2
	case glyphHinge:
		return styleHinge
	}
	return lipgloss.NewStyle()
}

// layoutArea returns the size the panes of s are measured against.
func layoutArea(s dualscreen.State) geom.Size {
	switch s.Mode {
	case dualscreen.DoubleWide:
		return geom.Size{Width: s.Pane2.Right(), Height: s.Pane1.Height}
	case dualscreen.DoubleTall:
		return geom.Size{Width: s.Pane1.Width, Height: s.Pane2.Bottom()}
	}
	return s.Pane1.Size()
}
