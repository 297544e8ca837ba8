package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dualscreen/pkg/render"
	"github.com/matzehuels/dualscreen/pkg/render/nodelink"
	"github.com/matzehuels/dualscreen/pkg/scenario"
)

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	profile  string  // overrides the scenario's profile
	output   string  // output file path
	format   string  // dot, svg, png, pdf; empty prints only
	scope    string  // guide to draw: element id or "" for the full screen
	detailed bool    // include rectangles in graph nodes
	scale    float64 // PNG scale factor
}

// simulateCommand replays a scenario file.
func (c *CLI) simulateCommand() *cobra.Command {
	opts := simulateOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "simulate [scenario.toml]",
		Short: "Replay a scenario and render its transition graph",
		Example: `  dualscreen simulate fold.toml
  dualscreen simulate fold.toml -f svg -o fold.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "" {
				if err := render.ValidateFormat(opts.format); err != nil {
					return err
				}
			}
			return c.runSimulate(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "override the scenario's device profile")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <scenario>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "transition graph format: dot, svg, png, pdf")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "draw transitions of this element instead of the full screen")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include pane and hinge rectangles in the graph")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runSimulate(cmd *cobra.Command, path string, opts *simulateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if opts.profile != "" {
		sc.Profile = opts.profile
	}

	prog := newProgress(logger)
	res, err := scenario.NewRunner(logger).Run(ctx, sc)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d steps", res.Stats.Steps))

	printSuccess(out, "%s on %s", StyleHighlight.Render(res.Scenario), res.Profile.Name)
	printSteps(out, res)
	printDetail(out, "%d transitions · %d notifications · run %s", res.Stats.Transitions, res.Stats.Notifications, res.RunID)

	if opts.format == "" {
		printNextStep(out, "Render the transition graph", fmt.Sprintf("%s simulate %s -f svg", appName, path))
		return nil
	}

	if opts.scope != "" {
		if _, ok := res.Initial[opts.scope]; !ok {
			printWarning(out, "scenario has no element %q, drawing an empty graph", opts.scope)
		}
	}
	data, err := renderTransitions(res, opts)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = res.Scenario + "." + opts.format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printFile(out, output)
	return nil
}

func renderTransitions(res *scenario.Result, opts *simulateOpts) ([]byte, error) {
	dot := nodelink.ToDOT(res, nodelink.Options{Scope: opts.scope, Detailed: opts.detailed})
	if opts.format == render.FormatDOT {
		return []byte(dot), nil
	}

	svg, err := nodelink.RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	switch opts.format {
	case render.FormatPNG:
		return render.ToPNG(svg, opts.scale)
	case render.FormatPDF:
		return render.ToPDF(svg)
	}
	return svg, nil
}

// printSteps prints one row per step with the notifications it caused.
func printSteps(w io.Writer, res *scenario.Result) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(res.Steps))
	for _, sr := range res.Steps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", sr.Index),
			sr.Step.String(),
			sr.State.Mode.String(),
			formatNotifications(sr.Notifications),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Step", "Mode", "Notifications").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleDim
			case col == 2:
				return StyleHighlight
			case col == 3 && len(res.Steps[row].Notifications) == 0:
				return StyleDim
			}
			return StyleValue
		})

	fmt.Fprintln(w, t.Render())
}

// formatNotifications groups notifications by scope: "default: SpanMode, HingeBounds".
func formatNotifications(ns []scenario.Notification) string {
	if len(ns) == 0 {
		return "—"
	}
	var scopes []string
	byScope := make(map[string][]string)
	for _, n := range ns {
		if _, ok := byScope[n.Scope]; !ok {
			scopes = append(scopes, n.Scope)
		}
		byScope[n.Scope] = append(byScope[n.Scope], string(n.Property))
	}
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = s + ": " + strings.Join(byScope[s], ", ")
	}
	return strings.Join(parts, "; ")
}
