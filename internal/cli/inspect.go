package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/dualscreen"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	device  deviceOpts
	element string // x,y,width,height of a container in screen DIP
	draw    bool   // draw the panes
	width   int    // drawing width in cells
}

// inspectCommand prints the layout for one device configuration.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{draw: true, width: c.Config.Draw.Width}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the pane layout for a device configuration",
		Example: `  dualscreen inspect --spanned
  dualscreen inspect --profile surface-duo-2 --spanned --rotation 90
  dualscreen inspect --spanned --element 500,100,300,400`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, &opts)
		},
	}

	opts.device.register(cmd, c.Config.Device)
	cmd.Flags().StringVarP(&opts.element, "element", "e", "", "measure against a container at x,y,width,height (screen DIP)")
	cmd.Flags().BoolVar(&opts.draw, "draw", opts.draw, "draw the panes")
	cmd.Flags().IntVarP(&opts.width, "width", "w", opts.width, "drawing width in terminal cells")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, opts *inspectOpts) error {
	logger := loggerFromContext(cmd.Context())
	out := cmd.OutOrStdout()

	sim, err := opts.device.simulator(logger)
	if err != nil {
		return err
	}

	guideOpts := []dualscreen.Option{dualscreen.WithLogger(logger)}
	if opts.element != "" {
		bounds, err := parseRect(opts.element)
		if err != nil {
			return err
		}
		el := sim.AddElement("element", bounds)
		guideOpts = append(guideOpts, dualscreen.WithContainer(display.NewElementContainer(sim, el, logger)))
	}

	guide := dualscreen.NewGuide(sim, guideOpts...)
	defer guide.Close()
	s := guide.State()

	rot, _ := sim.Rotation()
	printInfo(out, "%s rotated %s, %s", StyleHighlight.Render(sim.Profile().Name), rot, spannedLabel(sim.IsSpanned()))
	printState(out, s)
	if opts.draw {
		fmt.Fprintln(out)
		fmt.Fprintln(out, drawLayout(layoutArea(s), s, opts.width))
	}
	return nil
}

func spannedLabel(spanned bool) string {
	if spanned {
		return "spanned"
	}
	return "single screen"
}
