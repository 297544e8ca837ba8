package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dualscreen/pkg/display"
)

// profilesCommand lists device profiles.
func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles [file.toml]",
		Short: "List built-in device profiles or show a profile file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				p, err := display.LoadProfile(args[0])
				if err != nil {
					return err
				}
				printProfile(out, p)
				return nil
			}
			printProfiles(out, display.Builtin())
			printNextStep(out, "Inspect one", appName+" inspect --profile "+display.DefaultProfile+" --spanned")
			return nil
		},
	}
	return cmd
}

func printProfiles(w io.Writer, profiles []display.Profile) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		hinge := "—"
		if p.HasHinge() {
			hinge = p.Hinge.String()
		}
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%gx%g", p.Screen.Width, p.Screen.Height),
			fmt.Sprintf("%g", p.Density),
			hinge,
			p.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Profile", "Screen (px)", "Density", "Hinge (px)", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 && profiles[row].Name == display.DefaultProfile:
				return StyleHighlight.Bold(true)
			case col == 0:
				return StyleHighlight
			case col == 4:
				return StyleDim
			}
			return StyleValue
		})

	fmt.Fprintln(w, t.Render())
}

func printProfile(w io.Writer, p display.Profile) {
	fmt.Fprintln(w, StyleTitle.Render(p.Name))
	if p.Description != "" {
		printDetail(w, "%s", p.Description)
	}
	printKeyValue(w, "screen", fmt.Sprintf("%gx%g px", p.Screen.Width, p.Screen.Height))
	printKeyValue(w, "density", fmt.Sprintf("%g", p.Density))
	printKeyValue(w, "screen dip", fmt.Sprintf("%gx%g", p.Screen.Width/p.Density, p.Screen.Height/p.Density))
	if p.HasHinge() {
		printKeyValue(w, "hinge", p.Hinge.String()+" px")
	} else {
		printKeyValue(w, "hinge", StyleDim.Render("none"))
	}
}
