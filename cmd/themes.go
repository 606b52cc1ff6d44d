package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"goeq/pkg/eq"
	"goeq/pkg/viz"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in color themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, name := range viz.ThemeNames() {
			p, _ := viz.Theme(name)
			marker := " "
			if name == viz.DefaultTheme {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-10s %s  %s\n", marker, name, swatch(p), p.Background)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

// swatch shows the three bar colors in palette order.
func swatch(p eq.Palette) string {
	var s string
	for _, c := range []string{p.Bar, p.Bar2, p.Bar3} {
		s += lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("██") + " " + c + " "
	}
	return s
}
