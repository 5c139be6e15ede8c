package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/scan"
)

var (
	resourceStyle = lipgloss.NewStyle().Bold(true)

	partyStyles = map[copywatch.Party]lipgloss.Style{
		copywatch.FirstParty: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		copywatch.ThirdParty: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		copywatch.Unknown:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		copywatch.Forbidden:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

// printReports renders verbose scan output: one header line per resource
// with its overall classification, then one line per match.
func printReports(w io.Writer, reports []scan.Report, noColor bool) {
	render := func(s lipgloss.Style, text string) string {
		if noColor {
			return text
		}
		return s.Render(text)
	}

	for _, rep := range reports {
		fmt.Fprintf(w, "%s %s\n",
			render(resourceStyle, rep.Resource.Name),
			render(partyStyles[rep.Overall], rep.Overall.String()))
		for _, m := range rep.Matches {
			text := m.Text
			if len(text) > 100 {
				text = text[:100] + "..."
			}
			fmt.Fprintf(w, "  %s %s L%d-%d: %s\n",
				render(partyStyles[m.Party], m.Party.String()),
				m.Kind, m.StartLine, m.EndLine, text)
		}
	}
}
