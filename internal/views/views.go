package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Common styles used across all views
type ViewStyles struct {
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Label    lipgloss.Style
	Header   lipgloss.Style
	Cursor   lipgloss.Style
	Dir      lipgloss.Style
	Status   lipgloss.Style
}

func getCommonStyles() *ViewStyles {
	return &ViewStyles{
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("24")),
		Normal:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Dir:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// trueColor gates the amplitude gradient; dumber terminals get the plain
// lane color instead of per-column hex values.
var trueColor = termenv.ColorProfile() == termenv.TrueColor

// RenderFooter pads the content to the terminal height and appends the
// help and status lines.
func RenderFooter(termHeight, contentLines int, helpText, statusMsg string) string {
	styles := getCommonStyles()
	var content strings.Builder

	footerLines := 1
	if statusMsg != "" {
		footerLines = 2
	}
	for i := contentLines; i < termHeight-footerLines; i++ {
		content.WriteString("\n")
	}
	content.WriteString(styles.Label.Render(helpText))
	if statusMsg != "" {
		content.WriteString("\n")
		content.WriteString(styles.Status.Render(statusMsg))
	}
	return content.String()
}
