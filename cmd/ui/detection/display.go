package detection

import (
	"strings"

	"distlint/pkg/detect"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle        = lipgloss.NewStyle().Background(lipgloss.Color("#01FAC6")).Foreground(lipgloss.Color("#030303")).Bold(true).Padding(0, 1, 0)
	focusedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	selectedItemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	descriptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Render formats one detection pass over dir as a bordered summary box.
// Each detected fact is shown with the configuration file that supplied it;
// facts no candidate supplied render as "not detected".
func Render(res detect.Result, dir string) string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("Configuration Detection Results"))
	s.WriteString("\n\n")

	resultBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#01FAC6")).
		Padding(1, 2).
		Width(60)

	var content strings.Builder
	content.WriteString(descriptionStyle.Render(dir))
	content.WriteString("\n\n")
	writeFact(&content, "Target", res.Target.String(), res.TargetSource)
	writeFact(&content, "Output dir", res.OutputDir, res.OutputDirSource)
	writeFact(&content, "Browsers", strings.Join(res.Browsers, ", "), res.BrowsersSource)

	s.WriteString(resultBox.Render(content.String()))

	return s.String()
}

func writeFact(content *strings.Builder, label, value, source string) {
	content.WriteString(focusedStyle.Render(label + ": "))
	if value == "" {
		content.WriteString(helpStyle.Render("not detected"))
		content.WriteString("\n")
		return
	}
	content.WriteString(selectedItemStyle.Render(value))
	if source != "" {
		content.WriteString(descriptionStyle.Render("  " + source))
	}
	content.WriteString("\n")
}
