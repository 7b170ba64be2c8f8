package report

import (
	"fmt"
	"strings"

	"distlint/pkg/check"
	"distlint/pkg/engine"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle        = lipgloss.NewStyle().Background(lipgloss.Color("#01FAC6")).Foreground(lipgloss.Color("#030303")).Bold(true).Padding(0, 1, 0)
	focusedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	selectedItemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	descriptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warningStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Render formats a finished check as a bordered report: the configuration
// the run used, every diagnostic at its best-known position, and a verdict.
func Render(result *check.Result) string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("Compatibility Check"))
	s.WriteString("\n\n")

	reportBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#01FAC6")).
		Padding(1, 2).
		Width(74)

	var content strings.Builder

	content.WriteString(focusedStyle.Render("Target: "))
	content.WriteString(selectedItemStyle.Render(result.Target.String()))
	content.WriteString(descriptionStyle.Render("  " + result.TargetSource))
	content.WriteString("\n")

	content.WriteString(focusedStyle.Render("Output: "))
	content.WriteString(selectedItemStyle.Render(strings.Join(result.Dirs, ", ")))
	content.WriteString(descriptionStyle.Render("  " + result.DirsSource))
	content.WriteString("\n")

	if len(result.Browsers) > 0 {
		content.WriteString(focusedStyle.Render("Browsers: "))
		content.WriteString(selectedItemStyle.Render(strings.Join(result.Browsers, ", ")))
		content.WriteString(descriptionStyle.Render("  " + result.BrowsersSource))
		content.WriteString("\n")
	}

	// Diagnostics
	if len(result.Diagnostics) > 0 {
		content.WriteString("\n")
		for _, d := range result.Diagnostics {
			content.WriteString(renderDiagnostic(d))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(verdict(result))

	s.WriteString(reportBox.Render(content.String()))

	return s.String()
}

// renderDiagnostic prints the authored position when remapping succeeded,
// falling back to the compiled one.
func renderDiagnostic(d engine.Diagnostic) string {
	marker := warningStyle.Render("!")
	if d.Blocking() {
		marker = errorStyle.Render("✗")
	}

	pos := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Col)
	if d.Resolved != nil {
		pos = fmt.Sprintf("%s:%d:%d", d.Resolved.File, d.Resolved.Line, d.Resolved.Col)
	}

	line := fmt.Sprintf("%s %s\n   %s", marker, selectedItemStyle.Render(pos), d.Message)
	if d.Rule != "" {
		line += helpStyle.Render("  [" + d.Rule + "]")
	}
	return line
}

func verdict(result *check.Result) string {
	if result.Success() {
		if result.Advisory > 0 {
			return successStyle.Render(fmt.Sprintf("✓ Compatible with %s (%d advisory)", result.Target, result.Advisory))
		}
		return successStyle.Render("✓ Output is compatible with " + result.Target.String())
	}
	return errorStyle.Render(fmt.Sprintf("✗ Incompatible with %s: %d blocking, %d advisory", result.Target, result.Blocking, result.Advisory))
}
