package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/lantern/internal/models"
)

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func severityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityCritical:
		return criticalStyle
	case models.SeverityHigh:
		return highStyle
	case models.SeverityMedium:
		return mediumStyle
	case models.SeverityLow:
		return lowStyle
	default:
		return infoStyle
	}
}

func renderSeverity(s models.Severity) string {
	return severityStyle(s).Render(s.String())
}

// renderTally formats a severity breakdown on one line, skipping empty
// buckets.
func renderTally(c models.SeverityCounts) string {
	type bucket struct {
		sev   models.Severity
		count int
	}
	buckets := []bucket{
		{models.SeverityCritical, c.Critical},
		{models.SeverityHigh, c.High},
		{models.SeverityMedium, c.Medium},
		{models.SeverityLow, c.Low},
		{models.SeverityInfo, c.Info},
	}

	out := fmt.Sprintf("%d findings", c.Total)
	for _, b := range buckets {
		if b.count == 0 {
			continue
		}
		out += fmt.Sprintf("  %s %d", renderSeverity(b.sev), b.count)
	}
	return out
}
