// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerline/ledgerline/internal/model"
)

var (
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent output.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats errors or failure messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// FormatResult renders an ingestion result for the terminal.
func FormatResult(result model.IngestionResult) string {
	if result.Success {
		return SuccessStyle.Render(fmt.Sprintf("✓ recorded %s", result.RecordID))
	}

	line := "✗ not recorded"
	if result.Reason != "" {
		line += ": " + result.Reason
	}
	if result.Error != "" {
		line += SubtleStyle.Render(" (" + result.Error + ")")
	}
	if result.Reason == model.ReasonDuplicate || result.Reason == model.ReasonLowConfidence {
		return WarningStyle.Render(line)
	}
	return ErrorStyle.Render(line)
}
