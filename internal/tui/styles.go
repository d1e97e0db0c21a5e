// Package tui renders the packing list in the terminal.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tripwise/packmate/internal/packing"
)

var (
	colorPrimary = lipgloss.Color("#7aa2f7") // Blue
	colorSuccess = lipgloss.Color("#9ece6a") // Green
	colorWarning = lipgloss.Color("#e0af68") // Yellow
	colorError   = lipgloss.Color("#f7768e") // Red
	colorMuted   = lipgloss.Color("#565f89") // Gray
	colorFgDim   = lipgloss.Color("#a9b1d6")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorFgDim)

	pillStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	detailStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(6)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorFgDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

func levelColor(l packing.Level) lipgloss.Color {
	switch l {
	case packing.LevelEmpty, packing.LevelOK:
		return colorSuccess
	case packing.LevelNear:
		return colorWarning
	case packing.LevelOver:
		return colorError
	}
	return colorMuted
}

func labelStyle(l packing.Label) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch l {
	case packing.LabelPack:
		return s.Foreground(colorSuccess)
	case packing.LabelLeave:
		return s.Foreground(colorError)
	case packing.LabelReconsider:
		return s.Foreground(colorWarning)
	}
	return s
}

func renderPill(p packing.Pill) string {
	return pillStyle.BorderForeground(levelColor(p.Level)).Render(p.Text)
}
