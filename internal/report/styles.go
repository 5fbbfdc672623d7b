package report

import "github.com/charmbracelet/lipgloss"

var (
	colorDanger  = lipgloss.Color("#FF5252") // Red: act now
	colorAccent  = lipgloss.Color("#FFD700") // Gold: plan it
	colorSuccess = lipgloss.Color("#00E676") // Green: can wait
	colorMuted   = lipgloss.Color("#636363")
)

var (
	styleHigh    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleMedium  = lipgloss.NewStyle().Foreground(colorAccent)
	styleLow     = lipgloss.NewStyle().Foreground(colorSuccess)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleHeading = lipgloss.NewStyle().Bold(true)
)

func tierStyle(t Tier) lipgloss.Style {
	switch t {
	case High:
		return styleHigh
	case Medium:
		return styleMedium
	default:
		return styleLow
	}
}

// paint renders s with style when color is on, and returns s unchanged
// otherwise so plain output stays byte-stable.
func paint(color bool, style lipgloss.Style, s string) string {
	if !color {
		return s
	}
	return style.Render(s)
}
