package theme

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title     lipgloss.Style
	ModePill  lipgloss.Style
	MetaLabel lipgloss.Style
	MetaValue lipgloss.Style
	StateIdle lipgloss.Style
	StateWarn lipgloss.Style
	StateLoad lipgloss.Style
	StateDone lipgloss.Style

	Card        lipgloss.Style
	CardActive  lipgloss.Style
	Caption     lipgloss.Style
	Author      lipgloss.Style
	Placeholder lipgloss.Style

	Overlay lipgloss.Style
	Spinner lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface1 := lipgloss.Color("#45475a")
	cpBase := lipgloss.Color("#1e1e2e")

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:  lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		MetaLabel: lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue: lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle: lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn: lipgloss.NewStyle().Foreground(cpRed),
		StateLoad: lipgloss.NewStyle().Foreground(cpPeach),
		StateDone: lipgloss.NewStyle().Foreground(cpTeal),

		Card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cpSurface1),
		CardActive:  lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(cpMauve),
		Caption:     lipgloss.NewStyle().Foreground(cpText),
		Author:      lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0),
		Placeholder: lipgloss.NewStyle().Foreground(cpOverlay0).Background(cpSurface0),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(cpLavender).
			Background(cpBase).
			Padding(0, 1),
		Spinner: lipgloss.NewStyle().Foreground(cpPeach),
	}
}

func (t Theme) CardStyle(active bool) lipgloss.Style {
	if active {
		return t.CardActive
	}
	return t.Card
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Swatch paints a placeholder block in the photo's dominant colour, falling
// back to the neutral placeholder style for missing or malformed colours.
func (t Theme) Swatch(color string, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	style := t.Placeholder
	if hexColor.MatchString(color) {
		style = lipgloss.NewStyle().Background(lipgloss.Color(color))
	}
	row := style.Render(strings.Repeat(" ", width))
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}
