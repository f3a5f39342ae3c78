package view

import (
	"github.com/charmbracelet/lipgloss"

	tuitheme "github.com/glabrego/gallery-cli/internal/tui/theme"
)

// OverlayInnerWidth is the text width available inside the overlay frame.
func OverlayInnerWidth(width int) int {
	return max(20, width-8)
}

// Overlay frames body and centres it in a width x height area.
func Overlay(body string, width, height int, th tuitheme.Theme) string {
	box := th.Overlay.Width(OverlayInnerWidth(width) + 2).Render(body)
	placed := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	return lipgloss.NewStyle().MaxHeight(height).Render(placed)
}
