package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/gallery-cli/internal/layout"
	"github.com/glabrego/gallery-cli/internal/overlay"
	"github.com/glabrego/gallery-cli/internal/render/caption"
	tuitheme "github.com/glabrego/gallery-cli/internal/tui/theme"
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

// CardChrome is the number of rows and columns the card border takes.
const CardChrome = 2

type CardOptions struct {
	// Width is the outer width including the border.
	Width       int
	ImageRows   int
	Active      bool
	ShowCaption bool
	Thumbnail   string
}

// CardLayout returns the image rows and the outer card height for p in a
// column colWidth cells wide. A positive maxHeight caps the outer height so a
// tall photo still fits on one screen.
func CardLayout(p unsplash.Photo, colWidth, maxHeight int, showCaption bool) (imageRows, height int) {
	inner := max(1, colWidth-CardChrome)
	extra := CardChrome
	if showCaption {
		extra++
	}
	imageRows = layout.CardHeight(p.AspectRatio(), inner, 0)
	if maxHeight > 0 {
		imageRows = max(1, min(imageRows, maxHeight-extra))
	}
	return imageRows, imageRows + extra
}

// Card renders a bordered card. Without a thumbnail the image area is a
// swatch in the photo's dominant colour.
func Card(p unsplash.Photo, opts CardOptions, th tuitheme.Theme) string {
	inner := max(1, opts.Width-CardChrome)
	rows := max(1, opts.ImageRows)

	var image string
	if thumb := strings.TrimRight(opts.Thumbnail, "\n"); thumb != "" {
		image = fitBlock(thumb, rows)
	} else {
		image = th.Swatch(p.Color, inner, rows)
	}

	body := image
	bodyRows := rows
	if opts.ShowCaption {
		body += "\n" + th.Caption.Render(caption.Truncate(overlay.Label(p), inner))
		bodyRows++
	}
	return th.CardStyle(opts.Active).Width(inner).Height(bodyRows).Render(body)
}

// fitBlock pads or cuts s to exactly rows lines.
func fitBlock(s string, rows int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Grid composes the cards that intersect rows [top, top+height) of g into
// height lines of width cells. card is only called for visible items.
func Grid(g layout.Grid, top, height, width int, card func(idx int) string) string {
	if height <= 0 {
		return ""
	}
	colW := g.ColumnWidth
	blank := strings.Repeat(" ", colW)
	columns := make([][]string, len(g.Columns))
	for c, items := range g.Columns {
		col := make([]string, height)
		for i := range col {
			col[i] = blank
		}
		for _, idx := range items {
			cell := g.Cells[idx]
			if cell.Row >= top+height || cell.Row+cell.Height <= top {
				continue
			}
			for i, line := range strings.Split(card(idx), "\n") {
				r := cell.Row + i - top
				if r < 0 || r >= height || i >= cell.Height {
					continue
				}
				col[r] = padRight(line, colW)
			}
		}
		columns[c] = col
	}

	gap := strings.Repeat(" ", g.Gutter)
	out := make([]string, height)
	for r := 0; r < height; r++ {
		parts := make([]string, len(columns))
		for c := range columns {
			parts[c] = columns[c][r]
		}
		out[r] = padRight(strings.Join(parts, gap), width)
	}
	return strings.Join(out, "\n")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
