package tui

import (
	"strings"

	"github.com/glabrego/gallery-cli/internal/overlay"
	tuiview "github.com/glabrego/gallery-cli/internal/tui/view"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.viewWidth()
	body := m.bodyHeight()

	var b strings.Builder
	b.WriteString(tuiview.Header(m.columns, m.feed.Len(), m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.selection.Visible()))
	b.WriteString("\n")
	b.WriteString(fitLines(m.bodyView(width, body), body))
	b.WriteString("\n")
	b.WriteString(tuiview.CompactMessage(m.activity(), m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.CompactFooter(m.feed.Page(), m.feed.Len(), m.columns, m.showCaptions, m.inlineImages, m.theme))
	return b.String()
}

func (m Model) bodyView(width, body int) string {
	switch {
	case m.selection.Visible():
		return m.overlayView(width, body)
	case m.showHelp:
		return "Help (? to close)\n\n" + tuiview.Help()
	case m.showLog:
		return tuiview.FetchLog(m.fetchLog, width, m.theme)
	}

	if m.feed.Len() == 0 {
		switch {
		case m.feed.Err() != nil:
			return "Could not load photos. Press r to retry."
		case m.feed.Loading():
			return "Loading photos..."
		case m.feed.Exhausted():
			return "No photos available."
		default:
			return "No photos yet."
		}
	}

	return tuiview.Grid(m.grid, m.top, body, width, func(idx int) string {
		p, _ := m.feed.At(idx)
		rows, _ := tuiview.CardLayout(p, m.grid.ColumnWidth, m.bodyHeight(), m.showCaptions)
		thumb := ""
		if m.inlineImages {
			thumb = m.thumbs[thumbKey(p.ID, m.thumbSize(p))]
		}
		return tuiview.Card(p, tuiview.CardOptions{
			Width:       m.grid.ColumnWidth,
			ImageRows:   rows,
			Active:      idx == m.cursor,
			ShowCaption: m.showCaptions,
			Thumbnail:   thumb,
		}, m.theme)
	})
}

func (m Model) overlayView(width, body int) string {
	p, _ := m.selection.Photo()
	opts := overlay.Options{Width: tuiview.OverlayInnerWidth(width)}
	if m.inlineImages {
		opts.Preview = m.preview[p.ID]
		opts.PreviewPending = m.previewPending[p.ID]
	}
	return tuiview.Overlay(overlay.Render(m.selection, opts), width, body, m.theme)
}

func (m Model) activity() tuiview.Activity {
	a := tuiview.Activity{
		Loading:   m.feed.Loading(),
		Exhausted: m.feed.Exhausted(),
		Spinner:   m.spinner.View(),
		Status:    m.status,
	}
	switch {
	case m.feed.Err() != nil:
		a.Warning = m.feed.Err().Error()
		a.CanRetry = true
	case m.err != nil:
		a.Warning = m.err.Error()
	}
	return a
}

// fitLines pads or cuts s to exactly n lines.
func fitLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
