package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/gallery-cli/internal/imaging"
	tuiactions "github.com/glabrego/gallery-cli/internal/tui/actions"
	tuiplatform "github.com/glabrego/gallery-cli/internal/tui/platform"
	tuistate "github.com/glabrego/gallery-cli/internal/tui/state"
	tuiview "github.com/glabrego/gallery-cli/internal/tui/view"
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return m.quit()
	}

	if m.selection.Visible() {
		switch key {
		case "o":
			return m.openSelected()
		case "y":
			return m.copySelected()
		}
		m.selection.Dismiss()
		return m, nil
	}
	if m.showHelp {
		if key == "?" || key == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	if m.showLog {
		if key == "L" || key == "esc" {
			m.showLog = false
		}
		return m, nil
	}

	var cmds []tea.Cmd
	switch key {
	case "?":
		m.showHelp = true
		return m, nil
	case "L":
		if m.service == nil {
			return m, nil
		}
		m.showLog = true
		return m, tuiactions.LoadFetchLogCmd(m.ctx, m.service)
	case "up", "k":
		m.moveTo(tuistate.Move(m.grid, m.cursor, 0, -1))
	case "down", "j":
		m.moveTo(tuistate.Move(m.grid, m.cursor, 0, 1))
	case "left", "h":
		m.moveTo(tuistate.Move(m.grid, m.cursor, -1, 0))
	case "right", "l":
		m.moveTo(tuistate.Move(m.grid, m.cursor, 1, 0))
	case "pgdown":
		step := tuistate.PageStep(m.height, m.status != "")
		m.top += step
		m.moveTo(tuistate.MoveRows(m.grid, m.cursor, step))
	case "pgup":
		step := tuistate.PageStep(m.height, m.status != "")
		m.top -= step
		m.moveTo(tuistate.MoveRows(m.grid, m.cursor, -step))
	case "g", "home":
		m.cursor = 0
		m.top = 0
	case "G", "end":
		m.moveTo(tuistate.Last(m.grid))
	case "enter", " ":
		return m.selectCurrent()
	case "n":
		m.feed.ClearErr()
		cmds = append(cmds, m.advance("manual"))
	case "r":
		if m.feed.Err() == nil {
			return m, nil
		}
		m.feed.ClearErr()
		cmds = append(cmds, m.advance("retry"))
	case "c":
		next := m.columns + 1
		if next < minColumns || next > maxColumns {
			next = minColumns
		}
		m.columns = next
		m.relayout()
		m.revealCursor()
		cmds = append(cmds, m.setStatus(fmt.Sprintf("Columns: %d", m.columns), 2*time.Second), m.savePreferences())
	case "t":
		m.showCaptions = !m.showCaptions
		m.relayout()
		m.revealCursor()
		cmds = append(cmds, m.setStatus("Captions "+onOff(m.showCaptions), 2*time.Second), m.savePreferences())
	case "i":
		m.inlineImages = !m.inlineImages
		cmds = append(cmds, m.setStatus("Inline images "+onOff(m.inlineImages), 2*time.Second), m.savePreferences())
	default:
		return m, nil
	}
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown
	if m.selection.Visible() {
		if !wheel {
			m.selection.Dismiss()
		}
		return m, nil
	}
	if m.showHelp || m.showLog {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.top -= wheelStep
	case tea.MouseButtonWheelDown:
		m.top += wheelStep
	case tea.MouseButtonLeft:
		idx, ok := m.cardAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.cursor = idx
		return m.selectCurrent()
	default:
		return m, nil
	}
	return m, m.sync()
}

// cardAt maps a screen position to the card drawn there.
func (m Model) cardAt(x, y int) (int, bool) {
	row := y - bodyOffset
	if row < 0 || row >= m.bodyHeight() || x < 0 {
		return 0, false
	}
	stride := m.grid.ColumnWidth + m.grid.Gutter
	if stride <= 0 || x%stride >= m.grid.ColumnWidth {
		return 0, false
	}
	return tuistate.CellAt(m.grid, x/stride, m.top+row)
}

func (m *Model) moveTo(idx int) {
	if len(m.grid.Cells) == 0 {
		return
	}
	m.cursor = tuistate.ClampCursor(idx, len(m.grid.Cells))
	m.revealCursor()
}

func (m Model) selectCurrent() (tea.Model, tea.Cmd) {
	p, ok := m.feed.At(m.cursor)
	if !ok {
		return m, nil
	}
	m.selection.Select(p)
	m.revealCursor()
	return m, m.previewCmd(p)
}

func (m *Model) previewCmd(p unsplash.Photo) tea.Cmd {
	if !m.inlineImages || m.renderFn == nil || p.URLs.Regular == "" {
		return nil
	}
	if _, done := m.preview[p.ID]; done || m.previewPending[p.ID] {
		return nil
	}
	if _, failed := m.previewErr[p.ID]; failed {
		return nil
	}
	m.previewPending[p.ID] = true
	size := imaging.Size{
		Width:  tuiview.OverlayInnerWidth(m.viewWidth()),
		Height: max(4, m.bodyHeight()-8),
	}
	return tuiactions.RenderPreviewCmd(m.ctx, m.renderFn, p.ID, p.URLs.Regular, size)
}

// thumbnailCmd renders missing thumbnails for the visible window and one
// screen below it.
func (m *Model) thumbnailCmd() tea.Cmd {
	if !m.inlineImages || m.renderFn == nil || len(m.grid.Cells) == 0 {
		return nil
	}
	lo := m.top
	hi := m.top + 2*m.bodyHeight()

	var jobs []imaging.Job
	var keys []string
	for idx, cell := range m.grid.Cells {
		if cell.Row >= hi || cell.Row+cell.Height <= lo {
			continue
		}
		p, ok := m.feed.At(idx)
		if !ok || p.URLs.Small == "" {
			continue
		}
		size := m.thumbSize(p)
		key := thumbKey(p.ID, size)
		if _, done := m.thumbs[key]; done || m.thumbPending[key] || m.thumbFailed[key] {
			continue
		}
		m.thumbPending[key] = true
		jobs = append(jobs, imaging.Job{ID: p.ID, URL: p.URLs.Small, Size: size})
		keys = append(keys, key)
	}
	return tuiactions.RenderThumbnailsCmd(m.ctx, m.renderFn, jobs, keys, m.workers)
}

func (m Model) thumbSize(p unsplash.Photo) imaging.Size {
	rows, _ := tuiview.CardLayout(p, m.grid.ColumnWidth, m.bodyHeight(), m.showCaptions)
	return imaging.Size{Width: max(1, m.grid.ColumnWidth-tuiview.CardChrome), Height: rows}
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	p, ok := m.selection.Photo()
	if !ok {
		return m, nil
	}
	target := p.Links.HTML
	if target == "" {
		target = p.URLs.Regular
	}
	valid, err := tuiplatform.ValidatePhotoURL(target)
	if err != nil {
		return m, m.setStatus(err.Error(), 4*time.Second)
	}
	return m, tuiactions.OpenURLCmd(valid, m.openURLFn, m.copyURLFn)
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	valid, err := tuiplatform.ValidatePhotoURL(m.selection.URL())
	if err != nil {
		return m, m.setStatus(err.Error(), 4*time.Second)
	}
	return m, tuiactions.CopyURLCmd(valid, m.copyURLFn)
}

func (m Model) savePreferences() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tuiactions.SavePreferencesCmd(m.service, m.preferences())
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
