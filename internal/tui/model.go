package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/gallery-cli/internal/feed"
	"github.com/glabrego/gallery-cli/internal/imaging"
	"github.com/glabrego/gallery-cli/internal/layout"
	"github.com/glabrego/gallery-cli/internal/overlay"
	"github.com/glabrego/gallery-cli/internal/sentinel"
	"github.com/glabrego/gallery-cli/internal/storage"
	tuiactions "github.com/glabrego/gallery-cli/internal/tui/actions"
	tuiplatform "github.com/glabrego/gallery-cli/internal/tui/platform"
	tuistate "github.com/glabrego/gallery-cli/internal/tui/state"
	tuitheme "github.com/glabrego/gallery-cli/internal/tui/theme"
	tuiview "github.com/glabrego/gallery-cli/internal/tui/view"
)

const (
	minColumns     = 2
	maxColumns     = 5
	gutter         = 2
	defaultWidth   = 80
	defaultHeight  = 24
	chromeRows     = 4
	bodyOffset     = 2
	wheelStep      = 3
	defaultWorkers = 4
)

type clearStatusMsg struct {
	id int
}

type Options struct {
	PerPage       int
	Columns       int
	ShowCaptions  bool
	InlineImages  bool
	FetchTimeout  time.Duration
	RenderWorkers int
	// Render draws thumbnails and previews; nil disables inline images.
	Render imaging.RenderFunc
	Logger *zerolog.Logger
}

type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	service tuiactions.Service
	log     zerolog.Logger
	theme   tuitheme.Theme

	feed      *feed.Feed
	sentinel  *sentinel.Sentinel
	viewport  *sentinel.Viewport
	selection overlay.Selection
	grid      layout.Grid

	bound       bool
	boundTarget string
	boundBusy   bool

	cursor       int
	top          int
	width        int
	height       int
	columns      int
	showCaptions bool
	inlineImages bool
	showHelp     bool
	showLog      bool
	quitting     bool

	spinner   spinner.Model
	status    string
	statusID  int
	err       error
	lastFetch time.Duration
	fetchLog  []storage.FetchRecord

	fetchTimeout   time.Duration
	workers        int
	renderFn       imaging.RenderFunc
	thumbs         map[string]string
	thumbPending   map[string]bool
	thumbFailed    map[string]bool
	preview        map[string]string
	previewErr     map[string]string
	previewPending map[string]bool

	openURLFn func(string) error
	copyURLFn func(string) error
}

// NewModel builds the gallery. Cancelling parent, or quitting, aborts every
// request the model has in flight.
func NewModel(parent context.Context, service tuiactions.Service, opts Options) Model {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	columns := opts.Columns
	if columns < 1 {
		columns = 3
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	workers := opts.RenderWorkers
	if workers < 1 {
		workers = defaultWorkers
	}

	th := tuitheme.Default()
	viewport := sentinel.NewViewport()
	m := Model{
		ctx:            ctx,
		cancel:         cancel,
		service:        service,
		log:            log.With().Str("component", "tui").Logger(),
		theme:          th,
		feed:           feed.New(opts.PerPage),
		sentinel:       sentinel.New(viewport),
		viewport:       viewport,
		columns:        columns,
		showCaptions:   opts.ShowCaptions,
		inlineImages:   opts.InlineImages,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(th.Spinner)),
		fetchTimeout:   timeout,
		workers:        workers,
		renderFn:       opts.Render,
		thumbs:         make(map[string]string),
		thumbPending:   make(map[string]bool),
		thumbFailed:    make(map[string]bool),
		preview:        make(map[string]string),
		previewErr:     make(map[string]string),
		previewPending: make(map[string]bool),
		openURLFn:      tuiplatform.OpenURLInBrowser,
		copyURLFn:      tuiplatform.CopyURLToClipboard,
	}
	m.relayout()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	req, ok := m.feed.Start()
	if !ok {
		return nil
	}
	m.log.Debug().Int("page", req.Page).Msg("requesting first page")
	return tea.Batch(m.fetchCmd(req), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		m.revealCursor()
		return m, m.sync()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case spinner.TickMsg:
		if !m.feed.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tuiactions.FetchPageSuccessMsg:
		added, ok := m.feed.Complete(msg.Request, msg.Photos)
		if !ok {
			m.log.Debug().Int("page", msg.Request.Page).Uint64("seq", msg.Request.Seq).Msg("discarding stale page")
			return m, nil
		}
		m.lastFetch = msg.Duration
		m.log.Debug().
			Int("page", msg.Request.Page).
			Int("received", len(msg.Photos)).
			Int("added", added).
			Bool("exhausted", m.feed.Exhausted()).
			Msg("page applied")
		m.relayout()
		return m, m.sync()
	case tuiactions.FetchPageErrorMsg:
		if !m.feed.Fail(msg.Request, msg.Err) {
			m.log.Debug().Err(msg.Err).Int("page", msg.Request.Page).Msg("discarding stale failure")
			return m, nil
		}
		m.lastFetch = msg.Duration
		return m, m.sync()
	case tuiactions.ThumbnailsMsg:
		for i, res := range msg.Results {
			if i >= len(msg.Keys) {
				break
			}
			key := msg.Keys[i]
			delete(m.thumbPending, key)
			if res.Err != nil {
				if !interrupted(res.Err) {
					m.thumbFailed[key] = true
					m.log.Debug().Err(res.Err).Str("photo", res.ID).Msg("thumbnail render failed")
				}
				continue
			}
			m.thumbs[key] = res.Output
		}
		return m, nil
	case tuiactions.PreviewSuccessMsg:
		delete(m.previewPending, msg.PhotoID)
		delete(m.previewErr, msg.PhotoID)
		m.preview[msg.PhotoID] = msg.Preview
		return m, nil
	case tuiactions.PreviewErrorMsg:
		delete(m.previewPending, msg.PhotoID)
		if interrupted(msg.Err) {
			return m, nil
		}
		m.previewErr[msg.PhotoID] = msg.Err.Error()
		return m, nil
	case tuiactions.FetchLogSuccessMsg:
		m.fetchLog = msg.Records
		return m, nil
	case tuiactions.FetchLogErrorMsg:
		m.err = msg.Err
		return m, nil
	case tuiactions.PreferenceSaveErrorMsg:
		m.err = msg.Err
		m.status = "Could not persist UI preferences"
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		m.err = nil
		return m, m.setStatus(msg.Status, 3*time.Second)
	case tuiactions.OpenURLErrorMsg:
		return m, m.setStatus(msg.Err.Error(), 4*time.Second)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) fetchCmd(req feed.Request) tea.Cmd {
	return tuiactions.FetchPageCmd(m.ctx, m.service, req, m.fetchTimeout)
}

// busy covers every state in which the sentinel must not advance the feed.
// A failed page waits for an explicit retry.
func (m Model) busy() bool {
	return m.feed.Loading() || m.feed.Err() != nil || m.feed.Exhausted()
}

// bind re-attaches the sentinel when the last photo or the busy state changed.
func (m *Model) bind() {
	target := m.feed.LastID()
	busy := m.busy()
	if m.bound && target == m.boundTarget && busy == m.boundBusy {
		return
	}
	m.sentinel.Bind(target, busy)
	m.bound = true
	m.boundTarget = target
	m.boundBusy = busy
}

// sync pushes the current scroll window to the viewport, re-binds the
// sentinel and requests the next page when it intersects.
func (m *Model) sync() tea.Cmd {
	body := m.bodyHeight()
	m.top = tuistate.ClampScroll(m.top, body, m.grid.TotalRows)
	m.viewport.Scroll(m.top, body)
	m.bind()

	var cmds []tea.Cmd
	if target, ok := m.viewport.Check(); ok && m.sentinel.Intersect(target) {
		cmds = append(cmds, m.advance("sentinel"))
	}
	cmds = append(cmds, m.thumbnailCmd())
	return tea.Batch(cmds...)
}

func (m *Model) advance(source string) tea.Cmd {
	if m.service == nil {
		return nil
	}
	req, ok := m.feed.AdvancePage()
	if !ok {
		return nil
	}
	m.bind()
	m.log.Debug().Int("page", req.Page).Str("source", source).Msg("requesting next page")
	return tea.Batch(m.fetchCmd(req), m.spinner.Tick)
}

func (m *Model) relayout() {
	masonry := layout.Masonry{Columns: m.columns, Gutter: gutter}
	width := m.viewWidth()
	colWidth := masonry.ColumnWidth(width)

	maxHeight := m.bodyHeight()

	photos := m.feed.Photos()
	heights := make([]int, len(photos))
	for i, p := range photos {
		_, heights[i] = tuiview.CardLayout(p, colWidth, maxHeight, m.showCaptions)
	}
	m.grid = masonry.Arrange(heights, width)

	spans := make(map[string]sentinel.Span, len(photos))
	for i, p := range photos {
		c := m.grid.Cells[i]
		spans[p.ID] = sentinel.Span{Start: c.Row, End: c.Row + c.Height}
	}
	m.viewport.SetLayout(spans)
	m.cursor = tuistate.ClampCursor(m.cursor, len(photos))
}

func (m *Model) revealCursor() {
	if m.cursor < 0 || m.cursor >= len(m.grid.Cells) {
		return
	}
	cell := m.grid.Cells[m.cursor]
	m.top = tuistate.Reveal(m.top, m.bodyHeight(), cell.Row, cell.Height)
}

func (m *Model) setStatus(status string, after time.Duration) tea.Cmd {
	m.status = status
	m.statusID++
	return clearStatusCmd(m.statusID, after)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	m.feed.Cancel()
	m.sentinel.Stop()
	m.quitting = true
	m.log.Debug().Int("photos", m.feed.Len()).Msg("gallery closed")
	return m, tea.Quit
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) bodyHeight() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	return max(1, h-chromeRows)
}

func (m Model) preferences() storage.UIPreferences {
	return storage.UIPreferences{
		Columns:      m.columns,
		ShowCaptions: m.showCaptions,
		InlineImages: m.inlineImages,
	}
}

// interrupted reports render errors caused by a cancelled or expired
// context. Those renders are retried on the next pass instead of cached as
// failed.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func thumbKey(id string, size imaging.Size) string {
	return fmt.Sprintf("%s@%dx%d", id, size.Width, size.Height)
}
