package sentinel

// Span is the vertical extent of a rendered item in content rows, End
// exclusive.
type Span struct {
	Start int
	End   int
}

// Viewport is an Observer for a scrolling terminal pane. Items are laid out
// in content rows; the pane shows rows [top, top+height). Like a browser
// intersection observer it reports a freshly observed target that is already
// visible, and afterwards only reports transitions into view.
type Viewport struct {
	spans   map[string]Span
	top     int
	height  int
	target  string
	visible bool
	pending bool
}

func NewViewport() *Viewport {
	return &Viewport{spans: make(map[string]Span)}
}

func (v *Viewport) Observe(target string) {
	v.target = target
	v.visible = false
	v.pending = target != ""
}

func (v *Viewport) Disconnect() {
	v.target = ""
	v.visible = false
	v.pending = false
}

// SetLayout replaces the item spans after a re-layout.
func (v *Viewport) SetLayout(spans map[string]Span) {
	v.spans = spans
	if v.spans == nil {
		v.spans = make(map[string]Span)
	}
}

// Scroll moves the visible window.
func (v *Viewport) Scroll(top, height int) {
	if top < 0 {
		top = 0
	}
	if height < 0 {
		height = 0
	}
	v.top = top
	v.height = height
}

// Visible reports whether any row of id lies inside the window.
func (v *Viewport) Visible(id string) bool {
	span, ok := v.spans[id]
	if !ok || v.height == 0 {
		return false
	}
	return span.Start < v.top+v.height && span.End > v.top
}

// Check returns the observed target when it has just come into view.
func (v *Viewport) Check() (string, bool) {
	if v.target == "" {
		return "", false
	}
	now := v.Visible(v.target)
	entered := now && (!v.visible || v.pending)
	v.visible = now
	v.pending = false
	if !entered {
		return "", false
	}
	return v.target, true
}
