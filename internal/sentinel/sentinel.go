// Package sentinel decides when scrolling should load the next page. It
// watches the last rendered photo through an Observer and reports a single
// trigger per intersection while the feed is idle.
package sentinel

// Observer is the platform side: it reports when the observed target
// becomes visible by calling Sentinel.Intersect.
type Observer interface {
	Observe(target string)
	Disconnect()
}

type Phase int

const (
	Idle Phase = iota
	Observing
	Triggered
)

func (p Phase) String() string {
	switch p {
	case Observing:
		return "observing"
	case Triggered:
		return "triggered"
	default:
		return "idle"
	}
}

type Sentinel struct {
	observer Observer
	target   string
	loading  bool
	phase    Phase
}

func New(observer Observer) *Sentinel {
	return &Sentinel{observer: observer}
}

// Bind re-attaches the observation to target. It must be called whenever the
// last item or the loading flag changes. The previous observation is always
// disconnected first so a replaced target can never fire.
func (s *Sentinel) Bind(target string, loading bool) {
	if s.observer != nil {
		s.observer.Disconnect()
	}
	s.target = target
	s.loading = loading

	if target == "" {
		if s.phase != Triggered || !loading {
			s.phase = Idle
		}
		return
	}
	if s.phase == Triggered && loading {
		// keep waiting for the page in flight; the new target is still observed
		// so its visibility is tracked once loading clears
		if s.observer != nil {
			s.observer.Observe(target)
		}
		return
	}
	s.phase = Observing
	if s.observer != nil {
		s.observer.Observe(target)
	}
}

// Intersect handles a visibility event for target. It returns true exactly
// when the caller should advance the feed by one page.
func (s *Sentinel) Intersect(target string) bool {
	if target == "" || target != s.target {
		return false
	}
	if s.phase != Observing || s.loading {
		return false
	}
	s.phase = Triggered
	return true
}

// Stop disconnects the observer and returns to Idle.
func (s *Sentinel) Stop() {
	if s.observer != nil {
		s.observer.Disconnect()
	}
	s.target = ""
	s.phase = Idle
}

func (s *Sentinel) Phase() Phase   { return s.phase }
func (s *Sentinel) Target() string { return s.target }
