// Package feed holds the paginated photo feed: the accumulated photo list,
// the page cursor and the single in-flight guard. It performs no I/O; callers
// execute the Request values it hands out and report back with Complete or
// Fail.
package feed

import (
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

// Request describes the one fetch a feed allows to be outstanding.
type Request struct {
	Page    int
	PerPage int
	Seq     uint64
}

// State is a read-only copy of the feed.
type State struct {
	Photos    []unsplash.Photo
	Page      int
	Loading   bool
	Exhausted bool
	Err       error
}

type Feed struct {
	photos    []unsplash.Photo
	seen      map[string]struct{}
	page      int
	perPage   int
	loading   bool
	exhausted bool
	retry     bool
	err       error
	seq       uint64
	inflight  uint64
}

func New(perPage int) *Feed {
	if perPage < 1 {
		perPage = unsplash.DefaultPerPage
	}
	return &Feed{
		seen:    make(map[string]struct{}),
		page:    1,
		perPage: perPage,
	}
}

// Start requests the current page. It is the mount-time fetch and is a
// no-op once the feed has photos or a request in flight.
func (f *Feed) Start() (Request, bool) {
	if f.loading || f.exhausted || len(f.photos) > 0 {
		return Request{}, false
	}
	return f.begin(f.page), true
}

// AdvancePage moves the cursor to the next page and returns the request for
// it. It returns false while a fetch is outstanding or after the API ran out
// of photos. After a failed fetch the failed page is requested again instead
// of skipping it.
func (f *Feed) AdvancePage() (Request, bool) {
	if f.loading || f.exhausted {
		return Request{}, false
	}
	if f.retry {
		return f.begin(f.page), true
	}
	f.page++
	return f.begin(f.page), true
}

func (f *Feed) begin(page int) Request {
	f.seq++
	f.inflight = f.seq
	f.loading = true
	f.retry = false
	return Request{Page: page, PerPage: f.perPage, Seq: f.seq}
}

// Complete appends the fetched photos in arrival order. It returns the number
// of photos appended and false when req is not the outstanding request.
func (f *Feed) Complete(req Request, photos []unsplash.Photo) (int, bool) {
	if !f.isCurrent(req) {
		return 0, false
	}
	f.loading = false
	f.inflight = 0
	f.err = nil
	if len(photos) == 0 {
		f.exhausted = true
		return 0, true
	}
	added := 0
	for _, p := range photos {
		if _, dup := f.seen[p.ID]; dup {
			continue
		}
		f.seen[p.ID] = struct{}{}
		f.photos = append(f.photos, p)
		added++
	}
	return added, true
}

// Fail clears the loading flag and records err without touching the list.
func (f *Feed) Fail(req Request, err error) bool {
	if !f.isCurrent(req) {
		return false
	}
	f.loading = false
	f.inflight = 0
	f.err = err
	f.retry = true
	return true
}

// Cancel abandons the outstanding request; its eventual result is ignored.
func (f *Feed) Cancel() {
	if !f.loading {
		return
	}
	f.loading = false
	f.inflight = 0
	f.retry = true
}

// ClearErr drops the recorded error, leaving the retry position intact.
func (f *Feed) ClearErr() {
	f.err = nil
}

func (f *Feed) isCurrent(req Request) bool {
	return f.loading && req.Seq != 0 && req.Seq == f.inflight
}

func (f *Feed) Photos() []unsplash.Photo {
	return append([]unsplash.Photo(nil), f.photos...)
}

func (f *Feed) Len() int { return len(f.photos) }

func (f *Feed) At(i int) (unsplash.Photo, bool) {
	if i < 0 || i >= len(f.photos) {
		return unsplash.Photo{}, false
	}
	return f.photos[i], true
}

// LastID is the id of the last photo, empty when the feed is empty.
func (f *Feed) LastID() string {
	if len(f.photos) == 0 {
		return ""
	}
	return f.photos[len(f.photos)-1].ID
}

func (f *Feed) Page() int       { return f.page }
func (f *Feed) PerPage() int    { return f.perPage }
func (f *Feed) Loading() bool   { return f.loading }
func (f *Feed) Exhausted() bool { return f.exhausted }
func (f *Feed) Err() error      { return f.err }

func (f *Feed) Snapshot() State {
	return State{
		Photos:    f.Photos(),
		Page:      f.page,
		Loading:   f.loading,
		Exhausted: f.exhausted,
		Err:       f.err,
	}
}
