// Package overlay holds the full-size preview of the selected photo.
package overlay

import (
	"fmt"
	"strings"

	"github.com/glabrego/gallery-cli/internal/render/caption"
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

// Selection is the photo currently shown full size. The zero value has
// nothing selected.
type Selection struct {
	photo *unsplash.Photo
}

// Select replaces the current selection.
func (s *Selection) Select(p unsplash.Photo) {
	s.photo = &p
}

// Dismiss clears the selection. It is the only way a selection goes away.
func (s *Selection) Dismiss() {
	s.photo = nil
}

func (s Selection) Visible() bool {
	return s.photo != nil
}

func (s Selection) Photo() (unsplash.Photo, bool) {
	if s.photo == nil {
		return unsplash.Photo{}, false
	}
	return *s.photo, true
}

// URL is the full resolution image link, empty when nothing is selected.
func (s Selection) URL() string {
	if s.photo == nil {
		return ""
	}
	return s.photo.URLs.Regular
}

type Options struct {
	Width int
	// Preview is the already rendered image block, empty when inline images
	// are off or the render has not finished.
	Preview string
	// PreviewPending shows a placeholder while the preview renders.
	PreviewPending bool
}

// Render lays out the overlay body. It returns "" when nothing is selected.
func Render(sel Selection, opts Options) string {
	p, ok := sel.Photo()
	if !ok {
		return ""
	}
	width := opts.Width
	if width < 20 {
		width = 20
	}

	lines := make([]string, 0, 12)
	lines = append(lines, caption.Wrap(Label(p), width)...)
	if author := Author(p); author != "" {
		lines = append(lines, caption.Truncate(author, width))
	}
	if p.Width > 0 && p.Height > 0 {
		lines = append(lines, fmt.Sprintf("%d × %d", p.Width, p.Height))
	}
	lines = append(lines, "")

	switch {
	case opts.Preview != "":
		lines = append(lines, strings.TrimRight(opts.Preview, "\n"), "")
	case opts.PreviewPending:
		lines = append(lines, "Loading preview...", "")
	}

	url := p.URLs.Regular
	if url == "" {
		url = "(no image URL)"
	}
	lines = append(lines, caption.Truncate(url, width))
	return strings.Join(lines, "\n")
}

// Label is the cleaned descriptive text, DefaultLabel when the photo has none.
func Label(p unsplash.Photo) string {
	text := caption.PlainText(p.Label())
	if text == "" {
		return unsplash.DefaultLabel
	}
	return text
}

func Author(p unsplash.Photo) string {
	name := strings.TrimSpace(p.User.Name)
	username := strings.TrimSpace(p.User.Username)
	switch {
	case name != "" && username != "":
		return fmt.Sprintf("by %s (@%s)", name, username)
	case name != "":
		return "by " + name
	case username != "":
		return "by @" + username
	}
	return ""
}
