package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/gallery-cli/internal/feed"
	"github.com/glabrego/gallery-cli/internal/imaging"
	"github.com/glabrego/gallery-cli/internal/storage"
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

type Service interface {
	FetchPage(ctx context.Context, page, perPage int) ([]unsplash.Photo, error)
	RecentFetches(ctx context.Context) ([]storage.FetchRecord, error)
	SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error
}

type FetchPageSuccessMsg struct {
	Request  feed.Request
	Photos   []unsplash.Photo
	Duration time.Duration
}

type FetchPageErrorMsg struct {
	Request  feed.Request
	Err      error
	Duration time.Duration
}

type ThumbnailsMsg struct {
	Results []imaging.Result
	Keys    []string
}

type PreviewSuccessMsg struct {
	PhotoID string
	Preview string
}

type PreviewErrorMsg struct {
	PhotoID string
	Err     error
}

type FetchLogSuccessMsg struct {
	Records []storage.FetchRecord
}

type FetchLogErrorMsg struct {
	Err error
}

type PreferenceSaveErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

// FetchPageCmd runs one feed request under parent so that cancelling parent
// aborts the request.
func FetchPageCmd(parent context.Context, service Service, req feed.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		start := time.Now()

		photos, err := service.FetchPage(ctx, req.Page, req.PerPage)
		if err != nil {
			return FetchPageErrorMsg{Request: req, Err: err, Duration: time.Since(start)}
		}
		return FetchPageSuccessMsg{Request: req, Photos: photos, Duration: time.Since(start)}
	}
}

// RenderThumbnailsCmd renders jobs on a worker pool. keys[i] identifies the
// cache slot for jobs[i].
func RenderThumbnailsCmd(parent context.Context, render imaging.RenderFunc, jobs []imaging.Job, keys []string, workers int) tea.Cmd {
	if render == nil || len(jobs) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		defer cancel()
		return ThumbnailsMsg{Results: imaging.RenderBatch(ctx, jobs, workers, render), Keys: keys}
	}
}

func RenderPreviewCmd(parent context.Context, render imaging.RenderFunc, photoID, imageURL string, size imaging.Size) tea.Cmd {
	if render == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, 15*time.Second)
		defer cancel()

		preview, err := render(ctx, imageURL, size)
		if err != nil {
			return PreviewErrorMsg{PhotoID: photoID, Err: err}
		}
		return PreviewSuccessMsg{PhotoID: photoID, Preview: preview}
	}
}

func LoadFetchLogCmd(parent context.Context, service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		defer cancel()

		records, err := service.RecentFetches(ctx)
		if err != nil {
			return FetchLogErrorMsg{Err: err}
		}
		return FetchLogSuccessMsg{Records: records}
	}
}

func SavePreferencesCmd(service Service, prefs storage.UIPreferences) tea.Cmd {
	if service == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := service.SaveUIPreferences(ctx, prefs); err != nil {
			return PreferenceSaveErrorMsg{Err: err}
		}
		return nil
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened photo in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
