package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/gallery-cli/internal/storage"
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

const recentFetchLimit = 10

type PhotoClient interface {
	ListPhotos(ctx context.Context, page, perPage int) ([]unsplash.Photo, error)
}

type Repository interface {
	SaveFetch(ctx context.Context, rec storage.FetchRecord) error
	ListFetches(ctx context.Context, limit int) ([]storage.FetchRecord, error)
	LoadUIPreferences(ctx context.Context, defaults storage.UIPreferences) (storage.UIPreferences, error)
	SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error
}

type UIPreferences = storage.UIPreferences

type Service struct {
	client PhotoClient
	repo   Repository
	log    zerolog.Logger
	nowFn  func() time.Time
}

func NewService(client PhotoClient, repo Repository, log zerolog.Logger) *Service {
	return &Service{client: client, repo: repo, log: log, nowFn: time.Now}
}

// FetchPage loads one page of photos. Every attempt is written to the fetch
// log; a failure to record it is logged and does not fail the fetch.
func (s *Service) FetchPage(ctx context.Context, page, perPage int) ([]unsplash.Photo, error) {
	start := s.nowFn()
	photos, err := s.client.ListPhotos(ctx, page, perPage)
	duration := s.nowFn().Sub(start)

	rec := storage.FetchRecord{
		Page:      page,
		PerPage:   perPage,
		ItemCount: len(photos),
		Duration:  duration,
		FetchedAt: start,
	}
	if err != nil {
		rec.ItemCount = 0
		rec.Error = err.Error()
	}
	s.record(rec)

	if err != nil {
		s.log.Warn().Err(err).Int("page", page).Dur("duration", duration).Msg("photo page fetch failed")
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	s.log.Info().Int("page", page).Int("count", len(photos)).Dur("duration", duration).Msg("photo page fetched")
	return photos, nil
}

func (s *Service) record(rec storage.FetchRecord) {
	if s.repo == nil {
		return
	}
	// the fetch context may already be cancelled; the log write is independent
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.repo.SaveFetch(ctx, rec); err != nil {
		s.log.Error().Err(err).Int("page", rec.Page).Msg("could not record fetch")
	}
}

func (s *Service) RecentFetches(ctx context.Context) ([]storage.FetchRecord, error) {
	records, err := s.repo.ListFetches(ctx, recentFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("load fetch log: %w", err)
	}
	return records, nil
}

func (s *Service) LoadUIPreferences(ctx context.Context, defaults UIPreferences) (UIPreferences, error) {
	prefs, err := s.repo.LoadUIPreferences(ctx, defaults)
	if err != nil {
		return defaults, fmt.Errorf("load ui preferences: %w", err)
	}
	return prefs, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	if err := s.repo.SaveUIPreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	s.log.Debug().Int("columns", prefs.Columns).Bool("captions", prefs.ShowCaptions).Msg("ui preferences saved")
	return nil
}
