package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/glabrego/gallery-cli/internal/storage"
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

type fakeClient struct {
	photos   []unsplash.Photo
	err      error
	lastPage int
	lastPer  int
}

func (f *fakeClient) ListPhotos(_ context.Context, page, perPage int) ([]unsplash.Photo, error) {
	f.lastPage = page
	f.lastPer = perPage
	if f.err != nil {
		return nil, f.err
	}
	return f.photos, nil
}

type fakeRepo struct {
	fetches []storage.FetchRecord
	prefs   *storage.UIPreferences
	saveErr error
	listErr error
}

func (f *fakeRepo) SaveFetch(_ context.Context, rec storage.FetchRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.fetches = append(f.fetches, rec)
	return nil
}

func (f *fakeRepo) ListFetches(_ context.Context, limit int) ([]storage.FetchRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.fetches) > limit {
		return f.fetches[:limit], nil
	}
	return f.fetches, nil
}

func (f *fakeRepo) LoadUIPreferences(_ context.Context, defaults storage.UIPreferences) (storage.UIPreferences, error) {
	if f.prefs == nil {
		return defaults, nil
	}
	return *f.prefs, nil
}

func (f *fakeRepo) SaveUIPreferences(_ context.Context, prefs storage.UIPreferences) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.prefs = &prefs
	return nil
}

func TestService_FetchPage_RecordsSuccess(t *testing.T) {
	client := &fakeClient{photos: []unsplash.Photo{{ID: "a"}, {ID: "b"}}}
	repo := &fakeRepo{}
	var buf bytes.Buffer
	svc := NewService(client, repo, zerolog.New(&buf))

	photos, err := svc.FetchPage(context.Background(), 3, 25)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if len(photos) != 2 || client.lastPage != 3 || client.lastPer != 25 {
		t.Fatalf("unexpected fetch: photos=%d page=%d per=%d", len(photos), client.lastPage, client.lastPer)
	}
	if len(repo.fetches) != 1 || repo.fetches[0].ItemCount != 2 || repo.fetches[0].Error != "" {
		t.Fatalf("unexpected fetch log: %+v", repo.fetches)
	}
	if !strings.Contains(buf.String(), "photo page fetched") {
		t.Fatalf("expected info log, got %q", buf.String())
	}
}

func TestService_FetchPage_RecordsAndWrapsFailure(t *testing.T) {
	client := &fakeClient{err: unsplash.ErrUnauthorized}
	repo := &fakeRepo{}
	svc := NewService(client, repo, zerolog.Nop())

	_, err := svc.FetchPage(context.Background(), 1, 25)
	if !errors.Is(err, unsplash.ErrUnauthorized) {
		t.Fatalf("expected wrapped ErrUnauthorized, got %v", err)
	}
	if len(repo.fetches) != 1 || repo.fetches[0].Error == "" {
		t.Fatalf("expected failed fetch to be logged, got %+v", repo.fetches)
	}
}

func TestService_FetchPage_LogWriteFailureIsNotFatal(t *testing.T) {
	client := &fakeClient{photos: []unsplash.Photo{{ID: "a"}}}
	var buf bytes.Buffer
	svc := NewService(client, &fakeRepo{saveErr: errors.New("disk full")}, zerolog.New(&buf))

	photos, err := svc.FetchPage(context.Background(), 1, 25)
	if err != nil || len(photos) != 1 {
		t.Fatalf("expected fetch to succeed, got photos=%d err=%v", len(photos), err)
	}
	if !strings.Contains(buf.String(), "could not record fetch") {
		t.Fatalf("expected error log, got %q", buf.String())
	}
}

func TestService_Preferences(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(&fakeClient{}, repo, zerolog.Nop())
	defaults := UIPreferences{Columns: 3, ShowCaptions: true}

	prefs, err := svc.LoadUIPreferences(context.Background(), defaults)
	if err != nil || prefs != defaults {
		t.Fatalf("expected defaults, got %+v err=%v", prefs, err)
	}
	want := UIPreferences{Columns: 4}
	if err := svc.SaveUIPreferences(context.Background(), want); err != nil {
		t.Fatalf("SaveUIPreferences returned error: %v", err)
	}
	prefs, _ = svc.LoadUIPreferences(context.Background(), defaults)
	if prefs != want {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}
}

func TestService_RecentFetches(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("locked")}
	svc := NewService(&fakeClient{}, repo, zerolog.Nop())
	if _, err := svc.RecentFetches(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
