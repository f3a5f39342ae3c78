package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/gallery-cli/internal/app"
	"github.com/glabrego/gallery-cli/internal/config"
	"github.com/glabrego/gallery-cli/internal/imaging"
	"github.com/glabrego/gallery-cli/internal/logging"
	"github.com/glabrego/gallery-cli/internal/storage"
	"github.com/glabrego/gallery-cli/internal/tui"
	"github.com/glabrego/gallery-cli/internal/unsplash"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, logFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("log setup error: %v", err)
	}
	defer logFile.Close()

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify GALLERY_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := unsplash.NewClient(cfg.APIBaseURL, cfg.AccessKey, nil)
	service := app.NewService(client, repo, logger)

	defaults := app.UIPreferences{
		Columns:      cfg.Columns,
		ShowCaptions: true,
		InlineImages: cfg.InlineImages,
	}
	prefs, err := service.LoadUIPreferences(ctx, defaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load UI preferences (%v), using defaults\n", err)
		logger.Warn().Err(err).Msg("using default ui preferences")
		prefs = defaults
	}

	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := imaging.NewRenderer(nil)
	model := tui.NewModel(root, service, tui.Options{
		PerPage:      cfg.PerPage,
		Columns:      prefs.Columns,
		ShowCaptions: prefs.ShowCaptions,
		InlineImages: prefs.InlineImages,
		FetchTimeout: cfg.FetchTimeout,
		Render:       renderer.Render,
		Logger:       &logger,
	})

	logger.Info().
		Int("per_page", cfg.PerPage).
		Int("columns", prefs.Columns).
		Bool("inline_images", prefs.InlineImages).
		Msg("gallery starting")

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(root))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error().Err(err).Msg("tui exited with error")
		log.Fatalf("tui error: %v", err)
	}
	logger.Info().Msg("gallery stopped")
}
