package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL   = "https://api.unsplash.com"
	defaultDBPath       = "gallery.db"
	defaultLogFile      = "gallery.log"
	defaultLogLevel     = "info"
	defaultPerPage      = 25
	defaultColumns      = 3
	defaultFetchTimeout = 10 * time.Second

	maxPerPage = 30
	maxColumns = 6
)

// Config holds runtime settings for the gallery.
type Config struct {
	AccessKey    string
	APIBaseURL   string
	DBPath       string
	PerPage      int
	Columns      int
	FetchTimeout time.Duration
	LogLevel     string
	LogFile      string
	InlineImages bool
}

// LoadFromEnv reads settings from the environment. Values from a .env file in
// the working directory are loaded first and never override variables that
// are already set.
func LoadFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AccessKey:    strings.TrimSpace(os.Getenv("UNSPLASH_ACCESS_KEY")),
		APIBaseURL:   os.Getenv("UNSPLASH_API_BASE_URL"),
		DBPath:       os.Getenv("GALLERY_DB_PATH"),
		LogLevel:     strings.ToLower(strings.TrimSpace(os.Getenv("GALLERY_LOG_LEVEL"))),
		LogFile:      os.Getenv("GALLERY_LOG_FILE"),
		PerPage:      defaultPerPage,
		Columns:      defaultColumns,
		FetchTimeout: defaultFetchTimeout,
		InlineImages: true,
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	var err error
	if cfg.PerPage, err = intFromEnv("GALLERY_PER_PAGE", cfg.PerPage); err != nil {
		return Config{}, err
	}
	if cfg.Columns, err = intFromEnv("GALLERY_COLUMNS", cfg.Columns); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("GALLERY_FETCH_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("GALLERY_FETCH_TIMEOUT must be a duration: %w", err)
		}
		cfg.FetchTimeout = d
	}
	if raw := strings.TrimSpace(os.Getenv("GALLERY_INLINE_IMAGES")); raw != "" {
		cfg.InlineImages = raw != "0" && !strings.EqualFold(raw, "false")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.AccessKey == "" {
		return errors.New("UNSPLASH_ACCESS_KEY is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.PerPage < 1 || c.PerPage > maxPerPage {
		return fmt.Errorf("PerPage must be between 1 and %d: %d", maxPerPage, c.PerPage)
	}
	if c.Columns < 1 || c.Columns > maxColumns {
		return fmt.Errorf("Columns must be between 1 and %d: %d", maxColumns, c.Columns)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FetchTimeout must be positive: %s", c.FetchTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	return nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, raw)
	}
	return n, nil
}
