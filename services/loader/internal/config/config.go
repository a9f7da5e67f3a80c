package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
	defaultWindow         = 14 * 24 * time.Hour
)

// Config holds runtime configuration for the loader job.
type Config struct {
	APIURL         string
	APIKey         string
	DatabaseURL    string
	RequestTimeout time.Duration
	RunTimeout     time.Duration
	Window         time.Duration
	Coordinates    []models.Coordinate
	DryRun         bool
	Debug          bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function. Load passes
// os.Getenv; tests pass a map.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	cfg.APIURL = strings.TrimSpace(getenv("API_URL"))
	if cfg.APIURL == "" {
		return cfg, errors.New("API_URL is required")
	}

	cfg.APIKey = strings.TrimSpace(getenv("API_KEY"))
	if cfg.APIKey == "" {
		return cfg, errors.New("API_KEY is required")
	}

	dryRun := strings.TrimSpace(getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	debug := strings.TrimSpace(getenv("LOG_DEBUG"))
	cfg.Debug = debug == "1" || strings.EqualFold(debug, "true")

	cfg.DatabaseURL = strings.TrimSpace(getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		return cfg, errors.New("DATABASE_URL is required")
	}

	var err error
	if cfg.RequestTimeout, err = durationEnv(getenv, "LOADER_REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return cfg, err
	}
	if cfg.RunTimeout, err = durationEnv(getenv, "LOADER_RUN_TIMEOUT", defaultRunTimeout); err != nil {
		return cfg, err
	}
	if cfg.Window, err = durationEnv(getenv, "LOADER_WINDOW", defaultWindow); err != nil {
		return cfg, err
	}

	cfg.Coordinates, err = loadCoordinates(getenv)
	if err != nil {
		return cfg, err
	}

	return cfg, nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
