// Package config loads packmate settings from the environment and an
// optional .env file, and sets up logging.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prefix of every environment variable read by Load.
const Prefix = "PACKMATE"

// Config holds application configuration.
// Environment variables are parsed with the PACKMATE_ prefix.
type Config struct {
	APIURL      string        `envconfig:"API_URL" default:"http://localhost:8000"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`

	// Bag limits used to grade totals. Zero disables grading.
	WeightLimitKg  float64 `envconfig:"WEIGHT_LIMIT_KG" default:"20"`
	VolumeLimitCm3 float64 `envconfig:"VOLUME_LIMIT_CM3" default:"40000"`

	// Identity to start the session with.
	UserID string `envconfig:"USER_ID"`
	TripID string `envconfig:"TRIP_ID"`
}

// Load reads the given .env files (".env" when none are named; missing files
// are ignored) and then the environment. Variables already set in the
// environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("PACKMATE_API_URL is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("PACKMATE_HTTP_TIMEOUT must be > 0, got %s", c.HTTPTimeout)
	}
	if c.WeightLimitKg < 0 || c.VolumeLimitCm3 < 0 {
		return errors.New("bag limits must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Init installs the console logger at the configured level.
func (c *Config) Init() {
	InitLogger()
	level, _ := ParseLevel(c.LogLevel)
	if c.Debug {
		level = zerolog.DebugLevel
	}
	SetLogLevel(level)

	log.Debug().
		Str("api_url", c.APIURL).
		Dur("http_timeout", c.HTTPTimeout).
		Str("log_level", level.String()).
		Msg("configuration loaded")
}
