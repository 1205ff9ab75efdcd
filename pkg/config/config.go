// Package config loads the cataloguer's settings into an explicit struct.
// A local .env is read first (without overwriting real environment
// variables), then everything comes from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultSimilarityMin  = 0.9
	defaultGeocodeTimeout = 10 * time.Second
)

// Config is passed into the pipeline and the API server instead of ambient
// environment reads.
type Config struct {
	// DSN is the Postgres connection string for the sheet table.
	DSN string
	// Email identifies the operator to the geocoding service.
	Email string
	// Downloads is the intake directory scanned for new badge files.
	Downloads string
	// Badges is the long-term storage directory for processed images.
	Badges string
	// LogFile receives one audit entry per processed image.
	LogFile string
	// SimilarityMin is the fuzzy title-match threshold in [0,1].
	SimilarityMin float64
	// GeocodeTimeout bounds the reverse-geocode call.
	GeocodeTimeout time.Duration
	// JWTSecret signs API tokens.
	JWTSecret string
	// ListenAddr is the API bind address.
	ListenAddr string
}

// Load reads ./.env when present, then builds the config. DSN and EMAIL are
// required; everything else has a default.
func Load() (Config, error) {
	_ = godotenv.Load() // absent .env is fine

	cfg := Config{
		DSN:            os.Getenv("DB_DSN"),
		Email:          os.Getenv("EMAIL"),
		Downloads:      os.Getenv("DOWNLOADS"),
		Badges:         os.Getenv("BADGES"),
		LogFile:        os.Getenv("LOG_FILE"),
		SimilarityMin:  defaultSimilarityMin,
		GeocodeTimeout: defaultGeocodeTimeout,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ListenAddr:     os.Getenv("LISTEN_ADDR"),
	}
	if cfg.DSN == "" {
		return Config{}, fmt.Errorf("DB_DSN is not set")
	}
	if cfg.Email == "" {
		return Config{}, fmt.Errorf("EMAIL is not set (required by the geocoder's terms of use)")
	}
	if cfg.Downloads == "" {
		cfg.Downloads = filepath.Join(os.Getenv("HOME"), "Downloads")
	}
	if cfg.Badges == "" {
		cfg.Badges = "badges"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "gym_errors.log"
	}
	if v := os.Getenv("SIMILARITY_MIN"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 1 {
			return Config{}, fmt.Errorf("SIMILARITY_MIN must be in (0,1]: %q", v)
		}
		cfg.SimilarityMin = f
	}
	if v := os.Getenv("GEOCODE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("GEOCODE_TIMEOUT: %w", err)
		}
		cfg.GeocodeTimeout = d
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8081"
	}
	return cfg, nil
}
