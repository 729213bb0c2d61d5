// Package config loads server settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/reconcile"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds server settings. StaticPath, when set, is a directory served
// at "/" next to the RPC routes.
type Config struct {
	Addr       string `yaml:"addr"`
	DBPath     string `yaml:"db_path"`
	StaticPath string `yaml:"static_path"`
	CORSOrigin string `yaml:"cors_origin"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`

	OCR       OCRConfig       `yaml:"ocr"`
	Session   SessionConfig   `yaml:"session"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
}

type OCRConfig struct {
	// Enabled turns on the ScanImage RPC. It requires tesseract at runtime.
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
	Mode     int    `yaml:"mode"`
}

type SessionConfig struct {
	// IdleTimeout ends sessions that see no RPC for this long. Zero keeps
	// them until EndSession.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// SweepInterval is how often idle sessions are looked for.
func (s SessionConfig) SweepInterval() time.Duration {
	return max(s.IdleTimeout/4, time.Second)
}

type ReconcileConfig struct {
	Epsilon float64 `yaml:"epsilon"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Addr:       ":8080",
		DBPath:     "./data/billscan.db",
		CORSOrigin: "*",
		LogLevel:   "info",
		LogFormat:  "text",
		OCR: OCRConfig{
			Language: "eng",
			Mode:     int(ocr.DefaultMode),
		},
		Session:   SessionConfig{IdleTimeout: 2 * time.Hour},
		Reconcile: ReconcileConfig{Epsilon: reconcile.DefaultEpsilon},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (c *Config) applyEnv() error {
	c.Addr = getEnv("BILLSCAN_ADDR", c.Addr)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.StaticPath = getEnv("STATIC_PATH", c.StaticPath)
	c.CORSOrigin = getEnv("CORS_ORIGIN", c.CORSOrigin)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.OCR.Language = getEnv("OCR_LANGUAGE", c.OCR.Language)

	if v := os.Getenv("OCR_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: OCR_ENABLED=%q", ErrInvalidConfig, v)
		}
		c.OCR.Enabled = b
	}
	if v := os.Getenv("SESSION_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: SESSION_IDLE_TIMEOUT=%q", ErrInvalidConfig, v)
		}
		c.Session.IdleTimeout = d
	}
	if v := os.Getenv("RECONCILE_EPSILON"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: RECONCILE_EPSILON=%q", ErrInvalidConfig, v)
		}
		c.Reconcile.Epsilon = f
	}
	return nil
}

// Validate checks every field and names the first offending key.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path is required", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := ocr.ParseMode(c.OCR.Mode); err != nil {
		return fmt.Errorf("%w: ocr.mode: %v", ErrInvalidConfig, err)
	}
	if c.Session.IdleTimeout < 0 {
		return fmt.Errorf("%w: session.idle_timeout must not be negative", ErrInvalidConfig)
	}
	if c.Reconcile.Epsilon < 0 {
		return fmt.Errorf("%w: reconcile.epsilon must not be negative", ErrInvalidConfig)
	}
	return nil
}
