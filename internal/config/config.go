// Package config loads server configuration from an optional JSON file with
// environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the analysis server.
type Config struct {
	// MaxDimension bounds the longer edge of analyzable artifacts in pixels.
	MaxDimension int `json:"max_dimension"`

	// TempDir hosts derived artifacts. Empty selects the system temp dir.
	TempDir string `json:"temp_dir"`

	// OCRLanguage is the Tesseract language code.
	OCRLanguage string `json:"ocr_language"`

	// MaxObjectResults bounds object/scene entries in text reports.
	MaxObjectResults int `json:"max_object_results"`

	// FaceCascadePath is the Haar cascade file for gocv builds.
	FaceCascadePath string `json:"face_cascade_path"`

	// LogLevel is a logrus level name ("debug", "info", ...).
	LogLevel string `json:"log_level"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		MaxDimension:     4096,
		OCRLanguage:      "eng",
		MaxObjectResults: 10,
		LogLevel:         "info",
	}
}

// Path returns the default configuration file location.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "vision-mcp", "config.json")
}

// Load builds the effective configuration: defaults, then the JSON file at
// Path if present, then VISION_MCP_* environment overrides. A .env file in
// the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if data, err := os.ReadFile(Path()); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("VISION_MCP_MAX_DIMENSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDimension = n
		}
	}
	if v := os.Getenv("VISION_MCP_TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv("VISION_MCP_OCR_LANGUAGE"); v != "" {
		c.OCRLanguage = v
	}
	if v := os.Getenv("VISION_MCP_FACE_CASCADE"); v != "" {
		c.FaceCascadePath = v
	}
	if v := os.Getenv("VISION_MCP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.MaxDimension < 1 {
		return fmt.Errorf("max_dimension must be positive")
	}
	if c.MaxObjectResults < 1 {
		return fmt.Errorf("max_object_results must be positive")
	}
	if c.OCRLanguage == "" {
		return fmt.Errorf("ocr_language cannot be empty")
	}
	return nil
}
