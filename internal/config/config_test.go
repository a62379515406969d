package config

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxDimension != 4096 {
		t.Errorf("MaxDimension = %d", cfg.MaxDimension)
	}
	if cfg.OCRLanguage != "eng" {
		t.Errorf("OCRLanguage = %q", cfg.OCRLanguage)
	}
	if cfg.MaxObjectResults != 10 {
		t.Errorf("MaxObjectResults = %d", cfg.MaxObjectResults)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VISION_MCP_MAX_DIMENSION", "2048")
	t.Setenv("VISION_MCP_OCR_LANGUAGE", "deu")
	t.Setenv("VISION_MCP_TEMP_DIR", "/var/tmp/vision")
	t.Setenv("VISION_MCP_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.applyEnv()

	if cfg.MaxDimension != 2048 {
		t.Errorf("MaxDimension = %d", cfg.MaxDimension)
	}
	if cfg.OCRLanguage != "deu" {
		t.Errorf("OCRLanguage = %q", cfg.OCRLanguage)
	}
	if cfg.TempDir != "/var/tmp/vision" {
		t.Errorf("TempDir = %q", cfg.TempDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestApplyEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("VISION_MCP_MAX_DIMENSION", "huge")

	cfg := Default()
	cfg.applyEnv()

	if cfg.MaxDimension != 4096 {
		t.Errorf("malformed override changed MaxDimension to %d", cfg.MaxDimension)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero max dimension", func(c *Config) { c.MaxDimension = 0 }, "max_dimension"},
		{"zero object cap", func(c *Config) { c.MaxObjectResults = 0 }, "max_object_results"},
		{"empty language", func(c *Config) { c.OCRLanguage = "" }, "ocr_language"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestPathNotEmpty(t *testing.T) {
	if Path() == "" {
		t.Error("Path returned empty string")
	}
}
