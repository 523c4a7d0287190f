// Package config loads mask-mcp settings from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/mask-studio-mcp/internal/imaging"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath = "MASK_MCP_CONFIG"
	EnvLogLevel   = "MASK_MCP_LOG_LEVEL"
)

// Log levels.
const (
	LevelInfo  = "info"
	LevelDebug = "debug"
)

// Config is the complete server configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Brush    BrushConfig   `yaml:"brush"`
	Mask     MaskConfig    `yaml:"mask"`
	OCR      OCRConfig     `yaml:"ocr"`
	Preview  PreviewConfig `yaml:"preview"`
}

// BrushConfig sets the brush a new editor session starts with.
type BrushConfig struct {
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
}

// MaskConfig tunes mask resolution.
type MaskConfig struct {
	// ScanStride is the pixel step used when scanning the paint layer for
	// its opaque bounding box.
	ScanStride int `yaml:"scan_stride"`
}

// OCRConfig tunes text-region detection.
type OCRConfig struct {
	Language      string  `yaml:"language"`
	MinConfidence float64 `yaml:"min_confidence"`
}

// PreviewConfig bounds the zone preview images.
type PreviewConfig struct {
	MaxSize int `yaml:"max_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: LevelInfo,
		Brush:    BrushConfig{Size: 30, Color: "#ff0000"},
		Mask:     MaskConfig{ScanStride: 5},
		OCR:      OCRConfig{Language: "eng", MinConfidence: 30},
		Preview:  PreviewConfig{MaxSize: 512},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates the result. An empty path falls back
// to MASK_MCP_CONFIG; if that is unset too only defaults and environment
// apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case LevelInfo, LevelDebug:
	default:
		errs = append(errs, fmt.Errorf("log_level must be %q or %q, got %q", LevelInfo, LevelDebug, c.LogLevel))
	}
	if c.Brush.Size <= 0 {
		errs = append(errs, fmt.Errorf("brush.size must be positive, got %v", c.Brush.Size))
	}
	if c.Brush.Color == "" {
		errs = append(errs, errors.New("brush.color is required"))
	} else if _, err := imaging.ParseColor(c.Brush.Color); err != nil {
		errs = append(errs, fmt.Errorf("brush.color: %w", err))
	}
	if c.Mask.ScanStride < 1 {
		errs = append(errs, fmt.Errorf("mask.scan_stride must be at least 1, got %d", c.Mask.ScanStride))
	}
	if c.OCR.Language == "" {
		errs = append(errs, errors.New("ocr.language is required"))
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf("ocr.min_confidence must be between 0 and 100, got %v", c.OCR.MinConfidence))
	}
	if c.Preview.MaxSize < 16 {
		errs = append(errs, fmt.Errorf("preview.max_size must be at least 16, got %d", c.Preview.MaxSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool { return c.LogLevel == LevelDebug }
