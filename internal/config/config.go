package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvInput       = "EDGE_RELAY_INPUT"
	EnvDestination = "EDGE_RELAY_DESTINATION"
	EnvJPEGQuality = "EDGE_RELAY_JPEG_QUALITY"
	EnvLogLevel    = "EDGE_RELAY_LOG_LEVEL"
	EnvLogFormat   = "EDGE_RELAY_LOG_FORMAT"
)

// Config is the full configuration of a run.
type Config struct {
	Input       string   `yaml:"input"`
	Destination string   `yaml:"destination"`
	JPEGQuality int      `yaml:"jpeg_quality"`
	Pipeline    Pipeline `yaml:"pipeline"`
	Log         Log      `yaml:"log"`
}

// Pipeline holds the transform parameters.
type Pipeline struct {
	BlurKernel    int     `yaml:"blur_kernel"`
	CannyLow      float64 `yaml:"canny_low"`
	CannyHigh     float64 `yaml:"canny_high"`
	CannyAperture int     `yaml:"canny_aperture"`
	CannyL2       bool    `yaml:"canny_l2"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`

	// RotateDegrees and RotateScale add a rotation after the resize when the
	// angle is non-zero or the scale differs from 1.
	RotateDegrees float64 `yaml:"rotate_degrees"`
	RotateScale   float64 `yaml:"rotate_scale"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the fixed pipeline settings.
func Default() *Config {
	return &Config{
		Input:       "sample.jpg",
		Destination: "127.0.0.1:8080",
		JPEGQuality: 95,
		Pipeline: Pipeline{
			BlurKernel:    5,
			CannyLow:      50,
			CannyHigh:     150,
			CannyAperture: 3,
			CannyL2:       false,
			Width:         224,
			Height:        224,
			RotateDegrees: 0,
			RotateScale:   1,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped when
// path is empty), a .env file in the working directory if one exists, and the
// EDGE_RELAY_* environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// A missing .env is normal; the process environment is used as is.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvInput); v != "" {
		c.Input = v
	}
	if v := os.Getenv(EnvDestination); v != "" {
		c.Destination = v
	}
	if v := os.Getenv(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvJPEGQuality, v, err)
		}
		c.JPEGQuality = q
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	p := c.Pipeline
	switch {
	case c.Input == "":
		return errors.New("input path is required")
	case c.Destination == "":
		return errors.New("destination address is required")
	case c.JPEGQuality < 1 || c.JPEGQuality > 100:
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	case p.BlurKernel <= 0 || p.BlurKernel%2 == 0:
		return fmt.Errorf("blur_kernel must be odd and positive, got %d", p.BlurKernel)
	case p.CannyLow < 0 || p.CannyHigh < 0:
		return fmt.Errorf("canny thresholds must be non-negative, got %g/%g", p.CannyLow, p.CannyHigh)
	case p.CannyAperture != 3 && p.CannyAperture != 5 && p.CannyAperture != 7:
		return fmt.Errorf("canny_aperture must be 3, 5 or 7, got %d", p.CannyAperture)
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("target size must be positive, got %dx%d", p.Width, p.Height)
	case p.RotateScale <= 0:
		return fmt.Errorf("rotate_scale must be positive, got %g", p.RotateScale)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// RotateEnabled reports whether the optional rotation stage runs.
func (p Pipeline) RotateEnabled() bool {
	return p.RotateDegrees != 0 || p.RotateScale != 1
}
