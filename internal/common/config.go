package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the framework configuration. It is constructed once at
// startup and passed explicitly to every component constructor - there is no
// implicit global configuration lookup.
type Config struct {
	Storybook StorybookConfig `toml:"storybook"`
	Browser   BrowserConfig   `toml:"browser"`
	Paths     PathsConfig     `toml:"paths"`
	Visual    VisualConfig    `toml:"visual"`
	Logging   LoggingConfig   `toml:"logging"`
}

// StorybookConfig holds connection settings for the Storybook instance under test.
type StorybookConfig struct {
	URL            string `toml:"url" validate:"required,url"`
	TimeoutMS      int    `toml:"timeout_ms" validate:"gt=0"`
	IframeSelector string `toml:"iframe_selector" validate:"required"`
}

// BrowserConfig holds headless browser settings.
type BrowserConfig struct {
	Headless       bool `toml:"headless"`
	ViewportWidth  int  `toml:"viewport_width" validate:"gt=0"`
	ViewportHeight int  `toml:"viewport_height" validate:"gt=0"`
}

// PathsConfig holds directory locations for fixtures and run artifacts.
type PathsConfig struct {
	ComponentsDir  string `toml:"components_dir" validate:"required"`
	ScreenshotsDir string `toml:"screenshots_dir"`
	SnapshotsDir   string `toml:"snapshots_dir"`
	ResultsDir     string `toml:"results_dir"`
}

// VisualConfig holds visual regression settings.
type VisualConfig struct {
	Threshold float64 `toml:"threshold" validate:"gte=0,lte=1"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// DefaultConfig returns the configuration defaults applied before any file
// or environment override.
func DefaultConfig() *Config {
	return &Config{
		Storybook: StorybookConfig{
			URL:            "http://localhost:6006",
			TimeoutMS:      10000,
			IframeSelector: "iframe",
		},
		Browser: BrowserConfig{
			Headless:       true,
			ViewportWidth:  1920,
			ViewportHeight: 1080,
		},
		Paths: PathsConfig{
			ComponentsDir:  "components",
			ScreenshotsDir: "reports/screenshots",
			SnapshotsDir:   "snapshots",
			ResultsDir:     "reports/results",
		},
		Visual: VisualConfig{
			Threshold: 0.2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadConfig loads configuration with precedence: defaults -> TOML file ->
// environment variables. path may be empty, in which case commonui.toml is
// used when present and defaults apply otherwise.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		if _, err := os.Stat("commonui.toml"); err == nil {
			path = "commonui.toml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take precedence over file values.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("STORYBOOK_URL"); v != "" {
		config.Storybook.URL = v
	}
	if v := os.Getenv("STORYBOOK_TIMEOUT"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			config.Storybook.TimeoutMS = ms
		}
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		config.Browser.Headless = parseBoolish(v)
	}
	if v := os.Getenv("VIEWPORT_WIDTH"); v != "" {
		if w, err := strconv.Atoi(v); err == nil {
			config.Browser.ViewportWidth = w
		}
	}
	if v := os.Getenv("VIEWPORT_HEIGHT"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			config.Browser.ViewportHeight = h
		}
	}
	if v := os.Getenv("COMPONENTS_DIR"); v != "" {
		config.Paths.ComponentsDir = v
	}
	if v := os.Getenv("VISUAL_THRESHOLD"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			config.Visual.Threshold = t
		}
	}
}

func parseBoolish(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
