// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Model   ModelConfig   `yaml:"model"`
	Glass   GlassConfig   `yaml:"glass"`
	Tint    TintConfig    `yaml:"tint"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	FPSLimit      int    `yaml:"fps_limit"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	Panel         bool   `yaml:"panel"` // Show the tint control panel
}

// ModelConfig selects the model shown at startup.
type ModelConfig struct {
	Path        string        `yaml:"path"` // Empty means the placeholder car
	Watch       bool          `yaml:"watch"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

// GlassConfig tunes pane detection and classification.
type GlassConfig struct {
	MinRealPanes int      `yaml:"min_real_panes"`
	DepthAxis    string   `yaml:"depth_axis"`   // Axis pointing to the front
	LateralAxis  string   `yaml:"lateral_axis"` // Axis pointing to the right
	Keywords     []string `yaml:"keywords"`     // Extra name keywords
}

// TintConfig holds the initial tint state as a URL query.
type TintConfig struct {
	State string `yaml:"state"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			FPSLimit:      0,
			ScreenshotDir: "screenshots",
			Panel:         true,
		},
		Model: ModelConfig{
			Path:        "",
			Watch:       false,
			LoadTimeout: 30 * time.Second,
		},
		Glass: GlassConfig{
			MinRealPanes: 3,
			DepthAxis:    "z",
			LateralAxis:  "x",
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}
