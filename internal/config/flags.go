package config

import (
	"flag"
	"strings"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagModel      = flag.String("model", "", "Path to a .gltf or .glb model")
	flagWatch      = flag.Bool("watch", false, "Reload the model when the file changes")
	flagState      = flag.String("state", "", "Initial tint state as a URL query")
	flagAxes       = flag.String("axes", "", "Depth and lateral axes, e.g. z,x")
	flagKeywords   = flag.String("keywords", "", "Extra comma-separated glass keywords")
	flagMinPanes   = flag.Int("min-panes", 0, "Real panes needed before proxies are used")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagKeys       = flag.Bool("keys", false, "Keyboard-only window without the control panel")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if *flagWatch {
		cfg.Model.Watch = true
	}
	if *flagState != "" {
		cfg.Tint.State = *flagState
	}
	if *flagAxes != "" {
		depth, lateral, _ := strings.Cut(*flagAxes, ",")
		cfg.Glass.DepthAxis = strings.TrimSpace(depth)
		cfg.Glass.LateralAxis = strings.TrimSpace(lateral)
	}
	if *flagKeywords != "" {
		for _, kw := range strings.Split(*flagKeywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				cfg.Glass.Keywords = append(cfg.Glass.Keywords, kw)
			}
		}
	}
	if *flagMinPanes > 0 {
		cfg.Glass.MinRealPanes = *flagMinPanes
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagKeys {
		cfg.Window.Panel = false
	}
}
