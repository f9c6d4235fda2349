package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/paintbox/paintbox/internal/editor"
	"github.com/paintbox/paintbox/pkg/palette"
	"github.com/paintbox/paintbox/pkg/stroke"
)

// config mirrors ~/.config/paintbox/config.toml. Every field has a
// working default so the file is optional.
type config struct {
	Canvas   canvasConfig   `toml:"canvas"`
	Color    colorConfig    `toml:"color"`
	Pen      penConfig      `toml:"pen"`
	History  historyConfig  `toml:"history"`
	Onion    onionConfig    `toml:"onion"`
	Export   exportConfig   `toml:"export"`
	Autosave autosaveConfig `toml:"autosave"`
}

type canvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type colorConfig struct {
	TrueColor bool   `toml:"truecolor"`
	Palette   string `toml:"palette"` // path to a JSON palette file, empty for built-in
}

type penConfig struct {
	Shape          string  `toml:"shape"` // "circular" or "square"
	Size           int     `toml:"size"`
	Opacity        float64 `toml:"opacity"`
	SprayIntensity float64 `toml:"spray_intensity"`
	SprayRadius    int     `toml:"spray_radius"`
	ShadeFactor    float64 `toml:"shade_factor"`
	Protect        bool    `toml:"protect"` // one blend per pixel per stroke
}

type historyConfig struct {
	Depth int `toml:"depth"`
}

type onionConfig struct {
	Opacity float64 `toml:"opacity"`
}

type exportConfig struct {
	Scale int `toml:"scale"`
}

type autosaveConfig struct {
	Seconds int `toml:"seconds"` // 0 disables autosave
}

// defaultConfig returns the settings used when no config file exists.
func defaultConfig() config {
	return config{
		Canvas:   canvasConfig{Width: 30, Height: 30},
		Color:    colorConfig{TrueColor: true},
		Pen:      penConfig{Shape: "circular", Size: 1, Opacity: 1.0, SprayIntensity: 0.3, SprayRadius: 5, ShadeFactor: 0.1, Protect: true},
		History:  historyConfig{Depth: 200},
		Onion:    onionConfig{Opacity: 0.3},
		Export:   exportConfig{Scale: defaultExportScale},
		Autosave: autosaveConfig{Seconds: 60},
	}
}

// loadConfig reads the user config file, falling back to defaults when the
// file does not exist. A malformed file is an error, not a silent fallback.
func loadConfig() (config, error) {
	cfg := defaultConfig()
	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// editorConfig converts the file config into an editor session config,
// loading the configured palette file when one is set.
func (cfg config) editorConfig() (editor.Config, error) {
	ec := editor.Config{
		Width:          cfg.Canvas.Width,
		Height:         cfg.Canvas.Height,
		TrueColor:      cfg.Color.TrueColor,
		HistoryDepth:   cfg.History.Depth,
		OnionOpacity:   cfg.Onion.Opacity,
		Autosave:       time.Duration(cfg.Autosave.Seconds) * time.Second,
		Palette:        palette.Default(),
		PenSize:        cfg.Pen.Size,
		PenOpacity:     cfg.Pen.Opacity,
		SprayIntensity: cfg.Pen.SprayIntensity,
		SprayRadius:    cfg.Pen.SprayRadius,
		ShadeFactor:    cfg.Pen.ShadeFactor,
		Protect:        cfg.Pen.Protect,
	}
	switch cfg.Pen.Shape {
	case "", "circular":
		ec.PenShape = stroke.ShapeCircular
	case "square":
		ec.PenShape = stroke.ShapeSquare
	default:
		return ec, fmt.Errorf("invalid pen shape: %s (must be 'circular' or 'square')", cfg.Pen.Shape)
	}
	if cfg.Color.Palette != "" {
		p, err := palette.Load(cfg.Color.Palette)
		if err != nil {
			return ec, fmt.Errorf("load palette: %w", err)
		}
		ec.Palette = p
	}
	return ec, nil
}
