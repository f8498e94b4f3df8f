// Package config loads the visualizer configuration from YAML and
// validates it. Everything has a sensible default; an absent file
// yields the stock configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cantopo/pkg/device"
	"github.com/dd0wney/cantopo/pkg/topology"
)

var validate = validator.New()

// Config is the full visualizer configuration.
type Config struct {
	Canvas  CanvasConfig  `yaml:"canvas"`
	View    ViewConfig    `yaml:"view"`
	Colors  ColorConfig   `yaml:"colors"`
	Feed    FeedConfig    `yaml:"feed"`
	History HistoryConfig `yaml:"history"`
}

// CanvasConfig fixes the logical drawing surface. Responsive
// resizing is not part of the visualizer's contract.
type CanvasConfig struct {
	Width      float64 `yaml:"width" validate:"gt=0"`
	Height     float64 `yaml:"height" validate:"gt=0"`
	NodeRadius float64 `yaml:"node_radius" validate:"gt=0"`
}

// ViewConfig bounds the transform and the render cadence.
type ViewConfig struct {
	MinScale         float64 `yaml:"min_scale" validate:"gt=0"`
	MaxScale         float64 `yaml:"max_scale" validate:"gt=0,gtefield=MinScale"`
	ZoomStep         float64 `yaml:"zoom_step" validate:"gt=1"`
	FreshnessSeconds int     `yaml:"freshness_seconds" validate:"gt=0"`
	FPS              int     `yaml:"fps" validate:"gte=1,lte=60"`
}

// ColorConfig overrides the stock palette. Empty maps keep defaults.
type ColorConfig struct {
	Fills        map[string]string `yaml:"fills"`
	FillFallback string            `yaml:"fill_fallback"`
	Accents      map[string]string `yaml:"accents"`
}

// FeedConfig selects the snapshot source. With a dial address the
// visualizer subscribes to a publisher; otherwise it polls the
// built-in simulator.
type FeedConfig struct {
	DialAddr     string `yaml:"dial_addr"`
	ListenAddr   string `yaml:"listen_addr"`
	PollInterval int    `yaml:"poll_interval_seconds" validate:"gte=1"`
}

// HistoryConfig enables the snapshot archive when a DSN is set.
type HistoryConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// Default returns the stock configuration: an 800x600 canvas,
// 0.3-3.0 zoom range with a 1.2 step, 300 s freshness window.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      800,
			Height:     600,
			NodeRadius: topology.DefaultNodeRadius,
		},
		View: ViewConfig{
			MinScale:         topology.DefaultMinScale,
			MaxScale:         topology.DefaultMaxScale,
			ZoomStep:         topology.DefaultZoomStep,
			FreshnessSeconds: int(topology.DefaultFreshnessWindow / time.Second),
			FPS:              30,
		},
		Feed: FeedConfig{
			ListenAddr:   "tcp://127.0.0.1:40899",
			PollInterval: 15,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing path
// ("" or nonexistent file) returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("config field %s: failed %s validation", e.Namespace(), e.Tag())
		}
		return err
	}
	return nil
}

// LayoutConfig builds the layout engine config.
func (c Config) LayoutConfig() *topology.LayoutConfig {
	return &topology.LayoutConfig{
		Width:      c.Canvas.Width,
		Height:     c.Canvas.Height,
		NodeRadius: c.Canvas.NodeRadius,
	}
}

// Transform builds the view transform with the configured bounds.
func (c Config) Transform() *topology.Transform {
	return topology.NewTransform(c.View.MinScale, c.View.MaxScale, c.View.ZoomStep)
}

// Palette builds the color palette, overlaying configured entries on
// the defaults.
func (c Config) Palette() *topology.Palette {
	p := topology.DefaultPalette()
	for k, v := range c.Colors.Fills {
		p.Fills[k] = v
	}
	if c.Colors.FillFallback != "" {
		p.FillFallback = c.Colors.FillFallback
	}
	for k, v := range c.Colors.Accents {
		p.Accents[device.Protocol(k)] = v
	}
	return p
}

// StatusRules builds the status derivation rules.
func (c Config) StatusRules() *topology.StatusRules {
	r := topology.DefaultStatusRules()
	r.FreshnessWindow = time.Duration(c.View.FreshnessSeconds) * time.Second
	return r
}

// FrameInterval returns the render loop tick interval.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.View.FPS)
}

// PollInterval returns the snapshot poll interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Feed.PollInterval) * time.Second
}
