// Package config loads the optional markupboard.yaml settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"MarkupBoard/internal/export"
	"MarkupBoard/internal/gesture"
	"MarkupBoard/internal/state"
	"MarkupBoard/internal/style"
)

// FileName is the config file looked up when no path is given.
const FileName = "markupboard.yaml"

// Config represents the optional markupboard.yaml configuration.
type Config struct {
	Canvas      CanvasConfig      `yaml:"canvas"`
	Shape       ShapeConfig       `yaml:"shape"`
	Interaction InteractionConfig `yaml:"interaction"`
	Bridge      BridgeConfig      `yaml:"bridge"`
	Export      ExportConfig      `yaml:"export"`
}

// CanvasConfig is the initial canvas size.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ShapeConfig is how new entities look.
type ShapeConfig struct {
	BorderColor       string  `yaml:"borderColor"`
	BorderStyle       string  `yaml:"borderStyle"`
	BorderStrokeWidth float64 `yaml:"borderStrokeWidth"`
	Color             string  `yaml:"color"`
	StrokeWidth       float64 `yaml:"strokeWidth"`
}

// InteractionConfig tunes gestures.
type InteractionConfig struct {
	DeselectDelay      string  `yaml:"deselectDelay"`
	TouchSlop          float64 `yaml:"touchSlop"`
	MeasureTouchRadius float64 `yaml:"measureTouchRadius"`
}

// BridgeConfig controls the websocket host bridge.
type BridgeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"`
	Path      string `yaml:"path"`
}

// ExportConfig is where saved images go.
type ExportConfig struct {
	Folder string `yaml:"folder"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 1024, Height: 768},
		Shape: ShapeConfig{
			BorderColor:       style.FormatColor(style.Blue),
			BorderStyle:       style.Dashed.String(),
			BorderStrokeWidth: 1,
			Color:             style.FormatColor(style.Black),
			StrokeWidth:       5,
		},
		Interaction: InteractionConfig{
			DeselectDelay:      state.DefaultDeselectDelay.String(),
			TouchSlop:          gesture.DefaultTouchSlop,
			MeasureTouchRadius: 50,
		},
		Bridge: BridgeConfig{
			Enabled:   true,
			Port:      8888,
			Advertise: true,
			Path:      "/ws",
		},
		Export: ExportConfig{
			Folder: "exports",
			Format: "png",
		},
	}
}

// Load reads the config at path. An empty path or a missing file yields
// the defaults; fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := style.ParseColor(c.Shape.BorderColor); err != nil {
		return fmt.Errorf("shape.borderColor: %w", err)
	}
	if _, err := style.ParseColor(c.Shape.Color); err != nil {
		return fmt.Errorf("shape.color: %w", err)
	}
	if _, err := time.ParseDuration(c.Interaction.DeselectDelay); err != nil {
		return fmt.Errorf("interaction.deselectDelay: %w", err)
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.Bridge.Port < 0 || c.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port %d out of range", c.Bridge.Port)
	}
	return nil
}

// BoardOptions converts the config into board options.
func (c *Config) BoardOptions() (state.Options, error) {
	opts := state.DefaultOptions()
	opts.Width, opts.Height = c.Canvas.Width, c.Canvas.Height

	border, err := style.ParseColor(c.Shape.BorderColor)
	if err != nil {
		return opts, err
	}
	paint, err := style.ParseColor(c.Shape.Color)
	if err != nil {
		return opts, err
	}
	delay, err := time.ParseDuration(c.Interaction.DeselectDelay)
	if err != nil {
		return opts, err
	}

	opts.Border = style.Border{
		Color: border,
		Style: style.ParseBorderStyle(c.Shape.BorderStyle),
		Width: c.Shape.BorderStrokeWidth,
	}
	opts.Paint = style.NewPaint(paint, c.Shape.StrokeWidth)
	opts.DeselectDelay = delay
	opts.MeasureTouchRadius = c.Interaction.MeasureTouchRadius
	opts.Gesture.TouchSlop = c.Interaction.TouchSlop
	return opts, nil
}
