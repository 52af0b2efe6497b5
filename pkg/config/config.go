// Package config loads the editor configuration (.otl/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// Config is the on-disk configuration.
type Config struct {
	Canvas    Canvas    `yaml:"canvas"`
	Render    Render    `yaml:"render"`
	Namespace Namespace `yaml:"namespace"`
	UI        UI        `yaml:"ui"`

	// Catalog is an optional YAML element catalog merged over the
	// built-in one. Relative paths are resolved against the config file.
	Catalog string `yaml:"catalog,omitempty"`
}

// Canvas tunes gesture recognition and feedback.
type Canvas struct {
	// DragThreshold is the pointer travel in device pixels that turns a
	// press into a drag.
	DragThreshold float32 `yaml:"drag_threshold"`
	// HandleRadius is the half size of resize handles in device pixels.
	HandleRadius float32 `yaml:"handle_radius"`
	// Margin around the rendered image in device pixels.
	Margin float64 `yaml:"margin"`
	// ExplodePadding is the minimum size given to empty layouts.
	ExplodePadding int `yaml:"explode_padding"`
	// ShowEmptyLayouts pads every zero-size container.
	ShowEmptyLayouts bool `yaml:"show_empty_layouts"`
	// DedupeStatus only forwards status messages that changed.
	DedupeStatus bool `yaml:"dedupe_status"`
	// AsyncRender renders on a worker goroutine.
	AsyncRender bool `yaml:"async_render"`
	Zoom        float64 `yaml:"zoom"`
}

// Render holds the screen size hint passed to the renderer.
type Render struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Namespace is the declaration stamped on newly created roots.
type Namespace struct {
	Prefix string `yaml:"prefix"`
	URI    string `yaml:"uri"`
}

// UI configures the viewer window.
type UI struct {
	Dark   bool `yaml:"dark"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{
			DragThreshold:  4,
			HandleRadius:   3,
			Margin:         20,
			ExplodePadding: 8,
			DedupeStatus:   true,
			Zoom:           1,
		},
		Render:    Render{Width: 320, Height: 480},
		Namespace: Namespace{Prefix: document.AndroidPrefix, URI: document.AndroidURI},
		UI:        UI{Dark: true, Width: 1200, Height: 800},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Canvas.DragThreshold < 0 {
		return fmt.Errorf("canvas.drag_threshold must not be negative")
	}
	if c.Canvas.HandleRadius <= 0 {
		return fmt.Errorf("canvas.handle_radius must be positive")
	}
	if c.Canvas.ExplodePadding < 0 {
		return fmt.Errorf("canvas.explode_padding must not be negative")
	}
	if c.Canvas.Zoom <= 0 {
		return fmt.Errorf("canvas.zoom must be positive")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size %dx%d is not positive", c.Render.Width, c.Render.Height)
	}
	if c.Namespace.Prefix == "" || c.Namespace.URI == "" {
		return fmt.Errorf("namespace prefix and uri are required")
	}
	return nil
}

// Parse decodes YAML over the defaults, so missing keys keep their
// default values.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// LoadConfig loads a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if config.Catalog != "" && !filepath.IsAbs(config.Catalog) {
		config.Catalog = filepath.Join(filepath.Dir(path), "..", config.Catalog)
	}
	return config, nil
}

// FindConfig searches for .otl/config.yaml starting from dir and walking
// up, then falls back to $HOME/.config/otl/config.yaml.
func FindConfig(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	for {
		candidate := filepath.Join(dir, ".otl", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".config", "otl", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

// Load resolves the configuration: an explicit path wins, otherwise the
// discovered file, otherwise the defaults.
func Load(explicit string) (*Config, string, error) {
	if explicit != "" {
		c, err := LoadConfig(explicit)
		return c, explicit, err
	}
	path, err := FindConfig("")
	if err != nil {
		c := Default()
		return &c, "", nil
	}
	c, err := LoadConfig(path)
	return c, path, err
}
