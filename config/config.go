// Package config reads loader and viewer options from YAML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/tiledmap/collision"
	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/props"
	"github.com/milk9111/tiledmap/tmx"
)

type Options struct {
	Headless      bool             `yaml:"headless"`
	InvertY       bool             `yaml:"invert_y"`
	MaxCells      int              `yaml:"max_cells"`
	SolidProperty string           `yaml:"solid_property"`
	Collision     CollisionOptions `yaml:"collision"`
	Viewer        ViewerOptions    `yaml:"viewer"`
}

type CollisionOptions struct {
	Friction     float64  `yaml:"friction"`
	Bounds       bool     `yaml:"bounds"`
	ObjectLayers []string `yaml:"object_layers"`
}

type ViewerOptions struct {
	Scale      float64 `yaml:"scale"`
	Watch      bool    `yaml:"watch"`
	DebounceMS int     `yaml:"debounce_ms"`
	Background *Color  `yaml:"background"`
}

// Debounce is DebounceMS as a duration.
func (v ViewerOptions) Debounce() time.Duration {
	return time.Duration(v.DebounceMS) * time.Millisecond
}

// Color is a YAML scalar in Tiled notation, #RRGGBB or #AARRGGBB.
type Color struct {
	color.NRGBA
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := props.ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.NRGBA = parsed
	return nil
}

func Default() Options {
	return Options{
		MaxCells:      tmx.DefaultMaxCells,
		SolidProperty: "solid",
		Collision: CollisionOptions{
			Friction: 0.8,
			Bounds:   true,
		},
		Viewer: ViewerOptions{
			Scale:      2,
			Watch:      true,
			DebounceMS: 100,
		},
	}
}

// Load reads options from path over the defaults. A missing file yields the
// defaults.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config: load %s: %w", path, err)
	}
	opts, err := Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Default(), fmt.Errorf("unmarshal: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Default(), err
	}
	return opts, nil
}

func (o Options) Validate() error {
	switch {
	case o.MaxCells <= 0:
		return fmt.Errorf("max_cells must be positive, got %d", o.MaxCells)
	case o.SolidProperty == "":
		return fmt.Errorf("solid_property must not be empty")
	case o.Collision.Friction < 0:
		return fmt.Errorf("collision.friction must not be negative")
	case o.Viewer.Scale <= 0:
		return fmt.Errorf("viewer.scale must be positive, got %v", o.Viewer.Scale)
	case o.Viewer.DebounceMS < 0:
		return fmt.Errorf("viewer.debounce_ms must not be negative")
	}
	return nil
}

// Apply copies the loader settings onto l.
func (o Options) Apply(l *tmx.Loader) {
	l.InvertY = o.InvertY
	l.MaxCells = o.MaxCells
	if o.Headless {
		l.Images = imageload.Headless{}
	}
}

// CollisionOptions returns the settings for collision.Build.
func (o Options) CollisionOptions() collision.Options {
	return collision.Options{
		SolidProperty: o.SolidProperty,
		Friction:      o.Collision.Friction,
		Bounds:        o.Collision.Bounds,
		ObjectLayers:  o.Collision.ObjectLayers,
	}
}
