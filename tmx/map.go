// Package tmx assembles Tiled maps into an immutable object graph and answers
// queries over it.
//
// A Map is built once by a Loader and never mutated afterwards, so it may be
// read from any number of goroutines without locking.
package tmx

import (
	"image"
	"image/color"

	"github.com/milk9111/tiledmap/props"
)

// Map is a fully resolved orthogonal map.
type Map struct {
	Path         string
	Version      string
	TiledVersion string
	Class        string
	Orientation  string
	RenderOrder  string
	Width        int
	Height       int
	TileWidth    int
	TileHeight   int
	NextLayerID  int
	NextObjectID int
	// Background is nil when the map declares no background color.
	Background color.Color
	Layers     []Layer
	Tilesets   *Registry
	Properties props.Properties
	// InvertY is set when object coordinates were mirrored into a Y-up space.
	InvertY bool
}

// PixelSize is the map size in pixels.
func (m *Map) PixelSize() image.Point {
	return image.Pt(m.Width*m.TileWidth, m.Height*m.TileHeight)
}
