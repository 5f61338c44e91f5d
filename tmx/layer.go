package tmx

import (
	"fmt"
	"image/color"
	"iter"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/props"
)

// Layer is one of *TileLayer, *ObjectGroup or *ImageLayer.
type Layer interface {
	Info() *LayerInfo
	isLayer()
}

// LayerInfo holds the attributes every layer kind shares. Offset, Opacity and
// Visible already include the effect of enclosing groups.
type LayerInfo struct {
	ID         int
	Name       string
	Class      string
	Index      int
	Visible    bool
	Opacity    float64
	Offset     Vec
	Properties props.Properties
	// Group lists the names of enclosing group layers, outermost first.
	Group []string
}

func (l *LayerInfo) Info() *LayerInfo { return l }

func (*LayerInfo) isLayer() {}

// Cell is one position of a tile layer. A nil Tile marks an empty cell.
type Cell struct {
	Tile  *Tile
	Flags gid.Flags
}

func (c Cell) Empty() bool { return c.Tile == nil }

// GID re-encodes the cell as it appeared in the layer data.
func (c Cell) GID() uint32 {
	if c.Tile == nil {
		return 0
	}
	// Registered tilesets end at or below gid.MaxTileID.
	g, _ := gid.Encode(c.Tile.GID(), c.Flags)
	return g
}

// Image returns the tile image, nil for an empty cell.
func (c Cell) Image() imageload.Handle {
	if c.Tile == nil {
		return nil
	}
	return c.Tile.Image
}

// Properties returns the merged tile properties, nil for an empty cell.
func (c Cell) Properties() props.Properties {
	if c.Tile == nil {
		return nil
	}
	return c.Tile.Properties
}

// TileLayer is a row-major Width×Height grid of cells.
type TileLayer struct {
	LayerInfo
	Width  int
	Height int

	cells []Cell
}

// Cell returns the cell at column x, row y.
func (l *TileLayer) Cell(x, y int) (Cell, error) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return Cell{}, fmt.Errorf("%w: (%d,%d) outside %dx%d layer %q", ErrOutOfBounds, x, y, l.Width, l.Height, l.Name)
	}
	return l.cells[y*l.Width+x], nil
}

// PlacedTile is a non-empty cell together with its grid position.
type PlacedTile struct {
	X, Y  int
	Image imageload.Handle
	Cell  Cell
}

// Tiles yields every non-empty cell in row-major order. The sequence can be
// ranged over any number of times.
func (l *TileLayer) Tiles() iter.Seq[PlacedTile] {
	return func(yield func(PlacedTile) bool) {
		for i, c := range l.cells {
			if c.Tile == nil {
				continue
			}
			if !yield(PlacedTile{X: i % l.Width, Y: i / l.Width, Image: c.Tile.Image, Cell: c}) {
				return
			}
		}
	}
}

// ObjectGroup is an ordered list of objects.
type ObjectGroup struct {
	LayerInfo
	Color     *color.NRGBA
	DrawOrder string
	Objects   []*Object
}

// ImageLayer draws a single image.
type ImageLayer struct {
	LayerInfo
	Image   *ImageRef
	RepeatX bool
	RepeatY bool
}
