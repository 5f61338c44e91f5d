package tmx

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"sort"
	"time"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/props"
)

// ImageRef is a loaded <image> element.
type ImageRef struct {
	Source string
	Trans  *color.NRGBA
	Width  int
	Height int
	Handle imageload.Handle
}

// Frame is one step of a tile animation. TileID is local to the tileset.
type Frame struct {
	TileID   uint32
	Duration time.Duration
}

// Tile is one entry of a tileset. Image is owned by the tileset's sheet; cells
// referencing the tile share it.
type Tile struct {
	ID          uint32
	Tileset     *Tileset
	Class       string
	Image       imageload.Handle
	Rect        image.Rectangle
	Probability float64
	Properties  props.Properties
	Collision   []*Object
	Animation   []Frame
}

// GID returns the unflipped global id of the tile.
func (t *Tile) GID() uint32 {
	return t.Tileset.FirstGID + t.ID
}

// Tileset claims the GID range [FirstGID, FirstGID+Span()).
type Tileset struct {
	Name       string
	Class      string
	FirstGID   uint32
	Source     string
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int
	TileCount  int
	Columns    int
	Offset     image.Point
	Image      *ImageRef
	Properties props.Properties

	tiles []*Tile
}

// NewTileset returns a tileset of span blank tiles starting at firstGID.
func NewTileset(name string, firstGID uint32, span int) *Tileset {
	ts := &Tileset{Name: name, FirstGID: firstGID, TileCount: span, Properties: props.Properties{}}
	ts.tiles = make([]*Tile, span)
	for i := range ts.tiles {
		ts.tiles[i] = &Tile{ID: uint32(i), Tileset: ts, Properties: props.Properties{}}
	}
	return ts
}

// Span is the number of GIDs the tileset claims.
func (ts *Tileset) Span() uint32 { return uint32(len(ts.tiles)) }

// Contains reports whether the bare id falls inside the tileset's range.
func (ts *Tileset) Contains(id uint32) bool {
	return id >= ts.FirstGID && id-ts.FirstGID < ts.Span()
}

// Tile returns the tile with the given local id.
func (ts *Tileset) Tile(local uint32) (*Tile, bool) {
	if local >= ts.Span() {
		return nil, false
	}
	return ts.tiles[local], true
}

// Tiles returns the tiles in local id order.
func (ts *Tileset) Tiles() []*Tile {
	return slices.Clone(ts.tiles)
}

// Registry resolves bare tile ids to tilesets. Tilesets are kept sorted by
// FirstGID.
type Registry struct {
	sets []*Tileset
}

// Register adds ts. It fails with ErrOverlappingTileset when the GID range of
// ts intersects a registered one or shares its FirstGID, and with
// gid.ErrInvalidTileID when the range runs past gid.MaxTileID.
func (r *Registry) Register(ts *Tileset) error {
	if ts.FirstGID == 0 {
		return fmt.Errorf("tmx: tileset %q: firstgid must be at least 1", ts.Name)
	}
	end := uint64(ts.FirstGID) + uint64(ts.Span())
	if ts.FirstGID > gid.MaxTileID || end > uint64(gid.MaxTileID)+1 {
		return fmt.Errorf("%w: tileset %q ends at %d", gid.ErrInvalidTileID, ts.Name, end-1)
	}
	i := sort.Search(len(r.sets), func(i int) bool { return r.sets[i].FirstGID >= ts.FirstGID })
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(r.sets) {
			continue
		}
		o := r.sets[j]
		oEnd := uint64(o.FirstGID) + uint64(o.Span())
		if o.FirstGID == ts.FirstGID || (uint64(ts.FirstGID) < oEnd && uint64(o.FirstGID) < end) {
			return fmt.Errorf("%w: %q [%d,%d) and %q [%d,%d)", ErrOverlappingTileset,
				ts.Name, ts.FirstGID, end, o.Name, o.FirstGID, oEnd)
		}
	}
	r.sets = slices.Insert(r.sets, i, ts)
	return nil
}

// Resolve returns the tileset owning the bare id and the id local to it.
// Flag bits must already be stripped; 0 is never resolved.
func (r *Registry) Resolve(id uint32) (*Tileset, uint32, error) {
	i := sort.Search(len(r.sets), func(i int) bool { return r.sets[i].FirstGID > id }) - 1
	if id == 0 || i < 0 || !r.sets[i].Contains(id) {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownGID, id)
	}
	ts := r.sets[i]
	return ts, id - ts.FirstGID, nil
}

// Tile resolves a bare id straight to its tile.
func (r *Registry) Tile(id uint32) (*Tile, error) {
	ts, local, err := r.Resolve(id)
	if err != nil {
		return nil, err
	}
	t, _ := ts.Tile(local)
	return t, nil
}

// Tilesets returns the registered tilesets ordered by FirstGID.
func (r *Registry) Tilesets() []*Tileset {
	return slices.Clone(r.sets)
}

func (r *Registry) Len() int { return len(r.sets) }
