package tmx

import (
	"fmt"
	"iter"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/props"
)

// Layer returns the layer at index i in draw order.
func (m *Map) Layer(i int) (Layer, error) {
	if i < 0 || i >= len(m.Layers) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrLayerNotFound, i, len(m.Layers))
	}
	return m.Layers[i], nil
}

// LayerByName returns the first layer with the given name.
func (m *Map) LayerByName(name string) (Layer, error) {
	for _, l := range m.Layers {
		if l.Info().Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
}

// TileLayer returns the layer at index i, which must be a tile layer.
func (m *Map) TileLayer(i int) (*TileLayer, error) {
	l, err := m.Layer(i)
	if err != nil {
		return nil, err
	}
	tl, ok := l.(*TileLayer)
	if !ok {
		return nil, fmt.Errorf("%w: layer %d is not a tile layer", ErrLayerNotFound, i)
	}
	return tl, nil
}

// TileLayerByName returns the first tile layer with the given name.
func (m *Map) TileLayerByName(name string) (*TileLayer, error) {
	for _, l := range m.Layers {
		if tl, ok := l.(*TileLayer); ok && tl.Name == name {
			return tl, nil
		}
	}
	return nil, fmt.Errorf("%w: tile layer %q", ErrLayerNotFound, name)
}

// CellAt returns the cell at (x, y) of the tile layer at index layer.
func (m *Map) CellAt(layer, x, y int) (Cell, error) {
	tl, err := m.TileLayer(layer)
	if err != nil {
		return Cell{}, err
	}
	return tl.Cell(x, y)
}

// TileImage returns the image at (x, y) of the tile layer at index layer; nil
// for an empty cell.
func (m *Map) TileImage(layer, x, y int) (imageload.Handle, error) {
	c, err := m.CellAt(layer, x, y)
	if err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// CellAtName is CellAt addressing the layer by name.
func (m *Map) CellAtName(layer string, x, y int) (Cell, error) {
	tl, err := m.TileLayerByName(layer)
	if err != nil {
		return Cell{}, err
	}
	return tl.Cell(x, y)
}

// TileImageByName is TileImage addressing the layer by name.
func (m *Map) TileImageByName(layer string, x, y int) (imageload.Handle, error) {
	c, err := m.CellAtName(layer, x, y)
	if err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// TileProperties returns the merged properties of the tile at (x, y); an empty
// cell has no properties.
func (m *Map) TileProperties(layer, x, y int) (props.Properties, error) {
	c, err := m.CellAt(layer, x, y)
	if err != nil {
		return nil, err
	}
	return cellProperties(c), nil
}

func (m *Map) TilePropertiesByName(layer string, x, y int) (props.Properties, error) {
	c, err := m.CellAtName(layer, x, y)
	if err != nil {
		return nil, err
	}
	return cellProperties(c), nil
}

func cellProperties(c Cell) props.Properties {
	if c.Empty() {
		return props.Properties{}
	}
	return c.Tile.Properties
}

// TileByGID resolves a raw GID, flags included, to its tile.
func (m *Map) TileByGID(raw uint32) (*Tile, gid.Flags, error) {
	id, flags := gid.Decode(raw)
	t, err := m.Tilesets.Tile(id)
	if err != nil {
		return nil, gid.Flags{}, err
	}
	return t, flags, nil
}

func (m *Map) TileImageByGID(raw uint32) (imageload.Handle, error) {
	t, _, err := m.TileByGID(raw)
	if err != nil {
		return nil, err
	}
	return t.Image, nil
}

func (m *Map) TilePropertiesByGID(raw uint32) (props.Properties, error) {
	t, _, err := m.TileByGID(raw)
	if err != nil {
		return nil, err
	}
	return t.Properties, nil
}

// TileLocation is a cell position in a tile layer.
type TileLocation struct {
	Layer int
	X, Y  int
}

// TileLocationsByGID lists every cell whose raw GID, flags included, equals
// raw.
func (m *Map) TileLocationsByGID(raw uint32) []TileLocation {
	var out []TileLocation
	for i, l := range m.Layers {
		tl, ok := l.(*TileLayer)
		if !ok {
			continue
		}
		for p := range tl.Tiles() {
			if p.Cell.GID() == raw {
				out = append(out, TileLocation{Layer: i, X: p.X, Y: p.Y})
			}
		}
	}
	return out
}

// TilesWithProperties returns every tile carrying at least one property, in
// GID order.
func (m *Map) TilesWithProperties() []*Tile {
	var out []*Tile
	for _, ts := range m.Tilesets.Tilesets() {
		for _, t := range ts.tiles {
			if len(t.Properties) > 0 {
				out = append(out, t)
			}
		}
	}
	return out
}

// TilesetByName returns the first tileset with the given name.
func (m *Map) TilesetByName(name string) (*Tileset, error) {
	for _, ts := range m.Tilesets.sets {
		if ts.Name == name {
			return ts, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTilesetNotFound, name)
}

func (m *Map) VisibleLayers() []Layer {
	var out []Layer
	for _, l := range m.Layers {
		if l.Info().Visible {
			out = append(out, l)
		}
	}
	return out
}

func (m *Map) TileLayers() []*TileLayer {
	return layersOf[*TileLayer](m)
}

func (m *Map) ObjectGroups() []*ObjectGroup {
	return layersOf[*ObjectGroup](m)
}

func (m *Map) ImageLayers() []*ImageLayer {
	return layersOf[*ImageLayer](m)
}

func layersOf[T Layer](m *Map) []T {
	var out []T
	for _, l := range m.Layers {
		if t, ok := l.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// VisibleTiles yields the non-empty cells of every visible tile layer in draw
// order.
func (m *Map) VisibleTiles() iter.Seq2[*TileLayer, PlacedTile] {
	return func(yield func(*TileLayer, PlacedTile) bool) {
		for _, tl := range m.TileLayers() {
			if !tl.Visible {
				continue
			}
			for p := range tl.Tiles() {
				if !yield(tl, p) {
					return
				}
			}
		}
	}
}

// Objects yields the objects of every object group in draw order.
func (m *Map) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, og := range m.ObjectGroups() {
			for _, o := range og.Objects {
				if !yield(o) {
					return
				}
			}
		}
	}
}

func (m *Map) ObjectsByName(name string) []*Object {
	return m.filterObjects(func(o *Object) bool { return o.Name == name })
}

func (m *Map) ObjectsByType(typ string) []*Object {
	return m.filterObjects(func(o *Object) bool { return o.Type == typ })
}

func (m *Map) filterObjects(keep func(*Object) bool) []*Object {
	var out []*Object
	for o := range m.Objects() {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// ObjectByName returns the first object with the given name.
func (m *Map) ObjectByName(name string) (*Object, error) {
	for o := range m.Objects() {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
}

func (m *Map) ObjectByID(id int) (*Object, error) {
	for o := range m.Objects() {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrObjectNotFound, id)
}
