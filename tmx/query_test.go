package tmx

import (
	"errors"
	"slices"
	"testing"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/imageload"
)

func TestQueryOutOfBounds(t *testing.T) {
	m := loadFixture(t)
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if _, err := m.TileImage(0, pos[0], pos[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("TileImage%v err = %v, want ErrOutOfBounds", pos, err)
		}
	}
	if _, err := m.TileImage(9, 0, 0); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("expected ErrLayerNotFound, got %v", err)
	}
	if _, err := m.TileLayer(2); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("object group returned as tile layer: %v", err)
	}
	if _, err := m.LayerByName("missing"); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("expected ErrLayerNotFound, got %v", err)
	}
	if _, err := m.TileImageByName("things", 0, 0); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("expected ErrLayerNotFound, got %v", err)
	}
}

func TestQueryTileImage(t *testing.T) {
	m := loadFixture(t)
	img, err := m.TileImageByName("ground", 1, 0)
	if err != nil {
		t.Fatalf("TileImageByName: %v", err)
	}
	ph := img.(imageload.Placeholder)
	if ph.Source != "img/terrain.png" || ph.Rect.Min.X != 16 || ph.Rect.Min.Y != 0 {
		t.Fatalf("image = %+v", ph)
	}
	empty, err := m.TileImage(0, 1, 1)
	if err != nil || empty != nil {
		t.Fatalf("empty cell image = %v, %v", empty, err)
	}
	p, err := m.TileProperties(0, 1, 1)
	if err != nil || len(p) != 0 {
		t.Fatalf("empty cell properties = %v, %v", p, err)
	}
}

func TestQueryByName(t *testing.T) {
	m := loadFixture(t)
	byIndex, err := m.CellAt(0, 0, 0)
	if err != nil {
		t.Fatalf("CellAt: %v", err)
	}
	byName, err := m.CellAtName("ground", 0, 0)
	if err != nil || byName != byIndex {
		t.Fatalf("CellAtName = %+v, %v, want %+v", byName, err, byIndex)
	}

	p, err := m.TilePropertiesByName("ground", 0, 0)
	if err != nil {
		t.Fatalf("TilePropertiesByName: %v", err)
	}
	if solid, err := p.Bool("solid"); err != nil || solid {
		t.Fatalf("solid = %v, %v, want the map override false", solid, err)
	}
	if f, err := p.Float("friction"); err != nil || f != 0.8 {
		t.Fatalf("friction = %v, %v", f, err)
	}
	empty, err := m.TilePropertiesByName("ground", 1, 1)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty cell properties = %v, %v", empty, err)
	}

	if _, err := m.CellAtName("ground", 2, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := m.TilePropertiesByName("things", 0, 0); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("expected ErrLayerNotFound, got %v", err)
	}
}

func TestQueryByGID(t *testing.T) {
	m := loadFixture(t)
	tile, flags, err := m.TileByGID(0x80000005)
	if err != nil {
		t.Fatalf("TileByGID: %v", err)
	}
	if tile.Tileset.Name != "items" || tile.ID != 0 || flags != (gid.Flags{Horizontal: true}) {
		t.Fatalf("TileByGID = %+v %v", tile, flags)
	}
	p, err := m.TilePropertiesByGID(5)
	if err != nil {
		t.Fatalf("TilePropertiesByGID: %v", err)
	}
	if v, err := p.Int("value"); err != nil || v != 10 {
		t.Fatalf("value = %d, %v", v, err)
	}
	if img, err := m.TileImageByGID(6); err != nil || img.(imageload.Placeholder).Source != "img/gem.png" {
		t.Fatalf("TileImageByGID = %v, %v", img, err)
	}
	for _, raw := range []uint32{0, gid.FlipHorizontal, 7, 1000} {
		if _, _, err := m.TileByGID(raw); !errors.Is(err, ErrUnknownGID) {
			t.Errorf("TileByGID(%#x) err = %v", raw, err)
		}
	}
}

func TestTilesRestartable(t *testing.T) {
	m := loadFixture(t)
	ground, _ := m.TileLayerByName("ground")
	collect := func() []PlacedTile {
		var out []PlacedTile
		for p := range ground.Tiles() {
			out = append(out, p)
		}
		return out
	}
	first, second := collect(), collect()
	if len(first) != 3 || !slices.Equal(first, second) {
		t.Fatalf("iterations differ: %v vs %v", first, second)
	}
	pos := [][2]int{{0, 0}, {1, 0}, {0, 1}}
	for i, p := range first {
		if p.X != pos[i][0] || p.Y != pos[i][1] || p.Image != p.Cell.Tile.Image {
			t.Errorf("tile %d = %+v", i, p)
		}
	}

	// Early break stops the sequence.
	n := 0
	for range ground.Tiles() {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("break ignored")
	}
}

func TestVisibleQueries(t *testing.T) {
	m := loadFixture(t)
	if got := len(m.VisibleLayers()); got != 3 {
		t.Errorf("VisibleLayers = %d, want 3", got)
	}
	n := 0
	for tl := range m.VisibleTiles() {
		if tl.Name != "ground" {
			t.Errorf("tile from hidden layer %q", tl.Name)
		}
		n++
	}
	if n != 3 {
		t.Errorf("VisibleTiles yielded %d", n)
	}
	if len(m.TileLayers()) != 2 || len(m.ObjectGroups()) != 1 || len(m.ImageLayers()) != 1 {
		t.Errorf("layer kinds: %d %d %d", len(m.TileLayers()), len(m.ObjectGroups()), len(m.ImageLayers()))
	}
}

func TestTileLocationsByGID(t *testing.T) {
	m := loadFixture(t)
	got := m.TileLocationsByGID(2)
	want := []TileLocation{{Layer: 0, X: 1, Y: 0}, {Layer: 1, X: 1, Y: 0}}
	if !slices.Equal(got, want) {
		t.Fatalf("TileLocationsByGID(2) = %v", got)
	}
	if got := m.TileLocationsByGID(0x80000001); !slices.Equal(got, []TileLocation{{Layer: 1, X: 0, Y: 0}}) {
		t.Fatalf("flipped lookup = %v", got)
	}
}

func TestTilesWithProperties(t *testing.T) {
	m := loadFixture(t)
	got := m.TilesWithProperties()
	if len(got) != 2 || got[0].GID() != 1 || got[1].GID() != 5 {
		t.Fatalf("TilesWithProperties = %v", got)
	}
}

func TestObjectQueries(t *testing.T) {
	m := loadFixture(t)
	n := 0
	for range m.Objects() {
		n++
	}
	if n != 7 {
		t.Errorf("Objects yielded %d", n)
	}
	if got := m.ObjectsByType("solid"); len(got) != 1 || got[0].Name != "wall" {
		t.Errorf("ObjectsByType = %v", got)
	}
	if got := m.ObjectsByName("zone"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("ObjectsByName = %v", got)
	}
	if o, err := m.ObjectByID(3); err != nil || o.Name != "path" {
		t.Errorf("ObjectByID = %v, %v", o, err)
	}
	if _, err := m.ObjectByName("nope"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
	if _, err := m.ObjectByID(99); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}
