package maps

import (
	"image"
	"image/png"
	"slices"
	"testing"

	"github.com/milk9111/tiledmap/collision"
	"github.com/milk9111/tiledmap/tmx"
)

func loadDemo(t *testing.T) *tmx.Map {
	t.Helper()
	m, err := Loader().Load(Demo)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestDemoLayers(t *testing.T) {
	m := loadDemo(t)
	var names []string
	for _, l := range m.Layers {
		names = append(names, l.Info().Name)
	}
	if !slices.Equal(names, []string{"ground", "coins", "markers"}) {
		t.Fatalf("layers = %v", names)
	}

	coins, err := m.TileLayerByName("coins")
	if err != nil {
		t.Fatalf("TileLayerByName: %v", err)
	}
	if !slices.Equal(coins.Group, []string{"foreground"}) || coins.Opacity != 0.9 {
		t.Fatalf("coins group = %v, opacity = %v", coins.Group, coins.Opacity)
	}
	plain, _ := coins.Cell(2, 2)
	flipped, _ := coins.Cell(5, 2)
	if plain.GID() != 4 || flipped.Tile != plain.Tile || !flipped.Flags.Horizontal {
		t.Fatalf("coin cells = %+v, %+v", plain, flipped)
	}
	if len(plain.Tile.Animation) != 2 || plain.Tile.Class != "coin" {
		t.Fatalf("coin tile = %+v", plain.Tile)
	}
}

func TestDemoCollision(t *testing.T) {
	w := collision.Build(loadDemo(t), collision.DefaultOptions())

	// three merged solid regions, two spikes, the exit and four bounds
	if len(w.Shapes) != 10 {
		t.Fatalf("shapes = %d, want 10", len(w.Shapes))
	}
	sensors := 0
	for _, s := range w.Shapes {
		if s.Sensor() {
			sensors++
		}
	}
	if sensors != 3 {
		t.Fatalf("sensors = %d, want 3", sensors)
	}
	var regions []image.Rectangle
	for _, src := range w.Sources {
		if !src.Cells.Empty() {
			regions = append(regions, src.Cells)
		}
	}
	want := []image.Rectangle{image.Rect(0, 3, 3, 5), image.Rect(5, 3, 8, 5), image.Rect(3, 4, 5, 5)}
	if !slices.Equal(regions, want) {
		t.Fatalf("regions = %v, want %v", regions, want)
	}
}

func TestDemoSheet(t *testing.T) {
	f, err := FS.Open("terrain.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Size() != image.Pt(32, 32) {
		t.Fatalf("sheet size = %v", img.Bounds().Size())
	}
}
