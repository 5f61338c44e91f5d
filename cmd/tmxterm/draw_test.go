package main

import (
	"testing"
	"testing/fstest"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/tiledmap/maps"
	"github.com/milk9111/tiledmap/tmx"
	"github.com/milk9111/tiledmap/xmltree"
)

const termMap = `<map version="1.10" orientation="orthogonal" width="3" height="2" tilewidth="8" tileheight="8">
 <tileset firstgid="1" name="t" tilewidth="8" tileheight="8" tilecount="3" columns="3">
  <image source="t.png" width="24" height="8"/>
  <tile id="2">
   <properties>
    <property name="glyph" value="W"/>
   </properties>
  </tile>
 </tileset>
 <layer id="1" name="ground" width="3" height="2">
  <data encoding="csv">1,2,0,2147483649,3,0</data>
 </layer>
</map>`

func loadLayer(t *testing.T) *tmx.TileLayer {
	t.Helper()
	m, err := tmx.NewLoader(xmltree.FSProvider{FS: fstest.MapFS{"m.tmx": {Data: []byte(termMap)}}}).Load("m.tmx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l, err := m.TileLayerByName("ground")
	if err != nil {
		t.Fatalf("TileLayerByName: %v", err)
	}
	return l
}

func newScreen(t *testing.T) tcell.Screen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(40, 10)
	t.Cleanup(ss.Fini)
	return ss
}

func TestPalette(t *testing.T) {
	p := newPalette(loadLayer(t))
	if len(p.order) != 3 || p.width != 1 {
		t.Fatalf("palette order = %d, width = %d", len(p.order), p.width)
	}
	want := []string{"#", "%", "W"}
	for i, tile := range p.order {
		if p.glyphs[tile] != want[i] {
			t.Errorf("tile %d glyph = %q, want %q", tile.ID, p.glyphs[tile], want[i])
		}
	}
}

func TestDrawLayer(t *testing.T) {
	l := loadLayer(t)
	scr := newScreen(t)
	drawLayer(scr, l, newPalette(l), 2, 1)

	rows := []string{"#%.", "#W."}
	for y, row := range rows {
		for x, want := range row {
			got, _, _, _ := scr.GetContent(2+x, 1+y)
			if got != want {
				t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, want)
			}
		}
	}

	_, _, style, _ := scr.GetContent(2, 2)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Errorf("flipped cell not highlighted")
	}
}

func TestDrawLayerClipsOffscreen(t *testing.T) {
	l := loadLayer(t)
	scr := newScreen(t)
	drawLayer(scr, l, newPalette(l), -1, -1)
	got, _, _, _ := scr.GetContent(0, 0)
	if got != 'W' {
		t.Fatalf("origin cell = %q, want 'W'", got)
	}
}

func TestDrawLegend(t *testing.T) {
	l := loadLayer(t)
	scr := newScreen(t)
	drawLegend(scr, newPalette(l), 0, 0)

	if got, _, _, _ := scr.GetContent(0, 2); got != 'W' {
		t.Fatalf("legend glyph = %q, want 'W'", got)
	}
	want := "gid 3  t#2"
	for i, r := range want {
		got, _, _, _ := scr.GetContent(2+i, 2)
		if got != r {
			t.Fatalf("legend row 2 col %d = %q, want %q", 2+i, got, r)
		}
	}
}

func TestDemoGlyphs(t *testing.T) {
	m, err := maps.Loader().Load(maps.Demo)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l, err := m.TileLayerByName("ground")
	if err != nil {
		t.Fatalf("TileLayerByName: %v", err)
	}
	scr := newScreen(t)
	drawLayer(scr, l, newPalette(l), 0, 0)

	rows := map[int]string{3: "===^^===", 4: "########"}
	for y, row := range rows {
		for x, want := range row {
			if got, _, _, _ := scr.GetContent(x, y); got != want {
				t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, want)
			}
		}
	}
}
