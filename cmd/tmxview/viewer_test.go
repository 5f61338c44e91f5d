package main

import (
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/milk9111/tiledmap/tmx"
	"github.com/milk9111/tiledmap/xmltree"
)

const mapDoc = `<map version="1.10" orientation="orthogonal" width="1" height="1" tilewidth="8" tileheight="8">
 <tileset firstgid="1" source="../sets/a.tsx"/>
 <layer id="1" name="l" width="1" height="1"><data encoding="csv">1</data></layer>
 <imagelayer id="2" name="sky"><image source="sky/clouds.png" width="8" height="8"/></imagelayer>
</map>`

const tilesetDoc = `<tileset name="a" tilewidth="8" tileheight="8" tilecount="1" columns="1">
 <image source="../img/a.png" width="8" height="8"/>
</tileset>`

func TestWatchDirs(t *testing.T) {
	fsys := fstest.MapFS{
		"maps/m.tmx": {Data: []byte(mapDoc)},
		"sets/a.tsx": {Data: []byte(tilesetDoc)},
	}
	m, err := tmx.NewLoader(xmltree.FSProvider{FS: fsys}).Load("maps/m.tmx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := watchDirs(m)
	want := []string{"maps", "sets", "img", filepath.Join("maps", "sky")}
	if !slices.Equal(got, want) {
		t.Fatalf("watchDirs = %v, want %v", got, want)
	}
}
