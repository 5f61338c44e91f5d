package tmx

import (
	"testing"
	"testing/fstest"

	"github.com/milk9111/tiledmap/xmltree"
)

const levelTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="2" height="2" tilewidth="16" tileheight="16" infinite="0" nextlayerid="6" nextobjectid="8" backgroundcolor="#102030">
 <editorsettings><export format="tmx"/></editorsettings>
 <properties>
  <property name="music" value="cave.ogg"/>
 </properties>
 <tileset firstgid="1" source="../tilesets/terrain.tsx">
  <tile id="0">
   <properties>
    <property name="solid" type="bool" value="false"/>
   </properties>
  </tile>
 </tileset>
 <tileset firstgid="5" name="items" tilewidth="8" tileheight="8" tilecount="2">
  <tile id="0">
   <properties>
    <property name="value" type="int" value="10"/>
   </properties>
   <image source="../img/coin.png" width="8" height="8"/>
  </tile>
  <tile id="1">
   <image source="../img/gem.png" width="8" height="8"/>
  </tile>
 </tileset>
 <layer id="1" name="ground" width="2" height="2">
  <data encoding="csv">
1,2,
3,0
</data>
 </layer>
 <group id="2" name="fx" offsetx="4" opacity="0.5">
  <layer id="3" name="decor" width="2" height="2" offsetx="1" opacity="0.5" visible="0">
   <data encoding="base64">
    AQAAgAIAAAADAAAgAAAAAA==
   </data>
  </layer>
 </group>
 <objectgroup id="4" name="things" color="#a0a0a4">
  <object id="1" name="wall" type="solid" x="0" y="0" width="32" height="8"/>
  <object id="2" name="zone" x="10" y="10">
   <polygon points="0,0 10,0 10,10 0,10"/>
  </object>
  <object id="3" name="path" x="10" y="10">
   <polyline points="0,0 10,0 10,10 0,10"/>
  </object>
  <object id="4" name="coin" gid="2147483653" x="4" y="32"/>
  <object id="5" name="spawn" template="../templates/spawn.tx" x="20" y="24">
   <properties>
    <property name="kind" value="bat"/>
   </properties>
  </object>
  <object id="6" name="dot" x="1" y="2">
   <point/>
  </object>
  <object id="7" name="sign" x="0" y="0" width="32" height="16">
   <text wrap="1" color="#ff0000">Hello</text>
  </object>
 </objectgroup>
 <imagelayer id="5" name="sky">
  <image source="../img/sky.png" width="64" height="32"/>
 </imagelayer>
</map>`

const terrainTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" name="terrain" tilewidth="16" tileheight="16" tilecount="4" columns="2">
 <tileoffset x="0" y="2"/>
 <image source="../img/terrain.png" trans="ff00ff" width="32" height="32"/>
 <tile id="0" type="ground">
  <properties>
   <property name="solid" type="bool" value="true"/>
   <property name="friction" type="float" value="0.8"/>
  </properties>
  <objectgroup draworder="index">
   <object id="1" x="0" y="8" width="16" height="8"/>
  </objectgroup>
 </tile>
 <tile id="1">
  <animation>
   <frame tileid="1" duration="100"/>
   <frame tileid="2" duration="150"/>
  </animation>
 </tile>
</tileset>`

const spawnTX = `<?xml version="1.0" encoding="UTF-8"?>
<template>
 <tileset firstgid="1" source="../tilesets/terrain.tsx"/>
 <object name="tmpl" type="spawner" gid="2" width="16" height="16">
  <properties>
   <property name="count" type="int" value="3"/>
   <property name="kind" value="slime"/>
  </properties>
 </object>
</template>`

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"maps/level.tmx":      {Data: []byte(levelTMX)},
		"tilesets/terrain.tsx": {Data: []byte(terrainTSX)},
		"templates/spawn.tx":  {Data: []byte(spawnTX)},
	}
}

func loadFixture(t *testing.T) *Map {
	t.Helper()
	m, err := NewLoader(xmltree.FSProvider{FS: fixtureFS()}).Load("maps/level.tmx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

// loadString assembles a single in-memory map document.
func loadString(t *testing.T, doc string, extra fstest.MapFS) (*Map, error) {
	t.Helper()
	fsys := fstest.MapFS{"m.tmx": {Data: []byte(doc)}}
	for k, v := range extra {
		fsys[k] = v
	}
	return NewLoader(xmltree.FSProvider{FS: fsys}).Load("m.tmx")
}
