package main

import (
	"flag"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tiledmap/config"
	"github.com/milk9111/tiledmap/maps"
)

func main() {
	configPath := flag.String("config", "tiledmap.yaml", "viewer configuration file")
	showCollision := flag.Bool("collision", false, "outline the collision space")
	showObjects := flag.Bool("objects", true, "outline map objects")
	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatal("usage: tmxview [flags] [map.tmx]")
	}
	path := flag.Arg(0)
	var fsys fs.FS
	if path == "" {
		path, fsys = maps.Demo, maps.FS
	}

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	v, err := NewViewer(path, fsys, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()
	v.showCollision = *showCollision
	v.showObjects = *showObjects

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("tmxview - " + path)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
