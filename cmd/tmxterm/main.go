package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/tiledmap/config"
	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/maps"
	"github.com/milk9111/tiledmap/tmx"
	"github.com/milk9111/tiledmap/xmltree"
)

func main() {
	configPath := flag.String("config", "tiledmap.yaml", "configuration file")
	layerName := flag.String("layer", "", "tile layer to show first (default: the first tile layer)")
	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatal("usage: tmxterm [flags] [map.tmx]")
	}

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	path := flag.Arg(0)
	loader := tmx.NewLoader(xmltree.OSProvider{})
	if path == "" {
		path, loader = maps.Demo, maps.Loader()
	}
	opts.Apply(loader)
	loader.Images = imageload.Headless{}
	m, err := loader.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	layers := m.TileLayers()
	if len(layers) == 0 {
		fmt.Fprintf(os.Stderr, "%s has no tile layers\n", path)
		os.Exit(1)
	}
	current := 0
	if *layerName != "" {
		current = -1
		for i, l := range layers {
			if l.Name == *layerName {
				current = i
			}
		}
		if current < 0 {
			log.Fatalf("no tile layer named %q", *layerName)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	ox, oy := 0, 1
	for {
		l := layers[current]
		p := newPalette(l)
		screen.Clear()
		putText(screen, 0, 0, fmt.Sprintf("%s  layer %d/%d %q  arrows pan  tab next  q quit", m.Path, current+1, len(layers), l.Name), tcell.StyleDefault.Bold(true))
		drawLayer(screen, l, p, ox, oy)
		drawLegend(screen, p, ox+l.Width*p.width+2, oy)
		screen.Show()

		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape:
				return
			case tcell.KeyTab:
				current = (current + 1) % len(layers)
			case tcell.KeyLeft:
				ox += p.width
			case tcell.KeyRight:
				ox -= p.width
			case tcell.KeyUp:
				oy++
			case tcell.KeyDown:
				oy--
			}
			switch ev.Rune() {
			case 'q', 'Q':
				return
			}
		}
	}
}
