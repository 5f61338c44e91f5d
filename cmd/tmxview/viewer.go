package main

import (
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"path/filepath"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tiledmap/collision"
	"github.com/milk9111/tiledmap/config"
	"github.com/milk9111/tiledmap/render"
	"github.com/milk9111/tiledmap/tmx"
	"github.com/milk9111/tiledmap/watch"
	"github.com/milk9111/tiledmap/xmltree"
)

const panSpeed = 4

// Viewer draws one map and reloads it when its files change.
type Viewer struct {
	path   string
	opts   config.Options
	loader *tmx.Loader
	images *render.Loader

	m       *tmx.Map
	world   *collision.World
	loadErr error
	watcher *watch.Watcher

	origin tmx.Vec
	scale  float64

	showCollision bool
	showObjects   bool
}

// NewViewer loads path from fsys, or from the local filesystem when fsys is
// nil. Only local maps are watched.
func NewViewer(path string, fsys fs.FS, opts config.Options) (*Viewer, error) {
	var docs xmltree.Provider = xmltree.OSProvider{}
	if fsys != nil {
		docs = xmltree.FSProvider{FS: fsys}
	}
	images := render.NewLoader(fsys)
	loader := tmx.NewLoader(docs)
	loader.Images = images
	loader.Logger = log.Default()
	opts.Apply(loader)

	v := &Viewer{
		path:   path,
		opts:   opts,
		loader: loader,
		images: images,
		scale:  opts.Viewer.Scale,
	}
	if err := v.reload(); err != nil {
		return nil, err
	}

	if opts.Viewer.Watch && fsys == nil {
		w, err := watch.New(opts.Viewer.Debounce(), watchDirs(v.m)...)
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			v.watcher = w
		}
	}
	return v, nil
}

func (v *Viewer) Close() {
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
}

// reload assembles the map again. The previous map stays on screen when the
// new one fails to load.
func (v *Viewer) reload() error {
	v.images.Cache.Reset()
	m, err := v.loader.Load(v.path)
	if err != nil {
		v.loadErr = err
		return err
	}
	v.m = m
	v.world = collision.Build(m, v.opts.CollisionOptions())
	v.loadErr = nil
	log.Printf("loaded %s: %d layers, %d tilesets, %d shapes", v.path, len(m.Layers), m.Tilesets.Len(), len(v.world.Shapes))
	return nil
}

// watchDirs lists the directories holding the map and every file it loaded.
func watchDirs(m *tmx.Map) []string {
	files := []string{m.Path}
	for _, ts := range m.Tilesets.Tilesets() {
		if ts.Source != "" {
			files = append(files, ts.Source)
		}
		if ts.Image != nil {
			files = append(files, ts.Image.Source)
		}
	}
	for _, l := range m.ImageLayers() {
		if l.Image != nil {
			files = append(files, l.Image.Source)
		}
	}

	var dirs []string
	for _, f := range files {
		d := filepath.Dir(filepath.FromSlash(f))
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (v *Viewer) drainEvents() {
	if v.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			log.Printf("changed: %s", name)
			changed = true
		case err, ok := <-v.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			if changed {
				if err := v.reload(); err != nil {
					log.Printf("reload: %v", err)
				}
			}
			return
		}
	}
}

func (v *Viewer) Update() error {
	v.drainEvents()

	step := panSpeed / v.scale
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.origin.X -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.origin.X += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.origin.Y -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.origin.Y += step
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.scale *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && v.scale > 0.25 {
		v.scale /= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.showCollision = !v.showCollision
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		v.showObjects = !v.showObjects
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.reload(); err != nil {
			log.Printf("reload: %v", err)
		}
	}
	return nil
}

func (v *Viewer) background() color.Color {
	if v.m != nil && v.m.Background != nil {
		return v.m.Background
	}
	if bg := v.opts.Viewer.Background; bg != nil {
		return bg.NRGBA
	}
	return colornames.Darkslategray
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.background())
	if v.m != nil {
		render.DrawMap(screen, v.m, render.DrawOptions{Scale: v.scale, Origin: v.origin, Objects: v.showObjects})
	}
	if v.showCollision && v.world != nil {
		v.world.DebugDraw(screen, collision.View{Origin: cp.Vector{X: v.origin.X, Y: v.origin.Y}, Scale: v.scale})
	}

	msg := fmt.Sprintf("%s  x%.2g  FPS %.0f\nWASD pan  +/- zoom  C collision  O objects  R reload", v.path, v.scale, ebiten.ActualFPS())
	if v.loadErr != nil {
		msg += "\n" + v.loadErr.Error()
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
