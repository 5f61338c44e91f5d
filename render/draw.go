package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/tmx"
)

type DrawOptions struct {
	Scale float64
	// Origin is the map pixel drawn at the top-left of dst.
	Origin tmx.Vec
	// Objects draws object outlines in addition to tile objects.
	Objects bool
}

// TileGeoM returns the transform that draws a w×h tile image with flags f
// into its destination box, whose top-left corner is the origin.
func TileGeoM(f gid.Flags, w, h float64) ebiten.GeoM {
	a := f.Transform(w, h)
	var g ebiten.GeoM
	g.SetElement(0, 0, a.A)
	g.SetElement(0, 1, a.B)
	g.SetElement(0, 2, a.Tx)
	g.SetElement(1, 0, a.C)
	g.SetElement(1, 1, a.D)
	g.SetElement(1, 2, a.Ty)
	return g
}

// CellOrigin is the top-left corner of the destination box of a w×h tile image
// placed at column col, row row. Images are aligned to the bottom-left of the
// cell and shifted by the tileset offset.
func CellOrigin(m *tmx.Map, c tmx.Cell, col, row int, w, h float64) (float64, float64) {
	if c.Flags.Diagonal {
		w, h = h, w
	}
	x := float64(col * m.TileWidth)
	y := float64((row+1)*m.TileHeight) - h
	if c.Tile != nil {
		x += float64(c.Tile.Tileset.Offset.X)
		y += float64(c.Tile.Tileset.Offset.Y)
	}
	return x, y
}

// DrawMap draws every visible layer of m in order.
func DrawMap(dst *ebiten.Image, m *tmx.Map, o DrawOptions) {
	if o.Scale == 0 {
		o.Scale = 1
	}
	for _, l := range m.VisibleLayers() {
		switch l := l.(type) {
		case *tmx.TileLayer:
			drawTileLayer(dst, m, l, o)
		case *tmx.ImageLayer:
			drawImageLayer(dst, l, o)
		case *tmx.ObjectGroup:
			drawObjectGroup(dst, m, l, o)
		}
	}
}

func (o DrawOptions) finish(g *ebiten.GeoM) {
	g.Translate(-o.Origin.X, -o.Origin.Y)
	g.Scale(o.Scale, o.Scale)
}

func drawTileLayer(dst *ebiten.Image, m *tmx.Map, l *tmx.TileLayer, o DrawOptions) {
	for p := range l.Tiles() {
		img, ok := p.Image.(*ebiten.Image)
		if !ok || img == nil {
			continue
		}
		size := img.Bounds().Size()
		w, h := float64(size.X), float64(size.Y)
		op := &ebiten.DrawImageOptions{GeoM: TileGeoM(p.Cell.Flags, w, h)}
		x, y := CellOrigin(m, p.Cell, p.X, p.Y, w, h)
		op.GeoM.Translate(x+l.Offset.X, y+l.Offset.Y)
		o.finish(&op.GeoM)
		op.ColorScale.ScaleAlpha(float32(l.Opacity))
		dst.DrawImage(img, op)
	}
}

func drawImageLayer(dst *ebiten.Image, l *tmx.ImageLayer, o DrawOptions) {
	if l.Image == nil {
		return
	}
	img, ok := l.Image.Handle.(*ebiten.Image)
	if !ok || img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(l.Offset.X, l.Offset.Y)
	o.finish(&op.GeoM)
	op.ColorScale.ScaleAlpha(float32(l.Opacity))
	dst.DrawImage(img, op)
}

// screenY converts an object coordinate back to the Y-down draw space.
func screenY(m *tmx.Map, y float64) float64 {
	if m.InvertY {
		return float64(m.PixelSize().Y) - y
	}
	return y
}

func drawObjectGroup(dst *ebiten.Image, m *tmx.Map, g *tmx.ObjectGroup, o DrawOptions) {
	var clr color.Color = colornames.Yellow
	if g.Color != nil {
		clr = *g.Color
	}
	for _, obj := range g.Objects {
		if !obj.Visible {
			continue
		}
		if obj.Kind == tmx.KindTile {
			drawTileObject(dst, m, g, obj, o)
			continue
		}
		if !o.Objects {
			continue
		}
		pts := obj.Outline(16)
		n := len(pts)
		if n == 1 {
			x, y := toScreen(m, g, pts[0], o)
			vector.StrokeRect(dst, x-1, y-1, 2, 2, 1, clr, false)
			continue
		}
		segs := n - 1
		if obj.Closed() && n > 2 {
			segs = n
		}
		for i := 0; i < segs; i++ {
			x0, y0 := toScreen(m, g, pts[i], o)
			x1, y1 := toScreen(m, g, pts[(i+1)%n], o)
			vector.StrokeLine(dst, x0, y0, x1, y1, 1, clr, true)
		}
	}
}

func toScreen(m *tmx.Map, g *tmx.ObjectGroup, v tmx.Vec, o DrawOptions) (float32, float32) {
	x := (v.X + g.Offset.X - o.Origin.X) * o.Scale
	y := (screenY(m, v.Y) + g.Offset.Y - o.Origin.Y) * o.Scale
	return float32(x), float32(y)
}

func drawTileObject(dst *ebiten.Image, m *tmx.Map, g *tmx.ObjectGroup, obj *tmx.Object, o DrawOptions) {
	img, ok := obj.Tile.Image.(*ebiten.Image)
	if !ok || img == nil {
		return
	}
	size := img.Bounds().Size()
	w, h := float64(size.X), float64(size.Y)
	if obj.Flags.Diagonal {
		w, h = h, w
	}
	op := &ebiten.DrawImageOptions{GeoM: TileGeoM(obj.Flags, float64(size.X), float64(size.Y))}
	if w > 0 && h > 0 {
		op.GeoM.Scale(obj.Width/w, obj.Height/h)
	}
	op.GeoM.Translate(0, -obj.Height)
	op.GeoM.Rotate(obj.Rotation * math.Pi / 180)
	op.GeoM.Translate(obj.X+g.Offset.X, screenY(m, obj.Y)+g.Offset.Y)
	o.finish(&op.GeoM)
	op.ColorScale.ScaleAlpha(float32(g.Opacity))
	dst.DrawImage(img, op)
}
