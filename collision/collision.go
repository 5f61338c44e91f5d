// Package collision builds a static chipmunk space from an assembled map.
//
// Solid tiles are merged into as few boxes as possible, tiles carrying their
// own collision objects contribute those shapes, and object groups contribute
// one shape per object.
package collision

import (
	"image"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/tiledmap/tmx"
)

const (
	TypeSolid cp.CollisionType = iota + 1
	TypeSensor
	TypeBounds
)

// ellipseSegments is the vertex count used for non-circular ellipses.
const ellipseSegments = 12

type Options struct {
	// SolidProperty names the bool tile property marking a tile solid.
	SolidProperty string
	Friction      float64
	// Bounds adds segments along the map edges.
	Bounds bool
	// ObjectLayers restricts object shapes to the named object groups. Empty
	// uses every object group.
	ObjectLayers []string
}

func DefaultOptions() Options {
	return Options{SolidProperty: "solid", Friction: 0.8, Bounds: true}
}

// Source records where a shape came from.
type Source struct {
	Layer string
	// Object is set for shapes built from map objects and tile collision
	// objects.
	Object *tmx.Object
	// Cells is the merged cell rectangle for solid tile regions.
	Cells image.Rectangle
}

type World struct {
	Space   *cp.Space
	Shapes  []*cp.Shape
	Sources []Source

	m    *tmx.Map
	opts Options
}

// Build creates a world holding static shapes for m.
func Build(m *tmx.Map, opts Options) *World {
	w := &World{Space: cp.NewSpace(), m: m, opts: opts}
	for _, l := range m.TileLayers() {
		w.addTileLayer(l)
	}
	for _, g := range m.ObjectGroups() {
		if !w.wantGroup(g.Name) {
			continue
		}
		for _, obj := range g.Objects {
			w.addObject(obj, g.Offset, Source{Layer: g.Name, Object: obj})
		}
	}
	if opts.Bounds {
		w.addBounds()
	}
	return w
}

func (w *World) wantGroup(name string) bool {
	if len(w.opts.ObjectLayers) == 0 {
		return true
	}
	for _, n := range w.opts.ObjectLayers {
		if n == name {
			return true
		}
	}
	return false
}

func (w *World) add(shape *cp.Shape, typ cp.CollisionType, src Source) {
	if shape == nil {
		return
	}
	shape.SetFriction(w.opts.Friction)
	shape.SetCollisionType(typ)
	if typ == TypeSensor {
		shape.SetSensor(true)
	}
	w.Space.AddShape(shape)
	w.Shapes = append(w.Shapes, shape)
	w.Sources = append(w.Sources, src)
}

// flipY maps a Y-down map coordinate into the map's coordinate space.
func (w *World) flipY(y float64) float64 {
	if w.m.InvertY {
		return float64(w.m.PixelSize().Y) - y
	}
	return y
}

func (w *World) solid(c tmx.Cell) bool {
	if c.Empty() || w.opts.SolidProperty == "" {
		return false
	}
	v, err := c.Properties().Bool(w.opts.SolidProperty)
	return err == nil && v
}

func (w *World) addTileLayer(l *tmx.TileLayer) {
	rects := MergeCells(l.Width, l.Height, func(x, y int) bool {
		c, err := l.Cell(x, y)
		return err == nil && w.solid(c)
	})
	tw, th := float64(w.m.TileWidth), float64(w.m.TileHeight)
	for _, r := range rects {
		x0 := float64(r.Min.X)*tw + l.Offset.X
		x1 := float64(r.Max.X)*tw + l.Offset.X
		y0 := w.flipY(float64(r.Min.Y)*th + l.Offset.Y)
		y1 := w.flipY(float64(r.Max.Y)*th + l.Offset.Y)
		bb := cp.BB{L: x0, B: math.Min(y0, y1), R: x1, T: math.Max(y0, y1)}
		w.add(cp.NewBox2(w.Space.StaticBody, bb, 0), TypeSolid, Source{Layer: l.Name, Cells: r})
	}

	for p := range l.Tiles() {
		if w.solid(p.Cell) || len(p.Cell.Tile.Collision) == 0 {
			continue
		}
		w.addTileCollision(l, p)
	}
}

// tileSize is the drawn size of a tile before flipping.
func tileSize(t *tmx.Tile) (float64, float64) {
	if !t.Rect.Empty() {
		s := t.Rect.Size()
		return float64(s.X), float64(s.Y)
	}
	return float64(t.Tileset.TileWidth), float64(t.Tileset.TileHeight)
}

func (w *World) addTileCollision(l *tmx.TileLayer, p tmx.PlacedTile) {
	for _, obj := range p.Cell.Tile.Collision {
		if obj.Kind == tmx.KindPoint {
			continue
		}
		w.addOutline(w.tilePoints(l, p, obj), obj.Closed(), typeOf(obj), Source{Layer: l.Name, Object: obj})
	}
}

// tilePoints places a tile collision object in map space, following the
// cell's flips and the tileset offset.
func (w *World) tilePoints(l *tmx.TileLayer, p tmx.PlacedTile, obj *tmx.Object) []tmx.Vec {
	tile := p.Cell.Tile
	iw, ih := tileSize(tile)
	aff := p.Cell.Flags.Transform(iw, ih)
	dh := ih
	if p.Cell.Flags.Diagonal {
		dh = iw
	}
	ox := float64(p.X*w.m.TileWidth+tile.Tileset.Offset.X) + l.Offset.X
	oy := float64((p.Y+1)*w.m.TileHeight) - dh + float64(tile.Tileset.Offset.Y) + l.Offset.Y

	pts := obj.Outline(ellipseSegments)
	for i, v := range pts {
		x, y := aff.Apply(v.X, v.Y)
		pts[i] = tmx.Vec{X: ox + x, Y: w.flipY(oy + y)}
	}
	return pts
}

func typeOf(obj *tmx.Object) cp.CollisionType {
	if v, err := obj.Properties.Bool("sensor"); err == nil && v {
		return TypeSensor
	}
	return TypeSolid
}

// addObject adds a map object. Object coordinates are already in the map's
// coordinate space; offset is the Y-down layer offset.
func (w *World) addObject(obj *tmx.Object, offset tmx.Vec, src Source) {
	if obj.Kind == tmx.KindPoint || obj.Kind == tmx.KindText {
		return
	}
	dy := offset.Y
	if w.m.InvertY {
		dy = -dy
	}
	shift := func(pts []tmx.Vec) []tmx.Vec {
		for i := range pts {
			pts[i].X += offset.X
			pts[i].Y += dy
		}
		return pts
	}
	typ := typeOf(obj)

	switch {
	case obj.Kind == tmx.KindEllipse && obj.Width == obj.Height && obj.Width > 0:
		r := obj.Width / 2
		// Opposite outline vertices straddle the rotated centre.
		c := obj.Outline(4)
		cx := (c[0].X+c[2].X)/2 + offset.X
		cy := (c[0].Y+c[2].Y)/2 + dy
		w.add(cp.NewCircle(w.Space.StaticBody, r, cp.Vector{X: cx, Y: cy}), typ, src)
	default:
		w.addOutline(shift(obj.Outline(ellipseSegments)), obj.Closed(), typ, src)
	}
}

// addOutline adds a closed convex outline as one polygon. Anything else
// becomes a chain of segments.
func (w *World) addOutline(pts []tmx.Vec, closed bool, typ cp.CollisionType, src Source) {
	if len(pts) < 2 {
		return
	}
	if closed && len(pts) >= 3 && Convex(pts) {
		verts := CounterClockwise(pts)
		w.add(cp.NewPolyShapeRaw(w.Space.StaticBody, len(verts), verts, 0), typ, src)
		return
	}
	n := len(pts)
	segs := n - 1
	if closed && n > 2 {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		seg := cp.NewSegment(w.Space.StaticBody, cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: b.X, Y: b.Y}, 0)
		w.add(seg, typ, src)
	}
}

func (w *World) addBounds() {
	size := w.m.PixelSize()
	mw, mh := float64(size.X), float64(size.Y)
	if mw <= 0 || mh <= 0 {
		return
	}
	segments := []struct{ a, b cp.Vector }{
		{cp.Vector{X: 0, Y: 0}, cp.Vector{X: mw, Y: 0}},
		{cp.Vector{X: 0, Y: mh}, cp.Vector{X: mw, Y: mh}},
		{cp.Vector{X: 0, Y: 0}, cp.Vector{X: 0, Y: mh}},
		{cp.Vector{X: mw, Y: 0}, cp.Vector{X: mw, Y: mh}},
	}
	for _, s := range segments {
		w.add(cp.NewSegment(w.Space.StaticBody, s.a, s.b, 1), TypeBounds, Source{})
	}
}

// MergeCells greedily covers the cells for which solid reports true with
// rectangles, expanding each one right and then down. A grid whose cell count
// does not fit in an int yields nothing.
func MergeCells(width, height int, solid func(x, y int) bool) []image.Rectangle {
	if width <= 0 || height <= 0 || height > math.MaxInt/width {
		return nil
	}
	done := make([]bool, width*height)
	open := func(x, y int) bool {
		return !done[y*width+x] && solid(x, y)
	}
	var out []image.Rectangle
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !open(x, y) {
				continue
			}
			w := 1
			for x+w < width && open(x+w, y) {
				w++
			}
			h := 1
		rows:
			for y+h < height {
				for xi := x; xi < x+w; xi++ {
					if !open(xi, y+h) {
						break rows
					}
				}
				h++
			}
			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					done[yy*width+xx] = true
				}
			}
			out = append(out, image.Rect(x, y, x+w, y+h))
		}
	}
	return out
}

func signedArea(pts []tmx.Vec) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Convex reports whether the closed outline pts is a convex polygon with
// non-zero area.
func Convex(pts []tmx.Vec) bool {
	n := len(pts)
	if n < 3 || signedArea(pts) == 0 {
		return false
	}
	sign := 0
	for i := range pts {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// CounterClockwise returns pts as chipmunk vertices with positive winding.
func CounterClockwise(pts []tmx.Vec) []cp.Vector {
	verts := make([]cp.Vector, len(pts))
	for i, p := range pts {
		verts[i] = cp.Vector{X: p.X, Y: p.Y}
	}
	if signedArea(pts) < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}
	return verts
}
