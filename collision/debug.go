package collision

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// View places space coordinates on screen.
type View struct {
	Origin cp.Vector
	Scale  float64
	// FlipHeight, when non-zero, converts Y-up space coordinates back to a
	// Y-down screen of this many map pixels.
	FlipHeight float64
}

func (v View) point(p cp.Vector) (float32, float32) {
	s := v.Scale
	if s == 0 {
		s = 1
	}
	y := p.Y
	if v.FlipHeight != 0 {
		y = v.FlipHeight - y
	}
	return float32((p.X - v.Origin.X) * s), float32((y - v.Origin.Y) * s)
}

// DebugDraw outlines every shape in the world.
func (w *World) DebugDraw(screen *ebiten.Image, v View) {
	if w == nil || w.Space == nil || screen == nil {
		return
	}
	if w.m != nil && w.m.InvertY && v.FlipHeight == 0 {
		v.FlipHeight = float64(w.m.PixelSize().Y)
	}
	cp.DrawSpace(w.Space, &drawer{screen: screen, view: v})
}

type drawer struct {
	screen *ebiten.Image
	view   View
}

func (d *drawer) line(a, b cp.Vector, c color.Color) {
	x0, y0 := d.view.point(a)
	x1, y1 := d.view.point(b)
	vector.StrokeLine(d.screen, x0, y0, x1, y1, 1, c, false)
}

func (d *drawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := toRGBA(outline)
	const steps = 20
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / steps)
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, c)
		prev = cur
	}
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *drawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, toRGBA(fill))
}

func (d *drawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, toRGBA(outline))
}

func (d *drawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := toRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *drawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	c := toRGBA(fill)
	l := size / 2
	d.line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, c)
	d.line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, c)
}

func (d *drawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *drawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 1}
}

func (d *drawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	switch {
	case shape == nil:
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	case shape.Sensor():
		return cp.FColor{R: 1, G: 0.85, B: 0.2, A: 1}
	default:
		return cp.FColor{R: 0.4, G: 0.7, B: 1, A: 1}
	}
}

func (d *drawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1}
}

func (d *drawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.1, B: 0.1, A: 1}
}

func (d *drawer) Data() interface{} {
	return nil
}

func toRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1) * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
