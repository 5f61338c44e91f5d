package tmx

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/props"
)

// Vec is a point in map pixels.
type Vec struct {
	X, Y float64
}

// Kind is the shape of an object.
type Kind int

const (
	KindRectangle Kind = iota
	KindEllipse
	KindPoint
	KindPolygon
	KindPolyline
	KindTile
	KindText
)

var kindNames = [...]string{"rectangle", "ellipse", "point", "polygon", "polyline", "tile", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Text is the content of a text object.
type Text struct {
	Text       string
	FontFamily string
	PixelSize  int
	Wrap       bool
	Color      color.NRGBA
	Bold       bool
	Italic     bool
	Underline  bool
	Strikeout  bool
	Kerning    bool
	HAlign     string
	VAlign     string
}

// Object is an entry of an object group or of a tile's collision group.
type Object struct {
	ID       int
	Name     string
	Type     string
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64
	Visible  bool
	Kind     Kind

	// Tile and Flags are set for KindTile.
	Tile  *Tile
	Flags gid.Flags

	// Vertices of a polygon or polyline, relative to (X, Y).
	Vertices []Vec

	Text       *Text
	Template   string
	Properties props.Properties

	yUp bool
}

// Closed reports whether the outline returned by Points joins its last point
// to its first. Only polylines and points are open.
func (o *Object) Closed() bool {
	return o.Kind != KindPolyline && o.Kind != KindPoint
}

// Points returns the object outline in map pixels, before rotation. Tile
// objects are anchored at their bottom-left corner.
func (o *Object) Points() []Vec {
	down := 1.0
	if o.yUp {
		down = -1
	}
	switch o.Kind {
	case KindPolygon, KindPolyline:
		out := make([]Vec, len(o.Vertices))
		for i, v := range o.Vertices {
			out[i] = Vec{o.X + v.X, o.Y + v.Y}
		}
		return out
	case KindPoint:
		return []Vec{{o.X, o.Y}}
	case KindTile:
		top := o.Y - down*o.Height
		return []Vec{{o.X, top}, {o.X + o.Width, top}, {o.X + o.Width, o.Y}, {o.X, o.Y}}
	default:
		bottom := o.Y + down*o.Height
		return []Vec{{o.X, o.Y}, {o.X + o.Width, o.Y}, {o.X + o.Width, bottom}, {o.X, bottom}}
	}
}

// Rotated returns Points turned clockwise by Rotation degrees around (X, Y).
func (o *Object) Rotated() []Vec {
	return o.rotate(o.Points())
}

// Outline is Rotated with ellipses approximated by a closed polygon of n
// vertices.
func (o *Object) Outline(n int) []Vec {
	if o.Kind != KindEllipse || n < 3 {
		return o.Rotated()
	}
	down := 1.0
	if o.yUp {
		down = -1
	}
	rx, ry := o.Width/2, o.Height/2
	cx, cy := o.X+rx, o.Y+down*ry
	pts := make([]Vec, n)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = Vec{cx + rx*c, cy + ry*s}
	}
	return o.rotate(pts)
}

func (o *Object) rotate(pts []Vec) []Vec {
	if o.Rotation == 0 {
		return pts
	}
	deg := o.Rotation
	if o.yUp {
		deg = -deg
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	for i, p := range pts {
		dx, dy := p.X-o.X, p.Y-o.Y
		pts[i] = Vec{o.X + dx*c - dy*s, o.Y + dx*s + dy*c}
	}
	return pts
}

// ParsePoints reads a "x,y x,y ..." point list.
func ParsePoints(s string) ([]Vec, error) {
	fields := strings.Fields(s)
	out := make([]Vec, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("tmx: point %q: missing comma", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("tmx: point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("tmx: point %q: %w", f, err)
		}
		out = append(out, Vec{x, y})
	}
	return out, nil
}
