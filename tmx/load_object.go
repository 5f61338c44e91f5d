package tmx

import (
	"fmt"
	"image/color"
	"maps"
	"strconv"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/props"
	"github.com/milk9111/tiledmap/xmltree"
)

// template is a parsed .tx document.
type template struct {
	path    string
	object  *xmltree.Element
	tileset *xmltree.Element
}

var shapeElements = []string{"polygon", "polyline", "ellipse", "point", "text"}

func (a *assembler) loadTemplate(ref string) (*template, error) {
	path := a.Docs.Resolve(a.path, ref)
	if t, ok := a.templates[path]; ok {
		return t, nil
	}
	doc, err := a.Docs.Open(path)
	if err != nil {
		return nil, err
	}
	if doc.Name != "template" {
		return nil, fmt.Errorf("%s: root element is <%s>, want <template>", path, doc.Name)
	}
	t := &template{path: path, object: doc.Child("object"), tileset: doc.Child("tileset")}
	if t.object == nil {
		return nil, fmt.Errorf("%s: template has no <object>", path)
	}
	a.templates[path] = t
	return t, nil
}

// templateGID maps a GID written against the template's own tileset reference
// onto the map tileset loaded from the same TSX.
func (a *assembler) templateGID(t *template, raw uint32) (uint32, error) {
	if t.tileset == nil {
		return 0, fmt.Errorf("%w: template %s has a gid but no tileset", ErrUnknownGID, t.path)
	}
	first, err := t.tileset.Uint32("firstgid", 0)
	if err != nil {
		return 0, err
	}
	src := a.Docs.Resolve(t.path, t.tileset.AttrOr("source", ""))
	id, flags := gid.Decode(raw)
	if id < first {
		return 0, fmt.Errorf("%w: %d below template firstgid %d", ErrUnknownGID, id, first)
	}
	for _, ts := range a.m.Tilesets.sets {
		if ts.Source == src {
			return gid.Encode(ts.FirstGID+id-first, flags)
		}
	}
	return 0, fmt.Errorf("%w: map does not load template tileset %s", ErrUnknownGID, src)
}

// withTemplate overlays el on the template it references and returns the
// effective element plus the template's properties.
func (a *assembler) withTemplate(el *xmltree.Element, ref string) (*xmltree.Element, props.Properties, error) {
	t, err := a.loadTemplate(ref)
	if err != nil {
		return nil, nil, err
	}
	merged := &xmltree.Element{Name: "object", Attrs: maps.Clone(t.object.Attrs), Children: t.object.Children, Text: t.object.Text}
	maps.Copy(merged.Attrs, el.Attrs)
	if _, own := el.Attrs["gid"]; !own {
		if raw, err := t.object.Uint32("gid", 0); err != nil {
			return nil, nil, err
		} else if raw != 0 {
			g, err := a.templateGID(t, raw)
			if err != nil {
				return nil, nil, err
			}
			merged.Attrs["gid"] = strconv.FormatUint(uint64(g), 10)
		}
	}
	for _, name := range shapeElements {
		if el.Child(name) != nil {
			merged.Children = el.Children
			break
		}
	}
	base, err := props.Parse(t.object.Child("properties"))
	if err != nil {
		return nil, nil, err
	}
	return merged, base, nil
}

// loadObject parses an <object>. Collision objects inside a tile are local to
// the tile: they never carry templates, tile references or Y inversion.
func (a *assembler) loadObject(el *xmltree.Element, tileLocal bool) (*Object, error) {
	o := &Object{}
	src := el
	base := props.Properties{}
	if ref := el.AttrOr("template", ""); ref != "" && !tileLocal {
		var err error
		if src, base, err = a.withTemplate(el, ref); err != nil {
			return nil, fmt.Errorf("template %s: %w", ref, err)
		}
		o.Template = a.Docs.Resolve(a.path, ref)
	}

	o.Name = src.AttrOr("name", "")
	o.Type = src.AttrOr("type", src.AttrOr("class", ""))
	var err error
	if o.ID, err = src.Int("id", 0); err != nil {
		return nil, err
	}
	floats := []struct {
		name string
		dst  *float64
	}{
		{"x", &o.X},
		{"y", &o.Y},
		{"width", &o.Width},
		{"height", &o.Height},
		{"rotation", &o.Rotation},
	}
	for _, f := range floats {
		if *f.dst, err = src.Float(f.name, 0); err != nil {
			return nil, err
		}
	}
	if o.Visible, err = src.Bool("visible", true); err != nil {
		return nil, err
	}
	own, err := props.Parse(el.Child("properties"))
	if err != nil {
		return nil, err
	}
	o.Properties = props.Merge(base, own)

	raw, err := src.Uint32("gid", 0)
	if err != nil {
		return nil, err
	}
	switch {
	case raw != 0 && !tileLocal:
		id, flags := gid.Decode(raw)
		t, err := a.m.Tilesets.Tile(id)
		if err != nil {
			return nil, err
		}
		o.Kind, o.Tile, o.Flags = KindTile, t, flags
		if _, ok := src.Attr("width"); !ok {
			o.Width = float64(t.Tileset.TileWidth)
		}
		if _, ok := src.Attr("height"); !ok {
			o.Height = float64(t.Tileset.TileHeight)
		}
	case src.Child("polygon") != nil:
		o.Kind = KindPolygon
		o.Vertices, err = ParsePoints(src.Child("polygon").AttrOr("points", ""))
	case src.Child("polyline") != nil:
		o.Kind = KindPolyline
		o.Vertices, err = ParsePoints(src.Child("polyline").AttrOr("points", ""))
	case src.Child("ellipse") != nil:
		o.Kind = KindEllipse
	case src.Child("point") != nil:
		o.Kind = KindPoint
	case src.Child("text") != nil:
		o.Kind = KindText
		o.Text, err = parseText(src.Child("text"))
	default:
		o.Kind = KindRectangle
	}
	if err != nil {
		return nil, err
	}

	if a.InvertY && !tileLocal {
		o.yUp = true
		o.Y = float64(a.m.PixelSize().Y) - o.Y
		for i := range o.Vertices {
			o.Vertices[i].Y = -o.Vertices[i].Y
		}
	}
	return o, nil
}

func parseText(el *xmltree.Element) (*Text, error) {
	t := &Text{
		Text:       el.Text,
		FontFamily: el.AttrOr("fontfamily", "sans-serif"),
		HAlign:     el.AttrOr("halign", "left"),
		VAlign:     el.AttrOr("valign", "top"),
		Color:      color.NRGBA{A: 0xff},
	}
	var err error
	if t.PixelSize, err = el.Int("pixelsize", 16); err != nil {
		return nil, err
	}
	bools := []struct {
		name string
		def  bool
		dst  *bool
	}{
		{"wrap", false, &t.Wrap},
		{"bold", false, &t.Bold},
		{"italic", false, &t.Italic},
		{"underline", false, &t.Underline},
		{"strikeout", false, &t.Strikeout},
		{"kerning", true, &t.Kerning},
	}
	for _, b := range bools {
		if *b.dst, err = el.Bool(b.name, b.def); err != nil {
			return nil, err
		}
	}
	if c := el.AttrOr("color", ""); c != "" {
		if t.Color, err = props.ParseColor(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}
