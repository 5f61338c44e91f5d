package tmx

import (
	"fmt"
	"image"
	"time"

	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/props"
	"github.com/milk9111/tiledmap/xmltree"
)

// loadTileset builds the tileset referenced by a map <tileset> element, either
// inline or from an external TSX document.
func (a *assembler) loadTileset(el *xmltree.Element) (*Tileset, error) {
	firstGID, err := el.Uint32("firstgid", 0)
	if err != nil {
		return nil, err
	}
	if firstGID == 0 {
		return nil, fmt.Errorf("missing firstgid")
	}
	src := el.AttrOr("source", "")
	if src == "" {
		return a.parseTileset(a.path, el, firstGID, "")
	}

	path := a.Docs.Resolve(a.path, src)
	doc, err := a.Docs.Open(path)
	if err != nil {
		return nil, err
	}
	if doc.Name != "tileset" {
		return nil, fmt.Errorf("%s: root element is <%s>, want <tileset>", path, doc.Name)
	}
	ts, err := a.parseTileset(path, doc, firstGID, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := applyTileOverrides(ts, el); err != nil {
		return nil, err
	}
	return ts, nil
}

// applyTileOverrides merges the <tile><properties> children of a map's
// external tileset reference over the tileset's own tile properties.
func applyTileOverrides(ts *Tileset, ref *xmltree.Element) error {
	for _, te := range ref.ChildrenNamed("tile") {
		id, err := te.Uint32("id", 0)
		if err != nil {
			return err
		}
		t, ok := ts.Tile(id)
		if !ok {
			return fmt.Errorf("tile override %d: %w", id, ErrUnknownGID)
		}
		over, err := props.Parse(te.Child("properties"))
		if err != nil {
			return fmt.Errorf("tile override %d: %w", id, err)
		}
		t.Properties = props.Merge(t.Properties, over)
	}
	return nil
}

func (a *assembler) parseTileset(base string, el *xmltree.Element, firstGID uint32, source string) (*Tileset, error) {
	ts := &Tileset{
		Name:     el.AttrOr("name", ""),
		Class:    el.AttrOr("class", ""),
		FirstGID: firstGID,
		Source:   source,
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"tilewidth", &ts.TileWidth},
		{"tileheight", &ts.TileHeight},
		{"spacing", &ts.Spacing},
		{"margin", &ts.Margin},
		{"tilecount", &ts.TileCount},
		{"columns", &ts.Columns},
	}
	var err error
	for _, f := range ints {
		if *f.dst, err = el.Int(f.name, 0); err != nil {
			return nil, err
		}
	}
	if ts.Spacing < 0 || ts.Margin < 0 {
		return nil, fmt.Errorf("negative spacing %d or margin %d", ts.Spacing, ts.Margin)
	}
	if off := el.Child("tileoffset"); off != nil {
		if ts.Offset.X, err = off.Int("x", 0); err != nil {
			return nil, err
		}
		if ts.Offset.Y, err = off.Int("y", 0); err != nil {
			return nil, err
		}
	}
	if ts.Properties, err = props.Parse(el.Child("properties")); err != nil {
		return nil, err
	}

	var sheet imageload.Sheet
	var rects []image.Rectangle
	if img := el.Child("image"); img != nil {
		if ts.Image, sheet, err = a.loadImage(base, img); err != nil {
			return nil, err
		}
		cols, rows := imageload.SheetGrid(sheet.Size(), ts.TileWidth, ts.TileHeight, ts.Margin, ts.Spacing)
		if !a.fits(cols, rows) {
			return nil, fmt.Errorf("image holds %dx%d tiles, limit is %d", cols, rows, a.maxCells)
		}
		rects = imageload.SliceSheet(sheet.Size(), ts.TileWidth, ts.TileHeight, ts.Margin, ts.Spacing)
	}

	tileEls := el.ChildrenNamed("tile")
	span := ts.TileCount
	if span == 0 {
		span = len(rects)
	}
	for _, te := range tileEls {
		id, err := te.Uint32("id", 0)
		if err != nil {
			return nil, err
		}
		if int(id) >= span {
			span = int(id) + 1
		}
	}
	if span > a.maxCells {
		return nil, fmt.Errorf("tileset claims %d tiles, limit is %d", span, a.maxCells)
	}
	if sheet != nil && len(rects) < span {
		a.logf("tileset %q: image yields %d of %d tiles", ts.Name, len(rects), span)
	}
	ts.TileCount = span

	ts.tiles = make([]*Tile, span)
	for i := range ts.tiles {
		t := &Tile{ID: uint32(i), Tileset: ts, Probability: 1, Properties: props.Properties{}}
		if i < len(rects) {
			t.Rect = rects[i]
			t.Image = sheet.Sub(rects[i])
		}
		ts.tiles[i] = t
	}
	for _, te := range tileEls {
		if err := a.parseTile(base, ts, te); err != nil {
			return nil, fmt.Errorf("tile %s: %w", te.AttrOr("id", "?"), err)
		}
	}
	return ts, nil
}

func (a *assembler) parseTile(base string, ts *Tileset, el *xmltree.Element) error {
	id, err := el.Uint32("id", 0)
	if err != nil {
		return err
	}
	t := ts.tiles[id]
	t.Class = el.AttrOr("class", el.AttrOr("type", ""))

	if t.Probability, err = el.Float("probability", 1); err != nil {
		return err
	}
	if t.Properties, err = props.Parse(el.Child("properties")); err != nil {
		return err
	}

	if img := el.Child("image"); img != nil {
		_, sheet, err := a.loadImage(base, img)
		if err != nil {
			return err
		}
		t.Rect = image.Rectangle{Max: sheet.Size()}
		if _, ok := el.Attr("width"); ok {
			var sub [4]int
			for i, name := range []string{"x", "y", "width", "height"} {
				if sub[i], err = el.Int(name, 0); err != nil {
					return err
				}
			}
			t.Rect = image.Rect(sub[0], sub[1], sub[0]+sub[2], sub[1]+sub[3])
			t.Image = sheet.Sub(t.Rect)
		} else {
			t.Image = sheet.Handle()
		}
	}

	if og := el.Child("objectgroup"); og != nil {
		for _, oe := range og.ChildrenNamed("object") {
			o, err := a.loadObject(oe, true)
			if err != nil {
				return fmt.Errorf("collision object: %w", err)
			}
			t.Collision = append(t.Collision, o)
		}
	}

	if anim := el.Child("animation"); anim != nil {
		for _, fe := range anim.ChildrenNamed("frame") {
			tid, err := fe.Uint32("tileid", 0)
			if err != nil {
				return err
			}
			ms, err := fe.Int("duration", 0)
			if err != nil {
				return err
			}
			t.Animation = append(t.Animation, Frame{TileID: tid, Duration: time.Duration(ms) * time.Millisecond})
		}
	}
	return nil
}

// loadImage resolves an <image> element relative to base and hands it to the
// image loader.
func (a *assembler) loadImage(base string, el *xmltree.Element) (*ImageRef, imageload.Sheet, error) {
	src := el.AttrOr("source", "")
	if src == "" {
		return nil, nil, fmt.Errorf("<image> without source")
	}
	ref := &ImageRef{Source: a.Docs.Resolve(base, src)}
	if trans := el.AttrOr("trans", ""); trans != "" {
		c, err := props.ParseColor(trans)
		if err != nil {
			return nil, nil, fmt.Errorf("image %s: trans: %w", src, err)
		}
		ref.Trans = &c
	}
	var err error
	if ref.Width, err = el.Int("width", 0); err != nil {
		return nil, nil, err
	}
	if ref.Height, err = el.Int("height", 0); err != nil {
		return nil, nil, err
	}
	sheet, err := a.images.Load(imageload.Request{
		Path:  ref.Source,
		Trans: ref.Trans,
		Size:  image.Pt(ref.Width, ref.Height),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("image %s: %w", ref.Source, err)
	}
	if ref.Width == 0 && ref.Height == 0 {
		ref.Width, ref.Height = sheet.Size().X, sheet.Size().Y
	}
	ref.Handle = sheet.Handle()
	return ref, sheet, nil
}
