package tmx

import (
	"fmt"
	"slices"

	"github.com/milk9111/tiledmap/gid"
	"github.com/milk9111/tiledmap/layerdata"
	"github.com/milk9111/tiledmap/props"
	"github.com/milk9111/tiledmap/xmltree"
)

// groupState is what enclosing <group> layers contribute to their children.
type groupState struct {
	path    []string
	offset  Vec
	opacity float64
	visible bool
}

func layerWhere(el *xmltree.Element) string {
	return fmt.Sprintf("%s %q", el.Name, el.AttrOr("name", el.AttrOr("id", "")))
}

// loadLayers appends the layers below parent to the map in document order,
// flattening groups.
func (a *assembler) loadLayers(parent *xmltree.Element, g groupState) error {
	for _, el := range parent.Children {
		var (
			layer Layer
			err   error
		)
		switch el.Name {
		case "layer":
			layer, err = a.loadTileLayer(el, g)
		case "objectgroup":
			layer, err = a.loadObjectGroup(el, g)
		case "imagelayer":
			layer, err = a.loadImageLayer(el, g)
		case "group":
			info, err := a.layerInfo(el, g)
			if err != nil {
				return a.fail(layerWhere(el), err)
			}
			sub := groupState{
				path:    append(slices.Clone(g.path), info.Name),
				offset:  info.Offset,
				opacity: info.Opacity,
				visible: info.Visible,
			}
			if err := a.loadLayers(el, sub); err != nil {
				return err
			}
			continue
		case "properties", "tileset", "editorsettings":
			continue
		default:
			a.logf("ignoring <%s>", el.Name)
			continue
		}
		if err != nil {
			return a.fail(layerWhere(el), err)
		}
		a.m.Layers = append(a.m.Layers, layer)
	}
	return nil
}

func (a *assembler) layerInfo(el *xmltree.Element, g groupState) (LayerInfo, error) {
	info := LayerInfo{
		Name:  el.AttrOr("name", ""),
		Class: el.AttrOr("class", ""),
		Group: slices.Clone(g.path),
	}
	var err error
	if info.ID, err = el.Int("id", 0); err != nil {
		return info, err
	}
	if info.Visible, err = el.Bool("visible", true); err != nil {
		return info, err
	}
	if info.Opacity, err = el.Float("opacity", 1); err != nil {
		return info, err
	}
	if info.Offset.X, err = el.Float("offsetx", 0); err != nil {
		return info, err
	}
	if info.Offset.Y, err = el.Float("offsety", 0); err != nil {
		return info, err
	}
	if info.Properties, err = props.Parse(el.Child("properties")); err != nil {
		return info, err
	}
	info.Visible = info.Visible && g.visible
	info.Opacity *= g.opacity
	info.Offset.X += g.offset.X
	info.Offset.Y += g.offset.Y
	return info, nil
}

func (a *assembler) loadTileLayer(el *xmltree.Element, g groupState) (*TileLayer, error) {
	info, err := a.layerInfo(el, g)
	if err != nil {
		return nil, err
	}
	w, err := el.Int("width", a.m.Width)
	if err != nil {
		return nil, err
	}
	h, err := el.Int("height", a.m.Height)
	if err != nil {
		return nil, err
	}
	if w != a.m.Width || h != a.m.Height {
		return nil, fmt.Errorf("%w: layer is %dx%d, map is %dx%d", ErrUnalignedLayer, w, h, a.m.Width, a.m.Height)
	}
	if !a.fits(w, h) {
		return nil, fmt.Errorf("%w: %dx%d layer exceeds %d cells", layerdata.ErrMalformed, w, h, a.maxCells)
	}

	dataEl := el.Child("data")
	if dataEl == nil {
		return nil, fmt.Errorf("%w: missing <data>", layerdata.ErrMalformed)
	}
	if dataEl.Child("chunk") != nil {
		return nil, fmt.Errorf("%w: chunked layer data", ErrUnalignedLayer)
	}
	d := layerdata.Data{
		Encoding:    dataEl.AttrOr("encoding", ""),
		Compression: dataEl.AttrOr("compression", ""),
		Text:        dataEl.Text,
	}
	if d.Encoding == "" || d.Encoding == layerdata.EncodingXML {
		for _, te := range dataEl.ChildrenNamed("tile") {
			v, err := te.Uint32("gid", 0)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", layerdata.ErrMalformed, err)
			}
			d.Tiles = append(d.Tiles, v)
		}
	}
	raw, err := layerdata.Decode(d, w*h)
	if err != nil {
		return nil, err
	}

	tl := &TileLayer{LayerInfo: info, Width: w, Height: h, cells: make([]Cell, w*h)}
	for i, r := range raw {
		if r == 0 {
			continue
		}
		id, flags := gid.Decode(r)
		t, err := a.m.Tilesets.Tile(id)
		if err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", i%w, i/w, err)
		}
		tl.cells[i] = Cell{Tile: t, Flags: flags}
	}
	return tl, nil
}

func (a *assembler) loadObjectGroup(el *xmltree.Element, g groupState) (*ObjectGroup, error) {
	info, err := a.layerInfo(el, g)
	if err != nil {
		return nil, err
	}
	og := &ObjectGroup{LayerInfo: info, DrawOrder: el.AttrOr("draworder", "topdown")}
	if c := el.AttrOr("color", ""); c != "" {
		col, err := props.ParseColor(c)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		og.Color = &col
	}
	for _, oe := range el.ChildrenNamed("object") {
		o, err := a.loadObject(oe, false)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", oe.AttrOr("id", oe.AttrOr("name", "?")), err)
		}
		og.Objects = append(og.Objects, o)
	}
	return og, nil
}

func (a *assembler) loadImageLayer(el *xmltree.Element, g groupState) (*ImageLayer, error) {
	info, err := a.layerInfo(el, g)
	if err != nil {
		return nil, err
	}
	il := &ImageLayer{LayerInfo: info}
	if il.RepeatX, err = el.Bool("repeatx", false); err != nil {
		return nil, err
	}
	if il.RepeatY, err = el.Bool("repeaty", false); err != nil {
		return nil, err
	}
	if img := el.Child("image"); img != nil && img.AttrOr("source", "") != "" {
		if il.Image, _, err = a.loadImage(a.path, img); err != nil {
			return nil, err
		}
	}
	return il, nil
}
