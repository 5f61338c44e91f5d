package tmx

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/props"
	"github.com/milk9111/tiledmap/xmltree"
)

// DefaultMaxCells bounds width×height of a single tile layer.
const DefaultMaxCells = 1 << 24

// Loader assembles maps from documents handed out by Docs. Images defaults to
// imageload.Headless. A Loader holds no per-load state and may be shared.
type Loader struct {
	Docs     xmltree.Provider
	Images   imageload.Loader
	InvertY  bool
	MaxCells int
	// Logger receives non-fatal notices. Nil means silent.
	Logger *log.Logger
}

// NewLoader returns a headless loader reading documents from docs.
func NewLoader(docs xmltree.Provider) *Loader {
	return &Loader{Docs: docs, Images: imageload.Headless{}, MaxCells: DefaultMaxCells}
}

// LoadFile loads a map from the local filesystem without loading images.
func LoadFile(path string) (*Map, error) {
	return NewLoader(xmltree.OSProvider{}).Load(path)
}

// Load reads and assembles the map document name. Any failure aborts the load
// and is reported as a *LoadError.
func (l *Loader) Load(name string) (*Map, error) {
	if l.Docs == nil {
		return nil, &LoadError{Path: name, Err: errors.New("no document provider")}
	}
	root, err := l.Docs.Open(name)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return l.LoadElement(name, root)
}

// LoadElement assembles an already parsed map document. name is used to
// resolve external references.
func (l *Loader) LoadElement(name string, root *xmltree.Element) (*Map, error) {
	a := &assembler{
		Loader:    l,
		path:      name,
		images:    l.Images,
		maxCells:  l.MaxCells,
		templates: map[string]*template{},
	}
	if a.images == nil {
		a.images = imageload.Headless{}
	}
	if a.maxCells <= 0 {
		a.maxCells = DefaultMaxCells
	}
	m, err := a.assemble(root)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, &LoadError{Path: name, Err: err}
	}
	return m, nil
}

// assembler carries the state of one load.
type assembler struct {
	*Loader
	path      string
	images    imageload.Loader
	maxCells  int
	m         *Map
	templates map[string]*template
}

func (a *assembler) fail(where string, err error) error {
	return &LoadError{Path: a.path, Where: where, Err: err}
}

// fits reports whether a w by h grid stays within the cell limit. The
// product is never formed, so huge dimensions cannot wrap.
func (a *assembler) fits(w, h int) bool {
	if w < 0 || h < 0 {
		return false
	}
	return w == 0 || h <= a.maxCells/w
}

func (a *assembler) logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf("tmx: %s: "+format, append([]any{a.path}, args...)...)
	}
}

func (a *assembler) assemble(root *xmltree.Element) (*Map, error) {
	if root.Name != "map" {
		return nil, a.fail("map", fmt.Errorf("root element is <%s>, want <map>", root.Name))
	}
	m, err := a.parseMapAttrs(root)
	if err != nil {
		return nil, a.fail("map", err)
	}
	a.m = m

	for _, el := range root.ChildrenNamed("tileset") {
		ts, err := a.loadTileset(el)
		if err != nil {
			return nil, a.fail(fmt.Sprintf("tileset %q", tilesetLabel(el)), err)
		}
		if err := m.Tilesets.Register(ts); err != nil {
			return nil, a.fail(fmt.Sprintf("tileset %q", ts.Name), err)
		}
	}

	if err := a.loadLayers(root, groupState{opacity: 1, visible: true}); err != nil {
		return nil, err
	}
	for i, l := range m.Layers {
		l.Info().Index = i
	}
	return m, nil
}

func (a *assembler) parseMapAttrs(root *xmltree.Element) (*Map, error) {
	m := &Map{
		Path:         a.path,
		Version:      root.AttrOr("version", ""),
		TiledVersion: root.AttrOr("tiledversion", ""),
		Class:        root.AttrOr("class", ""),
		Orientation:  root.AttrOr("orientation", "orthogonal"),
		RenderOrder:  root.AttrOr("renderorder", "right-down"),
		Tilesets:     &Registry{},
		InvertY:      a.InvertY,
	}
	if m.Orientation != "orthogonal" && m.Orientation != "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOrientation, m.Orientation)
	}
	m.Orientation = "orthogonal"

	infinite, err := root.Bool("infinite", false)
	if err != nil {
		return nil, err
	}
	if infinite {
		return nil, fmt.Errorf("%w: infinite maps are not supported", ErrUnalignedLayer)
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &m.Width},
		{"height", &m.Height},
		{"tilewidth", &m.TileWidth},
		{"tileheight", &m.TileHeight},
		{"nextlayerid", &m.NextLayerID},
		{"nextobjectid", &m.NextObjectID},
	}
	for _, f := range ints {
		if *f.dst, err = root.Int(f.name, 0); err != nil {
			return nil, err
		}
	}
	if m.Width < 0 || m.Height < 0 || m.TileWidth < 0 || m.TileHeight < 0 {
		return nil, fmt.Errorf("negative map dimensions")
	}
	if !a.fits(m.Width, m.Height) {
		return nil, fmt.Errorf("%dx%d map exceeds %d cells", m.Width, m.Height, a.maxCells)
	}

	if bg, ok := root.Attr("backgroundcolor"); ok && bg != "" {
		c, err := props.ParseColor(bg)
		if err != nil {
			return nil, fmt.Errorf("backgroundcolor: %w", err)
		}
		m.Background = c
	}

	if m.Properties, err = props.Parse(root.Child("properties")); err != nil {
		return nil, err
	}
	return m, nil
}

func tilesetLabel(el *xmltree.Element) string {
	if n, ok := el.Attr("name"); ok {
		return n
	}
	return el.AttrOr("source", "")
}
