package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/tiledmap/imageload"
	"github.com/milk9111/tiledmap/tmx"
	"github.com/milk9111/tiledmap/xmltree"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.MaxCells != tmx.DefaultMaxCells || opts.SolidProperty != "solid" || opts.Viewer.Scale != 2 {
		t.Fatalf("unexpected defaults %+v", opts)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiledmap.yaml")
	data := []byte(`headless: true
invert_y: true
solid_property: blocked
collision:
  bounds: false
  object_layers: [walls]
viewer:
  scale: 3
  debounce_ms: 250
  background: "#203040"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !opts.Headless || !opts.InvertY || opts.SolidProperty != "blocked" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.MaxCells != tmx.DefaultMaxCells {
		t.Fatalf("max_cells default lost: %d", opts.MaxCells)
	}
	c := opts.CollisionOptions()
	if c.SolidProperty != "blocked" || c.Friction != 0.8 || c.Bounds || len(c.ObjectLayers) != 1 || c.ObjectLayers[0] != "walls" {
		t.Fatalf("unexpected collision options %+v", c)
	}
	if opts.Viewer.Scale != 3 || !opts.Viewer.Watch || opts.Viewer.Debounce() != 250*time.Millisecond {
		t.Fatalf("unexpected viewer options %+v", opts.Viewer)
	}
	if opts.Viewer.Background == nil || opts.Viewer.Background.NRGBA != (color.NRGBA{R: 0x20, G: 0x30, B: 0x40, A: 0xff}) {
		t.Fatalf("background = %+v", opts.Viewer.Background)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":         "viewer: [",
		"negative_scale": "viewer:\n  scale: -1\n",
		"zero_cells":     "max_cells: 0\n",
		"empty_solid":    "solid_property: \"\"\n",
		"neg_friction":   "collision:\n  friction: -0.5\n",
		"bad_color":      "viewer:\n  background: \"#12\"\n",
		"color_map":      "viewer:\n  background: {r: 1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApply(t *testing.T) {
	opts := Default()
	opts.InvertY = true
	opts.MaxCells = 64
	opts.Headless = true
	l := &tmx.Loader{Docs: xmltree.OSProvider{}}
	opts.Apply(l)
	if !l.InvertY || l.MaxCells != 64 {
		t.Fatalf("loader = %+v", l)
	}
	if _, ok := l.Images.(imageload.Headless); !ok {
		t.Fatalf("images = %T", l.Images)
	}
}
