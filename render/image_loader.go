// Package render backs map images with ebiten and draws assembled maps.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/milk9111/tiledmap/imageload"
)

// Loader implements imageload.Loader with ebiten images. Images are cached by
// path and transparent color.
type Loader struct {
	// FS resolves image paths. Nil reads from the local filesystem.
	FS    fs.FS
	Cache *Cache
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{FS: fsys, Cache: &Cache{}}
}

// Load decodes the requested image, applies its color key and caches it.
func (l *Loader) Load(req imageload.Request) (imageload.Sheet, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("render: empty image path")
	}
	if l.Cache == nil {
		l.Cache = &Cache{}
	}
	key := cacheKey(req)
	if img := l.Cache.Get(key); img != nil {
		return Sheet{Image: img}, nil
	}
	src, err := decodeImage(l.FS, req.Path)
	if err != nil {
		return nil, err
	}
	if req.Trans != nil {
		src = ApplyColorKey(src, *req.Trans)
	}
	img := ebiten.NewImageFromImage(src)
	l.Cache.Register(key, img)
	return Sheet{Image: img}, nil
}

func cacheKey(req imageload.Request) string {
	if req.Trans == nil {
		return req.Path
	}
	c := req.Trans
	return fmt.Sprintf("%s#%02x%02x%02x", req.Path, c.R, c.G, c.B)
}

func decodeImage(fsys fs.FS, name string) (image.Image, error) {
	var (
		b   []byte
		err error
	)
	if fsys != nil {
		b, err = fs.ReadFile(fsys, strings.TrimPrefix(path.Clean(name), "/"))
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("render: load image %s: %w", name, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("render: decode image %s: %w", name, err)
	}
	return img, nil
}

// ApplyColorKey returns a copy of src in which every pixel whose color
// matches key, ignoring alpha, is fully transparent.
func ApplyColorKey(src image.Image, key color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if c.R == key.R && c.G == key.G && c.B == key.B {
				c = color.NRGBA{}
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// Sheet is an ebiten-backed imageload.Sheet. Sub-images share the sheet's
// texture.
type Sheet struct {
	Image *ebiten.Image
}

func (s Sheet) Handle() imageload.Handle { return s.Image }

func (s Sheet) Size() image.Point { return s.Image.Bounds().Size() }

func (s Sheet) Sub(r image.Rectangle) imageload.Handle {
	if sub, ok := s.Image.SubImage(r.Add(s.Image.Bounds().Min)).(*ebiten.Image); ok {
		return sub
	}
	return nil
}
