package imageload

import (
	"image"
	"image/color"
)

// Placeholder is the handle produced by Headless. It records what would have
// been drawn.
type Placeholder struct {
	Source string
	Rect   image.Rectangle
	Trans  *color.NRGBA
}

// Headless loads nothing. Sheet sizes come from the declared size in the
// request.
type Headless struct{}

func (Headless) Load(req Request) (Sheet, error) {
	return headlessSheet{req: req}, nil
}

type headlessSheet struct {
	req Request
}

func (s headlessSheet) Handle() Handle {
	return Placeholder{Source: s.req.Path, Rect: image.Rectangle{Max: s.req.Size}, Trans: s.req.Trans}
}

func (s headlessSheet) Size() image.Point { return s.req.Size }

func (s headlessSheet) Sub(r image.Rectangle) Handle {
	return Placeholder{Source: s.req.Path, Rect: r, Trans: s.req.Trans}
}
