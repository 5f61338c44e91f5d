// Package imageload defines the image collaborator used while assembling a
// map, the sheet slicing rule for single-image tilesets, and a headless
// loader that needs no rendering backend.
package imageload

import (
	"image"
	"image/color"
)

// Handle is an opaque image reference owned by the loader that produced it.
type Handle any

// Request names an image to load. Path is already resolved against the
// referencing document. Size is the declared pixel size from the <image>
// element, zero when absent.
type Request struct {
	Path  string
	Trans *color.NRGBA
	Size  image.Point
}

// Sheet is a loaded image that can hand out cropped sub-images.
type Sheet interface {
	Handle() Handle
	Size() image.Point
	Sub(r image.Rectangle) Handle
}

// Loader creates sheets. Implementations may cache by request.
type Loader interface {
	Load(req Request) (Sheet, error)
}

// SheetGrid returns how many whole tiles fit across and down a sheet. Rows
// start at margin and advance by tileH+spacing while a full tile still fits
// inside size; columns likewise. Non-positive tile sizes and negative margin
// or spacing fit nothing.
func SheetGrid(size image.Point, tileW, tileH, margin, spacing int) (cols, rows int) {
	if tileW <= 0 || tileH <= 0 || margin < 0 || spacing < 0 {
		return 0, 0
	}
	return fit(size.X, tileW, margin, spacing), fit(size.Y, tileH, margin, spacing)
}

func fit(extent, tile, margin, spacing int) int {
	if margin > extent || tile > extent-margin {
		return 0
	}
	step := tile + spacing
	if step <= 0 {
		// wrapped; only the first tile can fit
		return 1
	}
	return (extent-margin-tile)/step + 1
}

// SliceSheet returns the tile rectangles of a sheet in row-major order,
// following SheetGrid. Callers bound the grid before slicing large sheets.
func SliceSheet(size image.Point, tileW, tileH, margin, spacing int) []image.Rectangle {
	cols, rows := SheetGrid(size, tileW, tileH, margin, spacing)
	out := make([]image.Rectangle, 0, cols*rows)
	for r := 0; r < rows; r++ {
		y := margin + r*(tileH+spacing)
		for c := 0; c < cols; c++ {
			x := margin + c*(tileW+spacing)
			out = append(out, image.Rect(x, y, x+tileW, y+tileH))
		}
	}
	return out
}
