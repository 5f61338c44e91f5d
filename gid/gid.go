// Package gid packs and unpacks Tiled global tile ids.
//
// A GID is a 32-bit value whose three highest bits carry the horizontal,
// vertical and diagonal flip flags of a placed tile. The remaining 29 bits are
// the bare tile id; 0 means "no tile".
package gid

import (
	"errors"
	"fmt"
)

const (
	FlipHorizontal uint32 = 1 << 31
	FlipVertical   uint32 = 1 << 30
	FlipDiagonal   uint32 = 1 << 29
	FlagMask              = FlipHorizontal | FlipVertical | FlipDiagonal

	// MaxTileID is the largest bare tile id that fits beside the flag bits.
	MaxTileID uint32 = FlipDiagonal - 1
)

var ErrInvalidTileID = errors.New("gid: tile id exceeds 29 bits")

// Flags holds the flip flags of a placed tile.
type Flags struct {
	Horizontal bool
	Vertical   bool
	Diagonal   bool
}

// Any reports whether any flag is set.
func (f Flags) Any() bool {
	return f.Horizontal || f.Vertical || f.Diagonal
}

// Index packs the flags as (H<<2)|(V<<1)|D, the order used by the
// orientation table.
func (f Flags) Index() int {
	i := 0
	if f.Horizontal {
		i |= 4
	}
	if f.Vertical {
		i |= 2
	}
	if f.Diagonal {
		i |= 1
	}
	return i
}

func (f Flags) String() string {
	b := []byte("---")
	if f.Horizontal {
		b[0] = 'H'
	}
	if f.Vertical {
		b[1] = 'V'
	}
	if f.Diagonal {
		b[2] = 'D'
	}
	return string(b)
}

// Decode splits a raw GID into its bare tile id and flip flags. It is total
// over uint32.
func Decode(raw uint32) (uint32, Flags) {
	return raw &^ FlagMask, Flags{
		Horizontal: raw&FlipHorizontal != 0,
		Vertical:   raw&FlipVertical != 0,
		Diagonal:   raw&FlipDiagonal != 0,
	}
}

// Encode is the inverse of Decode.
func Encode(id uint32, f Flags) (uint32, error) {
	if id > MaxTileID {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTileID, id)
	}
	if f.Horizontal {
		id |= FlipHorizontal
	}
	if f.Vertical {
		id |= FlipVertical
	}
	if f.Diagonal {
		id |= FlipDiagonal
	}
	return id, nil
}
