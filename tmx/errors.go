package tmx

import (
	"errors"
	"fmt"
)

var (
	ErrMapLoadFailed          = errors.New("tmx: map load failed")
	ErrUnknownGID             = errors.New("tmx: unknown gid")
	ErrOverlappingTileset     = errors.New("tmx: overlapping tileset")
	ErrUnsupportedOrientation = errors.New("tmx: unsupported orientation")
	ErrUnalignedLayer         = errors.New("tmx: layer not aligned to the map grid")
	ErrOutOfBounds            = errors.New("tmx: coordinates out of bounds")
	ErrLayerNotFound          = errors.New("tmx: layer not found")
	ErrObjectNotFound         = errors.New("tmx: object not found")
	ErrTilesetNotFound        = errors.New("tmx: tileset not found")
)

// LoadError reports where a map load failed. It matches ErrMapLoadFailed with
// errors.Is and unwraps to the underlying cause.
type LoadError struct {
	Path  string
	Where string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("tmx: load %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("tmx: load %s: %s: %v", e.Path, e.Where, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrMapLoadFailed }
