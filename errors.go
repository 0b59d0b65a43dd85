package tilelayer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry is returned when a layer is requested with a
	// non-positive size or an area cap that no tile can satisfy.
	ErrInvalidGeometry = errors.New("tilelayer: invalid layer geometry")

	// ErrInvalidRatio is returned for a scale ratio with a non-positive term.
	ErrInvalidRatio = errors.New("tilelayer: invalid scale ratio")

	// ErrCanceled is reported by a task that was stopped with Cancel or by
	// its context. It marks a deliberate stop, not a render failure.
	ErrCanceled = errors.New("tilelayer: render task canceled")

	// ErrNilRenderer is reported by a task created without a page renderer.
	ErrNilRenderer = errors.New("tilelayer: page renderer must not be nil")

	// ErrNilOperation is wrapped in the *TileError of a tile whose
	// PageRenderer.Render returned no operation.
	ErrNilOperation = errors.New("tilelayer: page renderer returned nil operation")
)

// TileError reports the failure of a single tile render.
type TileError struct {
	// Index is the tile's position in the layer's tile list.
	Index int

	X, Y, Width, Height int

	Err error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("tilelayer: render tile %d (%dx%d at %d,%d): %v",
		e.Index, e.Width, e.Height, e.X, e.Y, e.Err)
}

func (e *TileError) Unwrap() error { return e.Err }
