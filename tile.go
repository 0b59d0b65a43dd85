package tilelayer

import (
	"fmt"
	"strconv"
)

// Tile is a rectangular part of a layer with its own drawing surface.
//
// X and Y are the tile's offset in layer pixels. A tile is never resized
// after partitioning; only its surface buffer can be released.
type Tile struct {
	X, Y          int
	Width, Height int

	// Surface is the tile's exclusively owned drawing surface, sized
	// Width x Height until the layer is cleared.
	Surface *Surface

	// Placement positions the surface inside the layer container.
	Placement Placement
}

// Area returns the tile area in pixels.
func (t *Tile) Area() int {
	return t.Width * t.Height
}

// Bounds returns the tile's pixel bounds in layer space.
func (t *Tile) Bounds() (x, y, w, h int) {
	return t.X, t.Y, t.Width, t.Height
}

// Contains reports whether the layer pixel (px, py) lies within the tile.
func (t *Tile) Contains(px, py int) bool {
	return px >= t.X && px < t.X+t.Width &&
		py >= t.Y && py < t.Y+t.Height
}

// ScreenRect returns the tile's rectangle inside a container occupying box.
func (t *Tile) ScreenRect(box Rect) Rect {
	return t.Placement.Rect(box)
}

// Placement expresses a tile's position and size as fractions of the
// container, computed from presentation units (pixels divided by the scale
// ratio). It does not depend on the container's actual size, so an embedder
// may resize the container without re-partitioning.
type Placement struct {
	// Presentation-unit geometry of the tile and of the whole layer.
	Left, Top, Width, Height float64
	TotalWidth, TotalHeight  float64
}

// Fractions returns left, top, width and height relative to the container.
func (p Placement) Fractions() (left, top, width, height float64) {
	return p.Left / p.TotalWidth, p.Top / p.TotalHeight,
		p.Width / p.TotalWidth, p.Height / p.TotalHeight
}

// Rect maps the placement into a container occupying box.
func (p Placement) Rect(box Rect) Rect {
	l, t, w, h := p.Fractions()
	return Rect{
		X:      box.X + box.Width*l,
		Y:      box.Y + box.Height*t,
		Width:  box.Width * w,
		Height: box.Height * h,
	}
}

// Style returns the CSS declarations that place the tile surface inside a
// relatively positioned container.
func (p Placement) Style() map[string]string {
	return map[string]string{
		"position": "absolute",
		"left":     percentOf(p.Left, p.TotalWidth),
		"top":      percentOf(p.Top, p.TotalHeight),
		"width":    percentOf(p.Width, p.TotalWidth),
		"height":   percentOf(p.Height, p.TotalHeight),
	}
}

func percentOf(v, total float64) string {
	return fmt.Sprintf("calc(100%% * %s / %s)", formatFloat(v), formatFloat(total))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
