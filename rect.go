package tilelayer

// Rect is an axis-aligned rectangle in presentation space.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IntersectArea returns the area of r that lies inside clip.
//
// Both corners of r are clamped into clip independently before the
// overlap is measured, so a rectangle entirely outside clip yields zero.
func (r Rect) IntersectArea(clip Rect) float64 {
	x0 := clamp(r.X, clip.X, clip.Right())
	y0 := clamp(r.Y, clip.Y, clip.Bottom())
	x1 := clamp(r.Right(), clip.X, clip.Right())
	y1 := clamp(r.Bottom(), clip.Y, clip.Bottom())

	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
