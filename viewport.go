package tilelayer

// Viewport reports the region currently visible to the user, in the same
// space as the container box.
type Viewport interface {
	VisibleRegion() Rect
}

// ViewportFunc adapts a function to the Viewport interface.
type ViewportFunc func() Rect

// VisibleRegion calls f.
func (f ViewportFunc) VisibleRegion() Rect { return f() }

// StaticViewport is a fixed visible region.
type StaticViewport Rect

// VisibleRegion returns the region itself.
func (v StaticViewport) VisibleRegion() Rect { return Rect(v) }

// containerViewport treats the whole container as visible.
type containerViewport struct{ c *Container }

func (v containerViewport) VisibleRegion() Rect { return v.c.Box() }
