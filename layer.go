package tilelayer

import (
	"context"
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"
)

// Container is the presentation element of a layer. It holds one surface
// per tile and knows where the embedder currently shows it on screen.
//
// Container is safe for concurrent use: embedders may move the box (for
// example while scrolling) while a task reads it between dispatches.
type Container struct {
	className string
	children  []*Surface

	mu     sync.RWMutex
	box    Rect
	hidden bool
}

// ClassName returns the container's class name.
func (c *Container) ClassName() string {
	return c.className
}

// Children returns the tile surfaces in tile order.
func (c *Container) Children() []*Surface {
	return c.children
}

// Box returns the container's current on-screen rectangle.
func (c *Container) Box() Rect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.box
}

// SetBox moves or resizes the container on screen. Tile placement is
// relative, so no tile needs to be recomputed.
func (c *Container) SetBox(box Rect) {
	c.mu.Lock()
	c.box = box
	c.mu.Unlock()
}

// Layer is a partitioned rendering surface: an ordered set of tiles that
// exactly covers Width x Height pixels, plus the container presenting them.
type Layer struct {
	width, height int
	sx, sy        Ratio
	maxArea       int

	tiles     []*Tile
	container *Container
}

// NewLayer partitions a width x height region into tiles below maxArea
// and allocates a surface for each. See [Partition] for the splitting rule.
func NewLayer(width, height, maxArea int, sx, sy Ratio, opts ...LayerOption) (*Layer, error) {
	o := defaultLayerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	geom, err := Partition(width, height, maxArea, sx, sy)
	if err != nil {
		return nil, err
	}

	l := &Layer{
		width:   width,
		height:  height,
		sx:      sx,
		sy:      sy,
		maxArea: maxArea,
		tiles:   make([]*Tile, len(geom)),
		container: &Container{
			className: o.className,
			children:  make([]*Surface, len(geom)),
			box:       Rect{Width: sx.Present(width), Height: sy.Present(height)},
		},
	}
	if o.box != nil {
		l.container.box = *o.box
	}
	for i := range geom {
		t := &geom[i]
		t.Surface = NewSurface(t.Width, t.Height)
		l.tiles[i] = t
		l.container.children[i] = t.Surface
	}

	Logger().Debug("tilelayer: partitioned layer",
		"width", width, "height", height, "maxArea", maxArea,
		"sx", sx.String(), "sy", sy.String(), "tiles", len(geom))
	return l, nil
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int { return l.width }

// Height returns the layer height in pixels.
func (l *Layer) Height() int { return l.height }

// Container returns the layer's presentation element.
func (l *Layer) Container() *Container { return l.container }

// Tiles returns the tiles in partition order. The slice must not be modified.
func (l *Layer) Tiles() []*Tile { return l.tiles }

// SetAttribute sets a named attribute on every tile surface.
func (l *Layer) SetAttribute(name, value string) {
	for _, t := range l.tiles {
		t.Surface.SetAttribute(name, value)
	}
}

// Hidden reports the container's hidden style property.
//
// The property is stored and reported only. Compose and Present ignore it.
func (l *Layer) Hidden() bool {
	l.container.mu.RLock()
	defer l.container.mu.RUnlock()
	return l.container.hidden
}

// SetHidden writes the container's hidden style property.
func (l *Layer) SetHidden(hidden bool) {
	l.container.mu.Lock()
	l.container.hidden = hidden
	l.container.mu.Unlock()
}

// Clear releases every tile surface buffer by resizing it to 0x0. The
// tiles themselves, with their geometry and placement, are kept.
func (l *Layer) Clear() {
	for _, t := range l.tiles {
		t.Surface.SetSize(0, 0)
	}
}

// Bytes returns the number of pixel bytes currently held by tile surfaces.
func (l *Layer) Bytes() int {
	n := 0
	for _, t := range l.tiles {
		n += len(t.Surface.Data())
	}
	return n
}

// Render starts rendering page into the layer's tiles, most visible tile
// first. The first tile is dispatched before Render returns.
func (l *Layer) Render(ctx context.Context, page PageRenderer, params RenderParams, opts ...RenderOption) *Task {
	return NewTask(ctx, page, params, l.container, l.tiles, opts...)
}

// Compose copies every tile surface into one image of the layer's pixel
// size. Cleared tiles leave their area transparent.
func (l *Layer) Compose() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	for _, t := range l.tiles {
		if t.Surface.Width() == 0 {
			continue
		}
		r := image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height)
		draw.Draw(dst, r, t.Surface.Context(), image.Point{}, draw.Src)
	}
	return dst
}

// Present stretches each tile surface onto its placement inside box, the
// way a presentation layer scales tile surfaces by the output ratio.
func (l *Layer) Present(dst draw.Image, box image.Rectangle, scaler draw.Scaler) {
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	frame := Rect{
		X:      float64(box.Min.X),
		Y:      float64(box.Min.Y),
		Width:  float64(box.Dx()),
		Height: float64(box.Dy()),
	}
	for _, t := range l.tiles {
		if t.Surface.Width() == 0 {
			continue
		}
		r := t.ScreenRect(frame)
		target := image.Rect(
			roundInt(r.X), roundInt(r.Y),
			roundInt(r.Right()), roundInt(r.Bottom()),
		)
		scaler.Scale(dst, target, t.Surface.Context(), t.Surface.Bounds(), draw.Src, nil)
	}
}

// roundInt rounds v to the nearest pixel, half away from zero.
func roundInt(v float64) int {
	return int(math.Round(v))
}
