package tilelayer

import (
	"image"
	"image/color"
	"maps"
	"sync"
)

// Surface is the drawing surface owned by a single tile.
//
// Pixels are stored as RGBA, 4 bytes per pixel, row-major. Renderers draw
// into the buffer through [Surface.Context]. Attributes are free-form
// name/value pairs propagated by [Layer.SetAttribute].
type Surface struct {
	width  int
	height int
	data   []uint8

	mu    sync.RWMutex
	attrs map[string]string
}

// NewSurface creates a surface with a zeroed buffer of the given size.
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.SetSize(width, height)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.height
}

// Data returns the raw RGBA buffer.
func (s *Surface) Data() []uint8 {
	return s.data
}

// SetSize reallocates the buffer for the new dimensions. Any previous
// contents are discarded. SetSize(0, 0) releases the buffer.
func (s *Surface) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		s.width, s.height, s.data = 0, 0, nil
		return
	}
	s.width = width
	s.height = height
	s.data = make([]uint8, width*height*4)
}

// Context returns a 2D drawing context over the surface buffer. The image
// aliases the buffer: drawing into it paints the surface.
func (s *Surface) Context() *image.RGBA {
	return &image.RGBA{
		Pix:    s.data,
		Stride: s.width * 4,
		Rect:   image.Rect(0, 0, s.width, s.height),
	}
}

// ToImage returns a copy of the surface contents.
func (s *Surface) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.data)
	return img
}

// SetAttribute sets a named attribute on the surface.
func (s *Surface) SetAttribute(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[name] = value
}

// Attribute returns the value of a named attribute.
func (s *Surface) Attribute(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[name]
	return v, ok
}

// Attributes returns a copy of all attributes.
func (s *Surface) Attributes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.attrs)
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return color.RGBA{}
	}
	i := (y*s.width + x) * 4
	return color.RGBA{R: s.data[i], G: s.data[i+1], B: s.data[i+2], A: s.data[i+3]}
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}
