package tilelayer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/draw"
)

func TestNewLayer(t *testing.T) {
	l, err := NewLayer(100, 100, 3000, One, One)
	if err != nil {
		t.Fatalf("NewLayer() error = %v", err)
	}
	if l.Width() != 100 || l.Height() != 100 {
		t.Errorf("size = %dx%d, want 100x100", l.Width(), l.Height())
	}
	if got := l.Container().ClassName(); got != "tileLayer" {
		t.Errorf("ClassName() = %q, want tileLayer", got)
	}
	children := l.Container().Children()
	if len(children) != len(l.Tiles()) {
		t.Fatalf("children = %d, tiles = %d", len(children), len(l.Tiles()))
	}
	for i, tile := range l.Tiles() {
		if children[i] != tile.Surface {
			t.Errorf("child %d is not tile %d's surface", i, i)
		}
		if tile.Surface.Width() != tile.Width || tile.Surface.Height() != tile.Height {
			t.Errorf("tile %d surface %dx%d, want %dx%d", i,
				tile.Surface.Width(), tile.Surface.Height(), tile.Width, tile.Height)
		}
	}
	want := Rect{Width: 100, Height: 100}
	if got := l.Container().Box(); got != want {
		t.Errorf("Box() = %+v, want %+v", got, want)
	}
}

func TestNewLayer_Options(t *testing.T) {
	box := Rect{X: 5, Y: 6, Width: 70, Height: 80}
	l, err := NewLayer(100, 100, 3000, One, One, WithClassName("tiles"), WithBox(box))
	if err != nil {
		t.Fatalf("NewLayer() error = %v", err)
	}
	if l.Container().ClassName() != "tiles" {
		t.Errorf("ClassName() = %q, want tiles", l.Container().ClassName())
	}
	if l.Container().Box() != box {
		t.Errorf("Box() = %+v, want %+v", l.Container().Box(), box)
	}
}

func TestNewLayer_Invalid(t *testing.T) {
	if _, err := NewLayer(0, 100, 3000, One, One); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("NewLayer(0, ...) error = %v, want ErrInvalidGeometry", err)
	}
}

func TestLayer_SetAttribute(t *testing.T) {
	l := newTestLayer(t, 100, 100, 3000)
	l.SetAttribute("aria-hidden", "true")
	for i, tile := range l.Tiles() {
		if v, ok := tile.Surface.Attribute("aria-hidden"); !ok || v != "true" {
			t.Errorf("tile %d attribute = %q, %v", i, v, ok)
		}
	}
}

func TestLayer_Hidden(t *testing.T) {
	l := newTestLayer(t, 100, 100, 3000)
	if l.Hidden() {
		t.Error("new layer reports hidden")
	}
	l.SetHidden(true)
	if !l.Hidden() {
		t.Error("Hidden() = false after SetHidden(true)")
	}
	l.SetHidden(false)
	if l.Hidden() {
		t.Error("Hidden() = true after SetHidden(false)")
	}
}

func TestLayer_Clear(t *testing.T) {
	l := newTestLayer(t, 100, 100, 3000)
	if got := l.Bytes(); got != 100*100*4 {
		t.Errorf("Bytes() = %d, want %d", got, 100*100*4)
	}
	l.Clear()
	for i, tile := range l.Tiles() {
		if tile.Surface.Width() != 0 || tile.Surface.Height() != 0 {
			t.Errorf("tile %d surface %dx%d after Clear", i, tile.Surface.Width(), tile.Surface.Height())
		}
		if tile.Width != 50 || tile.Height != 50 {
			t.Errorf("tile %d geometry changed to %dx%d", i, tile.Width, tile.Height)
		}
	}
	if got := l.Bytes(); got != 0 {
		t.Errorf("Bytes() after Clear = %d, want 0", got)
	}
}

var quadrantColors = []color.RGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
}

func paintQuadrants(t *testing.T, l *Layer) {
	t.Helper()
	for i, tile := range l.Tiles() {
		dst := tile.Surface.Context()
		draw.Draw(dst, dst.Bounds(), image.NewUniform(quadrantColors[i]), image.Point{}, draw.Src)
	}
}

func TestLayer_Compose(t *testing.T) {
	l := newTestLayer(t, 100, 100, 3000)
	paintQuadrants(t, l)

	img := l.Compose()
	points := []image.Point{{10, 10}, {10, 90}, {90, 10}, {90, 90}}
	for i, p := range points {
		if got := img.RGBAAt(p.X, p.Y); got != quadrantColors[i] {
			t.Errorf("pixel %v = %v, want %v", p, got, quadrantColors[i])
		}
	}

	l.Tiles()[3].Surface.SetSize(0, 0)
	img = l.Compose()
	if got := img.RGBAAt(90, 90); got != (color.RGBA{}) {
		t.Errorf("cleared tile pixel = %v, want transparent", got)
	}
}

func TestLayer_Present(t *testing.T) {
	l := newTestLayer(t, 100, 100, 3000)
	paintQuadrants(t, l)

	dst := image.NewRGBA(image.Rect(0, 0, 240, 240))
	l.Present(dst, image.Rect(20, 20, 220, 220), draw.NearestNeighbor)
	points := []image.Point{{40, 40}, {40, 200}, {200, 40}, {200, 200}}
	for i, p := range points {
		if got := dst.RGBAAt(p.X, p.Y); got != quadrantColors[i] {
			t.Errorf("pixel %v = %v, want %v", p, got, quadrantColors[i])
		}
	}
	if got := dst.RGBAAt(5, 5); got != (color.RGBA{}) {
		t.Errorf("pixel outside box = %v, want untouched", got)
	}
}

// Tile edges left of the origin round to the nearest pixel like edges to
// the right of it.
func TestLayer_PresentNegativeOffset(t *testing.T) {
	l := newTestLayer(t, 100, 30, 1000)
	if len(l.Tiles()) != 4 {
		t.Fatalf("len(Tiles()) = %d, want 4 columns", len(l.Tiles()))
	}
	paintQuadrants(t, l)

	// Column edges land at -27.25, -4.5 and 18.25.
	box := image.Rect(-50, 0, 41, 30)
	dst := image.NewRGBA(box)
	l.Present(dst, box, draw.NearestNeighbor)

	tests := []struct {
		x    int
		tile int
	}{
		{-50, 0},
		{-28, 0},
		{-27, 1},
		{-6, 1},
		{-5, 2},
		{17, 2},
		{18, 3},
		{40, 3},
	}
	for _, tt := range tests {
		if got := dst.RGBAAt(tt.x, 15); got != quadrantColors[tt.tile] {
			t.Errorf("pixel x=%d = %v, want tile %d color %v", tt.x, got, tt.tile, quadrantColors[tt.tile])
		}
	}
}

func TestSurface(t *testing.T) {
	s := NewSurface(3, 2)
	if len(s.Data()) != 3*2*4 {
		t.Fatalf("len(Data()) = %d, want 24", len(s.Data()))
	}
	ctx := s.Context()
	ctx.SetRGBA(2, 1, color.RGBA{R: 9, A: 255})
	if got := s.At(2, 1); got != (color.RGBA{R: 9, A: 255}) {
		t.Errorf("At(2, 1) = %v, context writes must reach the surface", got)
	}
	if got := s.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("At() out of bounds = %v, want zero", got)
	}
	img := s.ToImage()
	ctx.SetRGBA(0, 0, color.RGBA{G: 1, A: 255})
	if img.RGBAAt(0, 0) == (color.RGBA{G: 1, A: 255}) {
		t.Error("ToImage() aliases the surface buffer")
	}

	s.SetSize(0, 0)
	if s.Width() != 0 || s.Height() != 0 || s.Data() != nil {
		t.Errorf("SetSize(0, 0) left %dx%d with %d bytes", s.Width(), s.Height(), len(s.Data()))
	}
	if !s.Context().Bounds().Empty() {
		t.Error("Context() of a released surface is not empty")
	}
}

func TestSurface_Attributes(t *testing.T) {
	s := NewSurface(1, 1)
	if _, ok := s.Attribute("role"); ok {
		t.Error("unset attribute reported present")
	}
	s.SetAttribute("role", "img")
	attrs := s.Attributes()
	attrs["role"] = "changed"
	if v, _ := s.Attribute("role"); v != "img" {
		t.Errorf("Attribute() = %q, Attributes() must return a copy", v)
	}
}
