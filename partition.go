package tilelayer

import (
	"fmt"
	"math"
)

// Ratio approximates an output scale as the fraction Num/Den: Num device
// pixels cover Den presentation units. A layer w pixels wide is presented
// w / Num * Den units wide.
type Ratio struct {
	Num, Den int
}

// One is the 1:1 ratio.
var One = Ratio{Num: 1, Den: 1}

// Valid reports whether both terms are positive.
func (r Ratio) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

// Present converts a pixel length to presentation units.
func (r Ratio) Present(px int) float64 {
	return float64(px) / float64(r.Num) * float64(r.Den)
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// roundToDivide rounds x up to the next multiple of div, leaving exact
// multiples unchanged.
func roundToDivide(x float64, div int) int {
	d := float64(div)
	r := math.Mod(x, d)
	if r == 0 {
		return int(x)
	}
	return int(math.Round(x - r + d))
}

// Partition splits a width x height pixel region into tiles whose area is
// strictly below maxArea. The returned tiles carry geometry and placement
// but no surfaces; see [NewLayer] for a layer with allocated surfaces.
//
// A region at or above the cap is halved along its longer side (width on
// ties). The split coordinate is rounded to a multiple of the ratio's Num
// so every tile maps to a whole number of presentation units and stretched
// surfaces meet without seams. Tiles are emitted depth first, left/top half
// before right/bottom half.
func Partition(width, height, maxArea int, sx, sy Ratio) ([]Tile, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidGeometry, width, height)
	}
	if maxArea < 2 {
		return nil, fmt.Errorf("%w: max area %d", ErrInvalidGeometry, maxArea)
	}
	if !sx.Valid() || !sy.Valid() {
		return nil, fmt.Errorf("%w: %v, %v", ErrInvalidRatio, sx, sy)
	}

	p := partitioner{
		maxArea:     maxArea,
		sx:          sx,
		sy:          sy,
		totalWidth:  sx.Present(width),
		totalHeight: sy.Present(height),
	}
	p.split(0, 0, width, height)
	return p.tiles, nil
}

type partitioner struct {
	maxArea                 int
	sx, sy                  Ratio
	totalWidth, totalHeight float64
	tiles                   []Tile
}

func (p *partitioner) split(x, y, w, h int) {
	switch {
	case w*h < p.maxArea:
		p.tiles = append(p.tiles, Tile{
			X: x, Y: y, Width: w, Height: h,
			Placement: Placement{
				Left:        p.sx.Present(x),
				Top:         p.sy.Present(y),
				Width:       p.sx.Present(w),
				Height:      p.sy.Present(h),
				TotalWidth:  p.totalWidth,
				TotalHeight: p.totalHeight,
			},
		})
	case w >= h:
		half := splitAt(w, p.sx.Num)
		p.split(x, y, half, h)
		p.split(x+half, y, w-half, h)
	default:
		half := splitAt(h, p.sy.Num)
		p.split(x, y, w, half)
		p.split(x, y+half, w, h-half)
	}
}

// splitAt returns the split coordinate for a side of length n >= 2. When
// the divisor is too coarse for n, the aligned split would leave an empty
// half, so the plain midpoint is used instead.
func splitAt(n, div int) int {
	s := roundToDivide(float64(n)/2, div)
	if s <= 0 || s >= n {
		return n / 2
	}
	return s
}
