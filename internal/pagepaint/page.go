// Package pagepaint paints synthetic document pages into tile surfaces.
//
// A [Page] is a ruled sheet with lines of text. It implements
// [tilelayer.PageRenderer]: every render paints the part of the page that a
// transform maps onto the target surface, in horizontal bands, checking for
// cancellation and the pause hook between bands.
package pagepaint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/tilelayer"
)

// ErrRenderingCancelled is returned by Wait for a cancelled render.
var ErrRenderingCancelled = errors.New("pagepaint: rendering cancelled")

// ErrSingularTransform is returned when the render transform has no inverse.
var ErrSingularTransform = errors.New("pagepaint: singular transform")

// Default colors.
var (
	Paper  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Ink    = color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}
	Ruling = color.RGBA{R: 0xc8, G: 0xdc, B: 0xf0, A: 0xff}
	Desk   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Page is a synthetic page in page units (points).
type Page struct {
	width, height float64
	lines         []string

	margin     float64
	lineHeight float64
	fontSize   float64
	bandHeight int
	separate   bool

	font *opentype.Font
}

// Option configures a Page.
type Option func(*Page)

// WithMargin sets the page margin in page units (default 36).
func WithMargin(m float64) Option {
	return func(p *Page) { p.margin = m }
}

// WithLineHeight sets the distance between baselines (default 18).
func WithLineHeight(h float64) Option {
	return func(p *Page) { p.lineHeight = h }
}

// WithFontSize sets the text size in page units (default 12).
func WithFontSize(s float64) Option {
	return func(p *Page) { p.fontSize = s }
}

// WithBandHeight sets how many surface rows are painted between
// cancellation and pause checks (default 32).
func WithBandHeight(rows int) Option {
	return func(p *Page) { p.bandHeight = rows }
}

// WithSeparateAnnots makes renders report separately rendered annotations.
func WithSeparateAnnots(separate bool) Option {
	return func(p *Page) { p.separate = separate }
}

// New creates a page of the given size holding lines of text.
func New(width, height float64, lines []string, opts ...Option) (*Page, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pagepaint: invalid page size %gx%g", width, height)
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("pagepaint: parse font: %w", err)
	}
	p := &Page{
		width:      width,
		height:     height,
		lines:      lines,
		margin:     36,
		lineHeight: 18,
		fontSize:   12,
		bandHeight: 32,
		font:       f,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bandHeight < 1 {
		p.bandHeight = 1
	}
	return p, nil
}

// Size returns the page size in page units.
func (p *Page) Size() (width, height float64) {
	return p.width, p.height
}

// Render starts painting the page into params.Surface.
func (p *Page) Render(params tilelayer.RenderParams) tilelayer.RenderOperation {
	op := newOperation(p.separate)
	op.hook = params.OnContinue
	go op.run(func() error { return p.paint(op, params) })
	return op
}

func (p *Page) paint(op *operation, params tilelayer.RenderParams) error {
	if params.Surface == nil {
		return errors.New("pagepaint: nil surface")
	}
	m := tilelayer.Identity()
	if params.Transform != nil {
		m = *params.Transform
	}
	inv, ok := m.Invert()
	if !ok {
		return ErrSingularTransform
	}

	dst := params.Surface.Context()
	bounds := dst.Bounds()
	paper := color.Color(Paper)
	if params.Background != nil {
		paper = params.Background
	}
	ruled := params.Intent != "print"

	for y0 := bounds.Min.Y; y0 < bounds.Max.Y; y0 += p.bandHeight {
		if err := op.checkpoint(); err != nil {
			return err
		}
		band := image.Rect(bounds.Min.X, y0, bounds.Max.X, min(y0+p.bandHeight, bounds.Max.Y))
		draw.Draw(dst, band, image.NewUniform(Desk), image.Point{}, draw.Src)
		p.paintBand(dst, band, inv, paper, ruled)
	}

	if err := op.checkpoint(); err != nil {
		return err
	}
	return p.paintText(dst, m)
}

// paintBand fills the pixels of band that fall on the page.
func (p *Page) paintBand(dst *image.RGBA, band image.Rectangle, inv tilelayer.Matrix, paper color.Color, ruled bool) {
	pr, pg, pb, pa := paper.RGBA()
	paperRGBA := color.RGBA{R: uint8(pr >> 8), G: uint8(pg >> 8), B: uint8(pb >> 8), A: uint8(pa >> 8)}

	for y := band.Min.Y; y < band.Max.Y; y++ {
		for x := band.Min.X; x < band.Max.X; x++ {
			ux, uy := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			if ux < 0 || uy < 0 || ux >= p.width || uy >= p.height {
				continue
			}
			c := paperRGBA
			if ruled && p.onRule(uy) {
				c = Ruling
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

// onRule reports whether page y lies on a baseline rule.
func (p *Page) onRule(uy float64) bool {
	if uy < p.margin || uy > p.height-p.margin {
		return false
	}
	off := math.Mod(uy-p.margin, p.lineHeight)
	return off >= p.lineHeight-0.75
}

// paintText draws the text lines. Glyphs follow the transform's
// translation and uniform scale.
func (p *Page) paintText(dst *image.RGBA, m tilelayer.Matrix) error {
	size := p.fontSize * m.ScaleFactor()
	if size < 1 {
		return nil
	}
	face, err := opentype.NewFace(p.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("pagepaint: new face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(Ink),
		Face: face,
	}
	bounds := dst.Bounds()
	for i, line := range p.lines {
		baseline := p.margin + float64(i+1)*p.lineHeight
		if baseline > p.height-p.margin {
			break
		}
		x, y := m.Apply(p.margin, baseline)
		if y+size < float64(bounds.Min.Y) || y-size > float64(bounds.Max.Y) {
			continue
		}
		d.Dot = fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)}
		d.DrawString(line)
	}
	return nil
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
