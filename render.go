package tilelayer

import (
	"image/color"
	"time"
)

// ContinueFunc is a cooperative pause hook. A render operation that has it
// set calls it at a safe point and suspends until cont is invoked.
type ContinueFunc func(cont func())

// RenderParams is the render context forwarded to every tile render.
//
// The task copies the caller's value for each tile, points Surface at the
// tile's surface and replaces Transform with the caller's transform
// composed with the tile offset. All other fields pass through unchanged.
type RenderParams struct {
	// Transform is the optional base page-to-device transform.
	Transform *Matrix

	// Surface is the drawing surface to paint.
	Surface *Surface

	// Intent names the purpose of the render ("display", "print").
	Intent string

	// Background is the opaque fill drawn before page content. Nil means
	// the renderer's default.
	Background color.Color

	// OnContinue is the pause hook in effect when the render starts.
	// Renderers install it before their first pause point; later changes
	// arrive through RenderOperation.SetOnContinue.
	OnContinue ContinueFunc

	// Data carries renderer-specific options untouched.
	Data any
}

// PageRenderer is the page rendering primitive. Render starts painting the
// page into params.Surface and returns the in-flight operation.
type PageRenderer interface {
	Render(params RenderParams) RenderOperation
}

// RenderOperation is a single in-flight page render.
//
// SetOnContinue may be called while the caller holds internal locks, so
// implementations must not call back into the caller from it.
type RenderOperation interface {
	// Wait blocks until the render completes and returns its error.
	Wait() error

	// Cancel asks the render to stop, optionally after delay.
	Cancel(delay time.Duration)

	// SetOnContinue sets the pause hook used at the render's next safe point.
	SetOnContinue(fn ContinueFunc)

	// SeparateAnnots reports whether annotations are rendered separately
	// from the page content. Valid after Wait returns.
	SeparateAnnots() bool
}

// tileParams derives the params for rendering tile t from the caller's.
func tileParams(base RenderParams, t *Tile, hook ContinueFunc) RenderParams {
	p := base
	m := Translate(-float64(t.X), -float64(t.Y))
	if base.Transform != nil {
		m = m.Multiply(*base.Transform)
	}
	p.Transform = &m
	p.Surface = t.Surface
	p.OnContinue = hook
	return p
}
