package tilelayer

import (
	"log/slog"
)

// LayerOption configures a Layer during creation.
//
// Example:
//
//	layer, err := tilelayer.NewLayer(2000, 3000, 1<<22, sx, sy,
//	    tilelayer.WithBox(tilelayer.Rect{X: 0, Y: 120, Width: 1000, Height: 1500}),
//	)
type LayerOption func(*layerOptions)

type layerOptions struct {
	className string
	box       *Rect
}

func defaultLayerOptions() layerOptions {
	return layerOptions{
		className: "tileLayer",
	}
}

// WithClassName overrides the container class name ("tileLayer").
func WithClassName(name string) LayerOption {
	return func(o *layerOptions) {
		o.className = name
	}
}

// WithBox sets the container's initial on-screen box. Without it the box
// sits at the origin with the layer's presentation size.
func WithBox(box Rect) LayerOption {
	return func(o *layerOptions) {
		o.box = &box
	}
}

// RenderOption configures a render Task.
type RenderOption func(*renderOptions)

type renderOptions struct {
	viewport   Viewport
	onContinue ContinueFunc
	logger     *slog.Logger
}

// WithViewport sets the capability queried for the visible region before
// each dispatch. Without it the container box is treated as fully visible.
func WithViewport(v Viewport) RenderOption {
	return func(o *renderOptions) {
		o.viewport = v
	}
}

// WithOnContinue installs the pause/continue hook before the first tile is
// dispatched. [Task.SetOnContinue] after construction only reaches the
// in-flight operation and later tiles.
func WithOnContinue(fn ContinueFunc) RenderOption {
	return func(o *renderOptions) {
		o.onContinue = fn
	}
}

// WithLogger sets a task-specific logger instead of the package logger.
func WithLogger(l *slog.Logger) RenderOption {
	return func(o *renderOptions) {
		o.logger = l
	}
}
