package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/tilelayer"
	"github.com/gogpu/tilelayer/internal/pagepaint"
)

func newRenderCmd() *cobra.Command {
	var cfgPath string
	fc := defaultConfig()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Partition a page into tiles and render it, most visible tile first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, fc)
			_, err = runRender(cmd.Context(), cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", "", "TOML config file")
	f.Float64Var(&fc.PageWidth, "page-width", fc.PageWidth, "page width in points")
	f.Float64Var(&fc.PageHeight, "page-height", fc.PageHeight, "page height in points")
	f.IntVar(&fc.Lines, "lines", fc.Lines, "number of text lines on the page")
	f.Float64Var(&fc.Zoom, "zoom", fc.Zoom, "device pixels per point")
	f.IntVar(&fc.MaxArea, "max-area", fc.MaxArea, "tile area cap in pixels")
	f.StringVar(&fc.ScaleX, "scale-x", fc.ScaleX, "horizontal output ratio num/den")
	f.StringVar(&fc.ScaleY, "scale-y", fc.ScaleY, "vertical output ratio num/den")
	f.Float64Var(&fc.ViewportWidth, "viewport-width", fc.ViewportWidth, "visible region width")
	f.Float64Var(&fc.ViewportHeight, "viewport-height", fc.ViewportHeight, "visible region height")
	f.Float64Var(&fc.ScrollStep, "scroll-step", fc.ScrollStep, "scroll distance per dispatched tile")
	f.IntVar(&fc.CancelAfter, "cancel-after", fc.CancelAfter, "cancel while the n-th tile renders (0 disables)")
	f.BoolVar(&fc.SeparateAnnots, "separate-annots", fc.SeparateAnnots, "report separately rendered annotations")
	f.StringVarP(&fc.Output, "output", "o", fc.Output, "PNG file for the stitched layer")
	f.StringVar(&fc.Present, "present", fc.Present, "PNG file for the scaled viewport presentation")
	return cmd
}

// applyFlags copies explicitly set flags from fc over cfg.
func applyFlags(cmd *cobra.Command, cfg *Config, fc Config) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("page-width", func() { cfg.PageWidth = fc.PageWidth })
	set("page-height", func() { cfg.PageHeight = fc.PageHeight })
	set("lines", func() { cfg.Lines = fc.Lines })
	set("zoom", func() { cfg.Zoom = fc.Zoom })
	set("max-area", func() { cfg.MaxArea = fc.MaxArea })
	set("scale-x", func() { cfg.ScaleX = fc.ScaleX })
	set("scale-y", func() { cfg.ScaleY = fc.ScaleY })
	set("viewport-width", func() { cfg.ViewportWidth = fc.ViewportWidth })
	set("viewport-height", func() { cfg.ViewportHeight = fc.ViewportHeight })
	set("scroll-step", func() { cfg.ScrollStep = fc.ScrollStep })
	set("cancel-after", func() { cfg.CancelAfter = fc.CancelAfter })
	set("separate-annots", func() { cfg.SeparateAnnots = fc.SeparateAnnots })
	set("output", func() { cfg.Output = fc.Output })
	set("present", func() { cfg.Present = fc.Present })
}

// renderResult summarises a finished render.
type renderResult struct {
	Tiles          int
	Dispatched     int
	State          tilelayer.State
	SeparateAnnots bool
}

func runRender(ctx context.Context, cfg Config) (renderResult, error) {
	logger := loggerFromContext(ctx)
	if err := cfg.validate(); err != nil {
		return renderResult{}, err
	}
	sx, err := parseRatio(cfg.ScaleX)
	if err != nil {
		return renderResult{}, err
	}
	sy, err := parseRatio(cfg.ScaleY)
	if err != nil {
		return renderResult{}, err
	}

	page, err := pagepaint.New(cfg.PageWidth, cfg.PageHeight, demoLines(cfg.Lines),
		pagepaint.WithSeparateAnnots(cfg.SeparateAnnots))
	if err != nil {
		return renderResult{}, err
	}

	width := int(math.Ceil(cfg.PageWidth * cfg.Zoom))
	height := int(math.Ceil(cfg.PageHeight * cfg.Zoom))
	layer, err := tilelayer.NewLayer(width, height, cfg.MaxArea, sx, sy)
	if err != nil {
		return renderResult{}, err
	}
	logger.Info("Partitioned page", "width", width, "height", height, "tiles", len(layer.Tiles()))

	viewport := tilelayer.StaticViewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}
	base := tilelayer.Scale(cfg.Zoom, cfg.Zoom)
	start := time.Now()
	task := layer.Render(ctx, page, tilelayer.RenderParams{Transform: &base, Intent: "display"},
		tilelayer.WithViewport(viewport))

	follow(task, layer.Container(), cfg)

	res := renderResult{Tiles: len(layer.Tiles())}
	err = task.Wait(ctx)
	res.Dispatched = task.Dispatched()
	res.State = task.State()
	res.SeparateAnnots = task.SeparateAnnots()

	switch {
	case errors.Is(err, tilelayer.ErrCanceled):
		logger.Warn("Render cancelled", "dispatched", res.Dispatched, "tiles", res.Tiles)
	case err != nil:
		return res, err
	default:
		logger.Infof("Rendered %d tiles (%s)", res.Dispatched, time.Since(start).Round(time.Millisecond))
	}

	if err := writePNG(cfg.Output, layer.Compose()); err != nil {
		return res, err
	}
	logger.Info("Wrote layer", "path", cfg.Output)

	if cfg.Present != "" {
		box := layer.Container().Box()
		dst := image.NewRGBA(image.Rect(0, 0, int(cfg.ViewportWidth), int(cfg.ViewportHeight)))
		layer.Present(dst, image.Rect(
			int(math.Round(box.X)), int(math.Round(box.Y)),
			int(math.Round(box.Right())), int(math.Round(box.Bottom())),
		), nil)
		if err := writePNG(cfg.Present, dst); err != nil {
			return res, err
		}
		logger.Info("Wrote presentation", "path", cfg.Present)
	}
	return res, nil
}

// follow scrolls the container up by one step for every dispatched tile
// and cancels the task once the configured tile has started.
func follow(task *tilelayer.Task, c *tilelayer.Container, cfg Config) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	seen := task.Dispatched()
	for {
		if cfg.CancelAfter > 0 && seen >= cfg.CancelAfter {
			task.Cancel(0)
		}
		select {
		case <-task.Done():
			return
		case <-ticker.C:
		}
		n := task.Dispatched()
		if n == seen {
			continue
		}
		box := c.Box()
		limit := min(0, cfg.ViewportHeight-box.Height)
		box.Y = max(box.Y-cfg.ScrollStep*float64(n-seen), limit)
		c.SetBox(box)
		seen = n
	}
}

func demoLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%03d  The quick brown fox jumps over the lazy dog.", i+1)
	}
	return lines
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
