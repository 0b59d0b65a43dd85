package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/tilelayer"
)

// Config holds the demo settings. Values come from an optional TOML file
// and are overridden by explicitly set flags.
type Config struct {
	PageWidth  float64 `toml:"page_width"`
	PageHeight float64 `toml:"page_height"`
	Lines      int     `toml:"lines"`
	Zoom       float64 `toml:"zoom"`
	MaxArea    int     `toml:"max_area"`
	ScaleX     string  `toml:"scale_x"`
	ScaleY     string  `toml:"scale_y"`

	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
	ScrollStep     float64 `toml:"scroll_step"`

	CancelAfter    int    `toml:"cancel_after"`
	SeparateAnnots bool   `toml:"separate_annots"`
	Output         string `toml:"output"`
	Present        string `toml:"present"`
}

func defaultConfig() Config {
	return Config{
		PageWidth:      612,
		PageHeight:     792,
		Lines:          36,
		Zoom:           2,
		MaxArea:        1 << 18,
		ScaleX:         "1/1",
		ScaleY:         "1/1",
		ViewportWidth:  1224,
		ViewportHeight: 600,
		ScrollStep:     40,
		Output:         "page.png",
	}
}

// loadConfig decodes path over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}

// validate checks the settings that the library does not check itself.
func (c Config) validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return errors.New("page size must be positive")
	}
	if c.Zoom <= 0 {
		return errors.New("zoom must be positive")
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return errors.New("viewport size must be positive")
	}
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

// parseRatio parses "num/den" or a bare integer numerator.
func parseRatio(s string) (tilelayer.Ratio, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		den = "1"
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return tilelayer.Ratio{}, fmt.Errorf("parse ratio %q: %w", s, err)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil {
		return tilelayer.Ratio{}, fmt.Errorf("parse ratio %q: %w", s, err)
	}
	r := tilelayer.Ratio{Num: n, Den: d}
	if !r.Valid() {
		return r, fmt.Errorf("parse ratio %q: %w", s, tilelayer.ErrInvalidRatio)
	}
	return r, nil
}
