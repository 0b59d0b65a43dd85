// Command tiledemo renders a synthetic page through a tile layer.
//
// The page is partitioned into tiles below an area cap and rendered tile by
// tile, most visible first, while the layer scrolls through a fixed
// viewport. The stitched result is written as PNG.
//
// Usage:
//
//	tiledemo render --zoom 4 --max-area 262144 --output page.png
//	tiledemo render --config demo.toml --cancel-after 3 -v
package main

import (
	"os"
)

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
