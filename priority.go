package tilelayer

// selectTile returns the index of the tile in queue whose on-screen
// rectangle overlaps visible the most, or -1 for an empty queue.
//
// Ties go to the later tile, so tiles that are all invisible drain in
// reverse queue order. The scan runs fresh on every dispatch because the
// box and the visible region may move between tiles.
func selectTile(queue []*Tile, box, visible Rect) int {
	best := -1
	bestArea := 0.0
	for i, t := range queue {
		if area := t.ScreenRect(box).IntersectArea(visible); area >= bestArea {
			best = i
			bestArea = area
		}
	}
	return best
}
