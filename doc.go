// Package tilelayer renders large pages incrementally through bounded-size
// tiles, most visible tile first.
//
// # Overview
//
// A page rendered at high zoom can exceed the size a single drawing surface
// may have. A [Layer] splits the page's pixel area into tiles whose area
// stays below a cap, each with its own [Surface]. A [Task] then renders the
// page into the tiles one at a time through an external [PageRenderer],
// always picking the remaining tile that overlaps the visible region the
// most, so what the user looks at appears first.
//
// # Quick Start
//
//	layer, err := tilelayer.NewLayer(4000, 6000, 1<<24, tilelayer.One, tilelayer.One)
//	if err != nil {
//	    return err
//	}
//	task := layer.Render(ctx, page, tilelayer.RenderParams{Intent: "display"},
//	    tilelayer.WithViewport(viewport),
//	)
//	if err := task.Wait(ctx); err != nil {
//	    return err
//	}
//
// # Partitioning
//
// A region at or above the area cap is halved along its longer side until
// every tile is below the cap. Split coordinates are aligned to the scale
// [Ratio] so tile surfaces stretched by the presentation layer meet without
// seams. Tile placement is expressed as fractions of the container (see
// [Placement]), independent of the container's actual size.
//
// # Scheduling
//
// A Task holds its own queue of remaining tiles. Before each dispatch it
// queries the [Viewport] and the container box and picks the tile with the
// largest visible area; ties go to the later tile in the queue. The first
// tile is dispatched synchronously by [NewTask] and [Layer.Render]. Every
// later tile starts after the previous render completed.
//
// [Task.Cancel] empties the queue and forwards the cancellation to the
// in-flight render. The task settles with [ErrCanceled] once that render
// has returned, so tile surfaces are no longer written after [Task.Wait].
// The first tile failure settles the task with a [*TileError].
//
// # Coordinate System
//
// Tile offsets and sizes are in device pixels with the origin at the top
// left of the layer. Container boxes and the visible region share one
// presentation space, typically the embedder's screen coordinates.
package tilelayer
