package tilelayer

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// State is the lifecycle state of a render Task.
type State int

const (
	// StateIdle means no tile is being dispatched or rendered.
	StateIdle State = iota

	// StateDispatching means a tile was selected and its render is starting.
	StateDispatching

	// StateWaiting means one tile render is in flight.
	StateWaiting

	// StateCompleted means every tile rendered successfully.
	StateCompleted

	// StateFailed means a tile render failed; no further tiles run.
	StateFailed

	// StateCancelled means the task was cancelled.
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateWaiting:
		return "waiting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s >= StateCompleted
}

// Task renders a page into a set of tiles, one tile at a time.
//
// Before each dispatch the remaining tile with the largest visible area is
// chosen. Exactly one tile render is in flight at any time; the next one
// starts only after the previous one completed successfully.
//
// A Task settles exactly once, and never while a tile render is in flight:
// once Done is closed no renderer writes to a tile surface. Completion
// leaves Err nil, the first tile failure is reported as a *TileError, and
// Cancel ends the task with ErrCanceled.
//
// Task is safe for concurrent use.
type Task struct {
	page      PageRenderer
	params    RenderParams
	container *Container
	viewport  Viewport
	log       *slog.Logger
	index     map[*Tile]int

	done chan struct{}

	mu             sync.Mutex
	state          State
	err            error
	queue          []*Tile
	current        RenderOperation
	currentTile    *Tile
	onContinue     ContinueFunc
	separateAnnots bool
	dispatched     int
	cancelDelay    time.Duration
	stopCtx        func() bool
	settled        bool
}

// NewTask starts rendering page into tiles, positioned by container. The
// tiles are copied into the task's own queue; the slice is not modified.
//
// The first tile is dispatched before NewTask returns. Hooks set with
// [Task.SetOnContinue] afterwards may miss the start of that first render;
// use [WithOnContinue] to have the hook in place from the beginning.
// Cancelling ctx is equivalent to calling Cancel(0).
func NewTask(ctx context.Context, page PageRenderer, params RenderParams, container *Container, tiles []*Tile, opts ...RenderOption) *Task {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	t := &Task{
		page:       page,
		params:     params,
		container:  container,
		viewport:   o.viewport,
		log:        o.logger,
		index:      make(map[*Tile]int, len(tiles)),
		done:       make(chan struct{}),
		queue:      slices.Clone(tiles),
		onContinue: o.onContinue,
	}
	if t.viewport == nil {
		t.viewport = containerViewport{c: container}
	}
	for i, tile := range tiles {
		t.index[tile] = i
	}

	if page == nil {
		t.mu.Lock()
		t.settleLocked(StateFailed, ErrNilRenderer)
		t.mu.Unlock()
		return t
	}

	if ctx != nil && ctx.Done() != nil {
		t.mu.Lock()
		t.stopCtx = context.AfterFunc(ctx, func() { t.Cancel(0) })
		t.mu.Unlock()
	}

	if op := t.dispatch(); op != nil {
		go t.run(op)
	}
	return t
}

func (t *Task) logger() *slog.Logger {
	if t.log != nil {
		return t.log
	}
	return Logger()
}

// run waits on each in-flight render and chains into the next dispatch
// until the task settles.
func (t *Task) run(op RenderOperation) {
	for op != nil {
		err := op.Wait()
		if !t.advance(op, err) {
			return
		}
		op = t.dispatch()
	}
}

// advance records the outcome of op, which has returned from Wait. It
// reports whether the next tile should be dispatched.
func (t *Task) advance(op RenderOperation, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.settled {
		return false
	}
	tile := t.currentTile
	t.current = nil
	t.currentTile = nil

	switch {
	case t.state == StateCancelled:
		t.settleLocked(StateCancelled, ErrCanceled)
		return false
	case err != nil:
		t.failLocked(tile, err)
		return false
	}

	if !t.separateAnnots {
		t.separateAnnots = op.SeparateAnnots()
	}
	t.state = StateIdle
	t.logger().Debug("tilelayer: tile rendered", "tile", t.index[tile])
	return true
}

// dispatch pops the most visible remaining tile and starts its render.
// It returns the operation the driver must wait on, or nil once the task
// has settled.
func (t *Task) dispatch() RenderOperation {
	box := t.container.Box()
	visible := t.viewport.VisibleRegion()

	t.mu.Lock()
	if t.state.Terminal() {
		t.mu.Unlock()
		return nil
	}
	if len(t.queue) == 0 {
		t.logger().Info("tilelayer: render complete", "tiles", t.dispatched)
		t.settleLocked(StateCompleted, nil)
		t.mu.Unlock()
		return nil
	}
	i := selectTile(t.queue, box, visible)
	tile := t.queue[i]
	t.queue = slices.Delete(t.queue, i, i+1)
	t.dispatched++
	t.state = StateDispatching
	hook := t.onContinue
	t.mu.Unlock()

	t.logger().Debug("tilelayer: dispatch tile",
		"tile", t.index[tile], "x", tile.X, "y", tile.Y,
		"width", tile.Width, "height", tile.Height)

	op := t.page.Render(tileParams(t.params, tile, hook))

	t.mu.Lock()
	if op == nil {
		if t.state == StateCancelled {
			t.settleLocked(StateCancelled, ErrCanceled)
		} else {
			t.failLocked(tile, ErrNilOperation)
		}
		t.mu.Unlock()
		return nil
	}
	t.current = op
	t.currentTile = tile
	if t.state == StateCancelled {
		// Cancel ran while Render was starting. The driver still waits
		// for the operation before settling.
		delay := t.cancelDelay
		t.mu.Unlock()
		op.Cancel(delay)
		return op
	}
	op.SetOnContinue(t.onContinue)
	t.state = StateWaiting
	t.mu.Unlock()
	return op
}

// failLocked settles the task with the failure of tile. t.mu must be held.
func (t *Task) failLocked(tile *Tile, err error) {
	terr := &TileError{
		Index: t.index[tile],
		X:     tile.X, Y: tile.Y, Width: tile.Width, Height: tile.Height,
		Err: err,
	}
	t.logger().Warn("tilelayer: tile render failed", "tile", terr.Index, "error", err)
	t.settleLocked(StateFailed, terr)
}

// settleLocked moves the task into its final state and closes Done. Nothing
// may touch caller-visible state after it. t.mu must be held.
func (t *Task) settleLocked(s State, err error) {
	if t.settled {
		return
	}
	t.settled = true
	t.state = s
	t.err = err
	if t.stopCtx != nil {
		t.stopCtx()
	}
	close(t.done)
}

// Cancel stops the task. The remaining queue is emptied at once, so no
// further tile is dispatched, and the in-flight render, if any, is
// cancelled with delay passed through unchanged.
//
// State and Err report the cancellation immediately. Done closes, and Wait
// returns ErrCanceled, only once the in-flight render has returned from its
// own Wait, so tile surfaces are stable when the task is observed settled.
// Without a render in flight the task settles before Cancel returns.
//
// Cancel is idempotent and a no-op on a settled task.
func (t *Task) Cancel(delay time.Duration) {
	t.mu.Lock()
	if t.state.Terminal() {
		t.mu.Unlock()
		return
	}
	t.queue = nil
	t.cancelDelay = delay
	t.logger().Debug("tilelayer: render cancelled", "dispatched", t.dispatched, "delay", delay)

	op := t.current
	if op == nil && t.state != StateDispatching {
		t.settleLocked(StateCancelled, ErrCanceled)
		t.mu.Unlock()
		return
	}
	t.state = StateCancelled
	t.err = ErrCanceled
	t.mu.Unlock()

	if op != nil {
		op.Cancel(delay)
	}
}

// SetOnContinue sets the pause/continue hook. It is forwarded to the
// in-flight render and to every tile dispatched afterwards.
func (t *Task) SetOnContinue(fn ContinueFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onContinue = fn
	if t.current != nil {
		t.current.SetOnContinue(fn)
	}
}

// Done returns a channel closed when the task settles.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task settles or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the task outcome: nil while running and after completion,
// the *TileError of the first failed tile, or ErrCanceled. ErrCanceled is
// reported from the moment Cancel runs, possibly before Done is closed.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// State returns the current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SeparateAnnots reports whether any completed tile render rendered
// annotations separately. Once set it stays set.
func (t *Task) SeparateAnnots() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.separateAnnots
}

// Remaining returns the number of tiles not yet dispatched.
func (t *Task) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Dispatched returns the number of tile renders started.
func (t *Task) Dispatched() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dispatched
}
