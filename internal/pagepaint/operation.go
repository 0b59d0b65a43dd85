package pagepaint

import (
	"sync"
	"time"

	"github.com/gogpu/tilelayer"
)

// operation is one in-flight page render.
type operation struct {
	separate bool

	done       chan struct{}
	cancelled  chan struct{}
	cancelOnce sync.Once

	mu    sync.Mutex
	hook  tilelayer.ContinueFunc
	timer *time.Timer
	err   error
}

func newOperation(separate bool) *operation {
	return &operation{
		separate:  separate,
		done:      make(chan struct{}),
		cancelled: make(chan struct{}),
	}
}

func (op *operation) run(paint func() error) {
	err := paint()
	op.mu.Lock()
	op.err = err
	if op.timer != nil {
		op.timer.Stop()
	}
	op.mu.Unlock()
	close(op.done)
}

// checkpoint returns ErrRenderingCancelled once the render was cancelled
// and otherwise gives the pause hook a chance to suspend the render.
func (op *operation) checkpoint() error {
	select {
	case <-op.cancelled:
		return ErrRenderingCancelled
	default:
	}

	op.mu.Lock()
	hook := op.hook
	op.mu.Unlock()
	if hook == nil {
		return nil
	}

	resume := make(chan struct{})
	var once sync.Once
	hook(func() { once.Do(func() { close(resume) }) })

	select {
	case <-resume:
		return nil
	case <-op.cancelled:
		return ErrRenderingCancelled
	}
}

// Wait blocks until the render finishes.
func (op *operation) Wait() error {
	<-op.done
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.err
}

// Cancel stops the render at its next checkpoint. A positive delay
// postpones the cancellation.
func (op *operation) Cancel(delay time.Duration) {
	if delay <= 0 {
		op.cancelNow()
		return
	}
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.timer == nil {
		op.timer = time.AfterFunc(delay, op.cancelNow)
	}
}

func (op *operation) cancelNow() {
	op.cancelOnce.Do(func() { close(op.cancelled) })
}

// SetOnContinue sets the pause hook consulted at every checkpoint.
func (op *operation) SetOnContinue(fn tilelayer.ContinueFunc) {
	op.mu.Lock()
	op.hook = fn
	op.mu.Unlock()
}

// SeparateAnnots reports whether annotations were rendered separately.
func (op *operation) SeparateAnnots() bool {
	return op.separate
}
