package tilelayer

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errMockCancelled = errors.New("mock: cancelled")

// mockRenderer records every render call. In manual mode operations stay
// in flight until the test finishes them; otherwise each completes on its
// own goroutine with result(n). With holdOnCancel a cancelled operation
// keeps running until the test finishes it.
type mockRenderer struct {
	manual       bool
	holdOnCancel bool
	nilOp        bool
	result       func(n int) error
	separate     func(n int) bool
	onRender     func(n int)

	started chan *mockOp

	mu    sync.Mutex
	calls []*mockOp

	active  atomic.Int32
	overlap atomic.Bool
}

func newMockRenderer(manual bool) *mockRenderer {
	return &mockRenderer{
		manual:  manual,
		started: make(chan *mockOp, 256),
	}
}

func (r *mockRenderer) Render(params RenderParams) RenderOperation {
	if r.active.Add(1) > 1 {
		r.overlap.Store(true)
	}

	r.mu.Lock()
	n := len(r.calls)
	op := &mockOp{
		n:        n,
		params:   params,
		r:        r,
		hook:     params.OnContinue,
		done:     make(chan struct{}),
		separate: r.separate != nil && r.separate(n),
	}
	r.calls = append(r.calls, op)
	r.mu.Unlock()

	if r.onRender != nil {
		r.onRender(n)
	}
	r.started <- op

	if r.nilOp {
		r.active.Add(-1)
		return nil
	}
	if !r.manual {
		var err error
		if r.result != nil {
			err = r.result(n)
		}
		go op.finish(err)
	}
	return op
}

func (r *mockRenderer) Calls() []*mockOp {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*mockOp(nil), r.calls...)
}

type mockOp struct {
	n        int
	params   RenderParams
	r        *mockRenderer
	separate bool

	once sync.Once
	done chan struct{}
	err  error

	mu          sync.Mutex
	hook        ContinueFunc
	hookSets    int
	cancelled   bool
	cancelDelay time.Duration
}

func (op *mockOp) finish(err error) {
	op.once.Do(func() {
		op.err = err
		op.r.active.Add(-1)
		close(op.done)
	})
}

func (op *mockOp) Wait() error {
	<-op.done
	return op.err
}

func (op *mockOp) Cancel(delay time.Duration) {
	op.mu.Lock()
	op.cancelled = true
	op.cancelDelay = delay
	op.mu.Unlock()
	if !op.r.holdOnCancel {
		op.finish(errMockCancelled)
	}
}

func (op *mockOp) SetOnContinue(fn ContinueFunc) {
	op.mu.Lock()
	op.hook = fn
	op.hookSets++
	op.mu.Unlock()
}

func (op *mockOp) SeparateAnnots() bool {
	return op.separate
}

func (op *mockOp) Hook() ContinueFunc {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.hook
}

func (op *mockOp) Cancelled() (bool, time.Duration) {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.cancelled, op.cancelDelay
}
