package sim

import "context"

// Handle controls one run loop started by Simulator.Run
type Handle struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	sim    *Simulator
}

func newHandle(parent context.Context, s *Simulator) *Handle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Handle{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		sim:    s,
	}
}

// Stop cancels every future iteration. A generation already being computed
// is still delivered. Stop is idempotent and safe on a nil handle.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	h.sim.release(h)
}

// Stopped reports whether Stop was called or the parent context ended
func (h *Handle) Stopped() bool {
	return h.ctx.Err() != nil
}

// Done is closed once the loop goroutine has exited
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the loop goroutine has exited. Do not call it from
// inside the GenerationFunc of the same run.
func (h *Handle) Wait() {
	<-h.done
}
