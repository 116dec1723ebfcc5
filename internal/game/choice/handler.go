package choice

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/gamelog"
)

// Future is a response that may not exist yet.
type Future struct {
	once sync.Once
	done chan struct{}
	resp Response
	err  error
}

// NewFuture creates an unresolved future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved creates a future that already holds resp.
func Resolved(resp Response) *Future {
	f := NewFuture()
	f.Resolve(resp)
	return f
}

// Failed creates a future that already holds err.
func Failed(err error) *Future {
	f := NewFuture()
	f.Fail(err)
	return f
}

// Resolve stores resp. Only the first call has an effect; it reports whether
// this call resolved the future.
func (f *Future) Resolve(resp Response) bool {
	resolved := false
	f.once.Do(func() {
		f.resp = resp
		resolved = true
		close(f.done)
	})
	return resolved
}

// Fail stores err if the future is still unresolved.
func (f *Future) Fail(err error) bool {
	failed := false
	f.once.Do(func() {
		f.err = err
		failed = true
		close(f.done)
	})
	return failed
}

// Done is closed once the future is resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx is done. There is no timeout
// of its own.
func (f *Future) Await(ctx context.Context) (Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Handler answers the requests of one player.
type Handler interface {
	HandleChoice(ctx context.Context, req Request) *Future
}

// HandlerFunc adapts a synchronous decider, such as a bot, to Handler.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// HandleChoice calls f and returns an already resolved future.
func (f HandlerFunc) HandleChoice(ctx context.Context, req Request) *Future {
	resp, err := f(ctx, req)
	if err != nil {
		return Failed(err)
	}
	return Resolved(resp)
}

type pendingRequest struct {
	req    Request
	future *Future
}

// AsyncHandler parks requests until an external caller submits a response,
// for example an interactive client polling Pending.
type AsyncHandler struct {
	mu      sync.Mutex
	pending map[string]pendingRequest
	order   []string
	notify  func(Request)
	logger  gamelog.Logger
}

// NewAsyncHandler creates a handler. notify, if set, is called with every new
// request and must not block. A nil logger discards diagnostics.
func NewAsyncHandler(logger gamelog.Logger, notify func(Request)) *AsyncHandler {
	if logger == nil {
		logger = gamelog.Nop()
	}
	return &AsyncHandler{
		pending: make(map[string]pendingRequest),
		notify:  notify,
		logger:  logger,
	}
}

// HandleChoice parks req and returns a future resolved by Submit.
func (h *AsyncHandler) HandleChoice(_ context.Context, req Request) *Future {
	future := NewFuture()
	h.mu.Lock()
	h.pending[req.ID] = pendingRequest{req: req, future: future}
	h.order = append(h.order, req.ID)
	h.mu.Unlock()

	if h.notify != nil {
		h.notify(req)
	}
	return future
}

// Pending returns the outstanding requests, oldest first.
func (h *AsyncHandler) Pending() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Request, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.pending[id].req)
	}
	return out
}

// Submit resolves the outstanding request resp answers. A response that
// fails Validate is returned as an error wrapping ErrInvalidResponse and the
// request stays pending, so the player can answer again.
func (h *AsyncHandler) Submit(resp Response) error {
	h.mu.Lock()
	p, ok := h.pending[resp.RequestID]
	if !ok {
		h.mu.Unlock()
		h.logger.Error("choice response for unknown request",
			zap.String("request", resp.RequestID),
			zap.Strings("selected", resp.Selected),
		)
		return fmt.Errorf("submit %q: %w", resp.RequestID, ErrUnknownRequest)
	}
	if err := Validate(p.req, resp); err != nil {
		h.mu.Unlock()
		h.logger.Warn("choice response rejected",
			zap.String("player", p.req.PlayerID),
			zap.String("request", resp.RequestID),
			zap.Strings("selected", resp.Selected),
			zap.Error(err),
		)
		return fmt.Errorf("submit %q: %w", resp.RequestID, err)
	}
	h.remove(resp.RequestID)
	h.mu.Unlock()

	p.future.Resolve(resp)
	return nil
}

// Cancel fails an outstanding request with err.
func (h *AsyncHandler) Cancel(requestID string, err error) error {
	h.mu.Lock()
	p, ok := h.pending[requestID]
	if ok {
		h.remove(requestID)
	}
	h.mu.Unlock()

	if !ok {
		h.logger.Error("cancel for unknown choice request", zap.String("request", requestID), zap.Error(err))
		return fmt.Errorf("cancel %q: %w", requestID, ErrUnknownRequest)
	}
	p.future.Fail(err)
	return nil
}

func (h *AsyncHandler) remove(id string) {
	delete(h.pending, id)
	for i, pid := range h.order {
		if pid == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}
