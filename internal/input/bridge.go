package input

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

// Request is what the UI sees for a pending choice
type Request struct {
	ID           string
	Title        string
	Options      []Option
	Context      ChoiceContext
	Confirmation bool
	Deadline     time.Time
}

// Handler is notified when the engine is waiting on the UI. It runs on the
// engine goroutine and must not block; the answer arrives through Resolve.
type Handler func(req Request)

type result struct {
	optionID string
	err      error
}

type pendingRequest struct {
	req    Request
	result chan result
}

// BridgeConfig configures a Bridge
type BridgeConfig struct {
	// IDGenerator names requests. Defaults to a ULID generator.
	IDGenerator idgen.Generator
	// Clock stamps deadlines and waits out timeouts. Defaults to the real clock.
	Clock   clock.Clock
	Handler Handler
}

// Bridge is a Provider that hands requests to a UI handler and waits for the
// UI to call Resolve. At most one request is pending at a time.
type Bridge struct {
	ids   idgen.Generator
	clock clock.Clock

	mu      sync.Mutex
	handler Handler
	pending *pendingRequest
}

// NewBridge creates a bridge
func NewBridge(cfg *BridgeConfig) *Bridge {
	if cfg == nil {
		cfg = &BridgeConfig{}
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewULID("req")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Bridge{
		ids:     ids,
		clock:   clk,
		handler: cfg.Handler,
	}
}

// SetHandler replaces the UI handler. A nil handler makes new requests fail
// with errors.Unavailable.
func (b *Bridge) SetHandler(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
}

// RequestChoice implements Provider
func (b *Bridge) RequestChoice(ctx context.Context, req *ChoiceRequest) (string, error) {
	if req == nil {
		return "", errors.InvalidArgument("choice request is required")
	}
	if len(req.Options) == 0 {
		return "", errors.InvalidArgument("choice request needs at least one option")
	}

	return b.await(ctx, Request{
		Title:   req.Title,
		Options: append([]Option(nil), req.Options...),
		Context: req.Context,
	}, req.Timeout)
}

// RequestConfirmation implements Provider
func (b *Bridge) RequestConfirmation(ctx context.Context, message string) (bool, error) {
	optionID, err := b.await(ctx, Request{
		Title: message,
		Options: []Option{
			{ID: OptionYes, Label: "Yes"},
			{ID: OptionNo, Label: "No"},
		},
		Context:      ChoiceContext{Kind: KindAdventureDecision},
		Confirmation: true,
	}, 0)
	if err != nil {
		return false, err
	}
	return optionID == OptionYes, nil
}

func (b *Bridge) await(ctx context.Context, req Request, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.FromContext(err, "choice request aborted")
	}

	b.mu.Lock()
	if b.pending != nil {
		pendingID := b.pending.req.ID
		b.mu.Unlock()
		slog.WarnContext(ctx, "choice request rejected, another is pending",
			"pending_request_id", pendingID,
			"title", req.Title)
		return "", errors.AlreadyExists("choice request already pending").
			WithMeta("pending_request_id", pendingID)
	}
	handler := b.handler
	if handler == nil {
		b.mu.Unlock()
		return "", errors.Unavailable("no handler registered for choice requests")
	}

	req.ID = b.ids.Generate()
	if timeout > 0 {
		req.Deadline = b.clock.Now().Add(timeout)
	}
	p := &pendingRequest{req: req, result: make(chan result, 1)}
	b.pending = p
	b.mu.Unlock()

	handler(req)

	var expired chan struct{}
	if timeout > 0 {
		waitCtx, stopWaiting := context.WithCancel(ctx)
		defer stopWaiting()
		expired = make(chan struct{})
		go func() {
			if b.clock.Sleep(waitCtx, timeout) == nil {
				close(expired)
			}
		}()
	}

	select {
	case r := <-p.result:
		return r.optionID, r.err
	case <-ctx.Done():
		if !b.release(p) {
			r := <-p.result
			return r.optionID, r.err
		}
		return "", errors.FromContext(ctx.Err(), "choice request aborted").
			WithMeta("request_id", req.ID)
	case <-expired:
		if !b.release(p) {
			r := <-p.result
			return r.optionID, r.err
		}
		slog.WarnContext(ctx, "choice request timed out",
			"request_id", req.ID,
			"timeout", timeout)
		return "", errors.Newf(errors.CodeDeadlineExceeded, "choice request timed out after %s", timeout).
			WithMeta("request_id", req.ID)
	}
}

// release clears p from the pending slot. It returns false when p was already
// resolved or canceled, in which case a result is on its channel.
func (b *Bridge) release(p *pendingRequest) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != p {
		return false
	}
	b.pending = nil
	return true
}

// Pending returns the request the engine is waiting on, if any
func (b *Bridge) Pending() (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return Request{}, false
	}
	return b.pending.req, true
}

// Resolve answers the pending request. Answers for a request that is no
// longer pending fail with errors.FailedPrecondition; an option the request
// did not offer fails with errors.InvalidArgument and keeps it pending.
func (b *Bridge) Resolve(requestID, optionID string) error {
	b.mu.Lock()
	p := b.pending
	if p == nil {
		b.mu.Unlock()
		slog.Warn("no pending choice request to resolve",
			"request_id", requestID)
		return errors.FailedPrecondition("no pending choice request")
	}
	if p.req.ID != requestID {
		b.mu.Unlock()
		slog.Warn("ignoring answer for stale choice request",
			"request_id", requestID,
			"pending_request_id", p.req.ID)
		return errors.FailedPreconditionf("choice request %s is not pending", requestID)
	}

	if !hasOption(p.req.Options, optionID) {
		b.mu.Unlock()
		return errors.InvalidArgumentf("option %q was not offered", optionID)
	}

	b.pending = nil
	b.mu.Unlock()

	p.result <- result{optionID: optionID}
	return nil
}

// Cancel rejects the pending request with errors.Canceled. It reports whether
// a request was pending.
func (b *Bridge) Cancel(reason string) bool {
	b.mu.Lock()
	p := b.pending
	b.pending = nil
	b.mu.Unlock()

	if p == nil {
		return false
	}
	p.result <- result{err: errors.Canceled(reason).WithMeta("request_id", p.req.ID)}
	return true
}

// Close rejects any pending request and detaches the handler
func (b *Bridge) Close() {
	b.Cancel("input bridge closed")
	b.SetHandler(nil)
}
