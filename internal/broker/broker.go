// Package broker coordinates requests a command handler makes to the
// presentation layer (permission prompts, activities started for a result)
// and the handler's suspension until the answer arrives.
//
// Each Broker serves one request kind and holds at most one pending request.
// The handler side calls Request and then Ticket.Await. The presentation side
// polls Current, issues the external call, calls MarkTriggered, and finally
// Complete. Cancel resolves a pending request with a cancelled outcome.
package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyPending means a request of the same kind is still outstanding.
	ErrAlreadyPending = errors.New("request already pending")
	// ErrNotPending means the operation needs a pending request and there is none.
	ErrNotPending = errors.New("no pending request")
	// ErrAlreadyTriggered means MarkTriggered was called twice for one request.
	ErrAlreadyTriggered = errors.New("request already triggered")
)

// Status is how a pending request ended.
type Status int

const (
	// Resolved means the presentation layer reported a value.
	Resolved Status = iota
	// Cancelled means the request was abandoned before a value arrived.
	Cancelled
)

func (s Status) String() string {
	if s == Cancelled {
		return "cancelled"
	}
	return "resolved"
}

// Outcome is delivered exactly once per request.
type Outcome[R any] struct {
	Value  R
	Status Status
}

// Cancelled reports whether the outcome carries no value.
func (o Outcome[R]) Cancelled() bool {
	return o.Status == Cancelled
}

// Request is a read-only view of the pending request.
type Request[P any] struct {
	ID        string
	Kind      string
	Params    P
	Triggered bool
}

type pending[P, R any] struct {
	id        string
	params    P
	triggered bool
	done      chan Outcome[R]
}

// Broker manages one request kind.
type Broker[P, R any] struct {
	kind     string
	mu       sync.Mutex
	current  *pending[P, R]
	onChange func()
	onDone   func(kind string, status Status)
}

// Option configures a Broker.
type Option func(*hooks)

type hooks struct {
	onChange func()
	onDone   func(kind string, status Status)
}

// WithOnChange registers fn to run after every state transition. It is
// called without the broker lock held.
func WithOnChange(fn func()) Option {
	return func(h *hooks) { h.onChange = fn }
}

// WithOnDone registers fn to run when a request is resolved or cancelled.
func WithOnDone(fn func(kind string, status Status)) Option {
	return func(h *hooks) { h.onDone = fn }
}

// New creates an idle broker for kind.
func New[P, R any](kind string, opts ...Option) *Broker[P, R] {
	h := hooks{}
	for _, opt := range opts {
		opt(&h)
	}
	return &Broker[P, R]{kind: kind, onChange: h.onChange, onDone: h.onDone}
}

// Kind returns the request kind served by the broker.
func (b *Broker[P, R]) Kind() string {
	return b.kind
}

// Ticket is the handler's handle on its pending request.
type Ticket[P, R any] struct {
	id     string
	broker *Broker[P, R]
	done   chan Outcome[R]
}

// ID returns the request identifier.
func (t *Ticket[P, R]) ID() string {
	return t.id
}

// Request stores a new pending request with params.
func (b *Broker[P, R]) Request(params P) (*Ticket[P, R], error) {
	b.mu.Lock()
	if b.current != nil {
		id := b.current.id
		b.mu.Unlock()
		return nil, fmt.Errorf("broker %s: request %s: %w", b.kind, id, ErrAlreadyPending)
	}
	p := &pending[P, R]{
		id:     uuid.NewString(),
		params: params,
		done:   make(chan Outcome[R], 1),
	}
	b.current = p
	b.mu.Unlock()

	b.changed()
	return &Ticket[P, R]{id: p.id, broker: b, done: p.done}, nil
}

// Current returns the pending request, if any.
func (b *Broker[P, R]) Current() (Request[P], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Request[P]{}, false
	}
	return Request[P]{
		ID:        b.current.id,
		Kind:      b.kind,
		Params:    b.current.params,
		Triggered: b.current.triggered,
	}, true
}

// Pending reports whether a request is outstanding.
func (b *Broker[P, R]) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil
}

// MarkTriggered records that the presentation layer has issued the external
// call for the pending request.
func (b *Broker[P, R]) MarkTriggered() error {
	b.mu.Lock()
	if b.current == nil {
		b.mu.Unlock()
		return fmt.Errorf("broker %s: mark triggered: %w", b.kind, ErrNotPending)
	}
	if b.current.triggered {
		id := b.current.id
		b.mu.Unlock()
		return fmt.Errorf("broker %s: mark triggered %s: %w", b.kind, id, ErrAlreadyTriggered)
	}
	b.current.triggered = true
	b.mu.Unlock()

	b.changed()
	return nil
}

// Complete resolves the pending request with value. It returns false and
// does nothing when no request is pending, which happens when the result
// arrives after the handler gave up.
func (b *Broker[P, R]) Complete(value R) bool {
	return b.finish("", Outcome[R]{Value: value, Status: Resolved})
}

// Cancel resolves the pending request as cancelled. It returns false when
// the broker is idle.
func (b *Broker[P, R]) Cancel() bool {
	return b.finish("", Outcome[R]{Status: Cancelled})
}

// finish resolves the pending request if id is empty or matches it.
func (b *Broker[P, R]) finish(id string, outcome Outcome[R]) bool {
	b.mu.Lock()
	p := b.current
	if p == nil || (id != "" && p.id != id) {
		b.mu.Unlock()
		return false
	}
	b.current = nil
	// Buffered with capacity one and only ever sent to here, under the lock,
	// after clearing current.
	p.done <- outcome
	b.mu.Unlock()

	if b.onDone != nil {
		b.onDone(b.kind, outcome.Status)
	}
	b.changed()
	return true
}

func (b *Broker[P, R]) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

// Await blocks until the request is resolved or ctx is done. When ctx ends
// first the request is cancelled so the broker returns to idle; a result that
// raced the cancellation wins.
func (t *Ticket[P, R]) Await(ctx context.Context) Outcome[R] {
	select {
	case outcome := <-t.done:
		return outcome
	case <-ctx.Done():
		t.broker.finish(t.id, Outcome[R]{Status: Cancelled})
		return <-t.done
	}
}
