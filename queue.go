package callback

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Queue is an ordered list of handlers bound to an owner.
// It is safe to use from multiple goroutines; handlers run without the
// queue's lock held and may call back into it.
type Queue[O any] struct {
	id       string
	cfg      config
	logger   zerolog.Logger
	owner    O
	handlers []Handler[O]
	fallback Handler[O]
	next     Firer
	binder   Binder[O]
	unloaded bool
	pending  atomic.Int64
	mu       sync.Mutex
}

// New creates a Queue for owner.
// With WithShortcut, an owner implementing Binder receives the queue's Add
// under the given name.
func New[O any](owner O, opts ...Option) *Queue[O] {
	cfg := newConfig(opts)
	id := uuid.New().String()

	q := &Queue[O]{
		id:       id,
		cfg:      cfg,
		owner:    owner,
		handlers: make([]Handler[O], 0),
		logger: cfg.logger.With().
			Str("component", "callback").
			Str("queue_id", id).
			Str("queue", cfg.name).
			Logger(),
	}

	if cfg.shortcut != "" {
		if b, ok := any(owner).(Binder[O]); ok {
			q.binder = b
			b.BindShortcut(cfg.shortcut, q.Add)
		}
	}

	q.logger.Debug().Str("shortcut", cfg.shortcut).Bool("bound", q.binder != nil).Msg("Queue created")
	return q
}

// ID returns the queue's unique identifier.
func (q *Queue[O]) ID() string { return q.id }

// Name returns the name set with WithName.
func (q *Queue[O]) Name() string { return q.cfg.name }

// Add appends a handler and returns the owner.
// A nil handler is kept in the list and skipped at dispatch.
// After Unload, Add does nothing and returns the zero owner.
func (q *Queue[O]) Add(handler Handler[O]) O {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.unloaded {
		var zero O
		return zero
	}
	q.handlers = append(q.handlers, handler)
	return q.owner
}

// Shortcut returns a plain registration function for this queue.
// It stops registering once the queue is unloaded.
func (q *Queue[O]) Shortcut() AddFunc[O] {
	return q.Add
}

// Clear removes all handlers. Fallback, chain, and owner are kept.
func (q *Queue[O]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.unloaded {
		return
	}
	q.handlers = make([]Handler[O], 0)
}

// SetOwner replaces the owner passed to handlers.
// Passes already scheduled but not yet run see the new owner.
func (q *Queue[O]) SetOwner(owner O) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.unloaded {
		return
	}
	q.owner = owner
}

// Owner returns the current owner.
func (q *Queue[O]) Owner() O {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.owner
}

// IfNoHandlers sets the fallback run when a pass finds no handlers.
// Replaces any previous fallback.
func (q *Queue[O]) IfNoHandlers(handler Handler[O]) *Queue[O] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.unloaded {
		q.fallback = handler
	}
	return q
}

// Chain sets the target fired with the same arguments after each Fire or
// FireSync pass. Replaces any previous target; nil removes it.
// Chains that lead back to this queue fire once per tick, indefinitely.
// With WithSyncMode there is no tick, so such a cycle recurses on the
// calling goroutine until the stack overflows.
func (q *Queue[O]) Chain(next Firer) *Queue[O] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.unloaded {
		q.next = next
	}
	return q
}

// Handlers returns a copy of the registered handlers in registration order.
func (q *Queue[O]) Handlers() []Handler[O] {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := make([]Handler[O], len(q.handlers))
	copy(result, q.handlers)
	return result
}

// Len returns the number of registered handlers.
func (q *Queue[O]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.handlers)
}

// Stats returns a snapshot of the queue's state.
func (q *Queue[O]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Stats{
		Handlers:    len(q.handlers),
		Pending:     int(q.pending.Load()),
		HasFallback: q.fallback != nil,
		Chained:     q.next != nil,
		Unloaded:    q.unloaded,
	}
}

// Unload disposes of the queue: handlers are dropped, the owner's shortcut
// is rebound to nil, and the owner reference is released.
// Every later operation is a no-op; see ErrUnloaded. Safe to call multiple times.
func (q *Queue[O]) Unload() {
	q.mu.Lock()
	if q.unloaded {
		q.mu.Unlock()
		return
	}
	var zero O
	q.unloaded = true
	q.handlers = make([]Handler[O], 0)
	q.owner = zero
	q.fallback = nil
	q.next = nil
	binder := q.binder
	q.binder = nil
	q.mu.Unlock()

	if binder != nil {
		binder.BindShortcut(q.cfg.shortcut, nil)
	}

	q.logger.Debug().Msg("Queue unloaded")
}

func (q *Queue[O]) isUnloaded() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unloaded
}
