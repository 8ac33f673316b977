package callback

import "runtime/debug"

// FireSync runs a pass on the calling goroutine before returning.
// If no handlers are registered the fallback runs instead. Afterwards the
// chain target, if any, is fired with the same arguments.
// A handler panic ends the pass and propagates to the caller unless
// handler isolation is enabled.
func (q *Queue[O]) FireSync(args ...any) {
	_ = q.exec(modeSync, args)
}

// Fire schedules a pass for the next tick of the queue's scheduler.
// No handler runs before Fire returns (unless sync mode is enabled).
// The handler list and owner are read when the pass runs, not when it is
// scheduled. The returned Pending completes when the pass has finished;
// the chain target's own pass is scheduled, not awaited.
func (q *Queue[O]) Fire(args ...any) *Pending {
	return q.schedule(modeAsync, args, q.exec)
}

// FirePop schedules a pass that removes and runs only the most recently
// added handler. Repeated calls consume handlers newest first.
// If no handlers remain the fallback runs instead. The chain is not fired.
func (q *Queue[O]) FirePop(args ...any) *Pending {
	return q.schedule(modePop, args, q.execPop)
}

// schedule queues run on the scheduler and returns its Pending.
func (q *Queue[O]) schedule(mode string, args []any, run func(string, []any) error) *Pending {
	p := newPending()
	if q.isUnloaded() {
		p.complete(ErrUnloaded)
		return p
	}

	// Callers may reuse a slice passed with args...; keep our own copy.
	captured := make([]any, len(args))
	copy(captured, args)

	q.pending.Add(1)
	q.cfg.metrics.pending(q.cfg.name, 1)

	err := q.cfg.scheduler.Schedule(func() {
		q.pending.Add(-1)
		q.cfg.metrics.pending(q.cfg.name, -1)
		p.complete(q.runDeferred(mode, captured, run))
	})
	if err != nil {
		q.pending.Add(-1)
		q.cfg.metrics.pending(q.cfg.name, -1)
		q.logger.Debug().Err(err).Str("mode", mode).Msg("Dispatch not scheduled")
		p.complete(err)
	}
	return p
}

// runDeferred runs a pass off the caller's goroutine, converting a handler
// panic into a *PanicError.
func (q *Queue[O]) runDeferred(mode string, args []any, run func(string, []any) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = q.recovered(r)
		}
	}()
	return run(mode, args)
}

// exec runs every handler, or the fallback when there are none, then fires the chain.
// A handler that unloads the queue ends the pass; nothing after it runs.
func (q *Queue[O]) exec(mode string, args []any) error {
	q.mu.Lock()
	if q.unloaded {
		q.mu.Unlock()
		return ErrUnloaded
	}
	handlers := make([]Handler[O], len(q.handlers))
	copy(handlers, q.handlers)
	fallback := q.fallback
	next := q.next
	q.mu.Unlock()

	q.cfg.metrics.dispatched(q.cfg.name, mode)

	if len(handlers) == 0 && fallback != nil {
		q.invoke(fallback, kindFallback, args)
	}
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		if q.isUnloaded() {
			return ErrUnloaded
		}
		q.invoke(handler, kindHandler, args)
	}

	if q.isUnloaded() {
		return ErrUnloaded
	}
	if next != nil {
		next.Fire(args...)
	}
	return nil
}

// execPop removes the last handler and runs it.
// The fallback runs when no non-nil handler is left.
func (q *Queue[O]) execPop(mode string, args []any) error {
	q.mu.Lock()
	if q.unloaded {
		q.mu.Unlock()
		return ErrUnloaded
	}
	fallback := q.fallback
	empty := true
	for _, h := range q.handlers {
		if h != nil {
			empty = false
			break
		}
	}
	var handler Handler[O]
	if n := len(q.handlers); n > 0 {
		handler = q.handlers[n-1]
		q.handlers[n-1] = nil
		q.handlers = q.handlers[:n-1]
	}
	q.mu.Unlock()

	q.cfg.metrics.dispatched(q.cfg.name, mode)

	if empty && fallback != nil {
		q.invoke(fallback, kindFallback, args)
	}
	if q.isUnloaded() {
		return ErrUnloaded
	}
	if handler != nil {
		q.invoke(handler, kindHandler, args)
	}
	return nil
}

// invoke calls handler with the current owner.
func (q *Queue[O]) invoke(handler Handler[O], kind string, args []any) {
	owner := q.Owner()
	q.cfg.metrics.invoked(q.cfg.name, kind)

	if !q.cfg.isolate {
		handler(owner, args...)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			q.recovered(r)
		}
	}()
	handler(owner, args...)
}

// recovered reports a handler panic and wraps it.
func (q *Queue[O]) recovered(r any) *PanicError {
	pe := &PanicError{
		Queue:     q.cfg.name,
		Recovered: r,
		Stack:     debug.Stack(),
	}

	q.cfg.metrics.panicked(q.cfg.name)
	q.logger.Error().Interface("panic", r).Msg("Handler panicked")

	if q.cfg.panicHandler != nil {
		q.cfg.panicHandler(q.cfg.name, r)
	}
	return pe
}
