// Package callback provides owner-bound callback queues for Go.
//
// A Queue collects handlers for one owner and dispatches them in three ways:
// FireSync runs every handler immediately, Fire defers the pass to the next
// tick of a Scheduler, and FirePop consumes handlers one at a time, newest
// first. A queue may carry a fallback that runs when no handlers are
// registered, and may chain to another queue that fires after its own pass.
//
// Quick example:
//
//	type Button struct {
//	    callback.Shortcuts[*Button]
//	    Label string
//	}
//
//	b := &Button{Label: "ok"}
//	clicked := callback.New(b, callback.WithShortcut("click"))
//
//	clicked.Add(func(b *Button, args ...any) {
//	    x, _ := callback.Arg[int](args, 0)
//	    fmt.Println(b.Label, "clicked at", x)
//	})
//
//	clicked.FireSync(10)          // runs now
//	p := clicked.Fire(20)         // runs on the next tick
//	_ = p.Wait(context.Background())
//	clicked.Unload()              // b's "click" shortcut is now inert
package callback

// Handler is a function registered on a Queue.
// The owner is read at invocation time, so SetOwner affects passes that
// have been scheduled but not yet run.
type Handler[O any] func(owner O, args ...any)

// AddFunc registers a handler and returns the owner.
// It is the shape of Queue.Add and of the shortcuts bound to owners.
type AddFunc[O any] func(Handler[O]) O

// Firer is anything that can be the target of Queue.Chain.
// Every *Queue satisfies it regardless of owner type.
type Firer interface {
	Fire(args ...any) *Pending
}

// Stats provides a point-in-time view of a Queue.
type Stats struct {
	// Handlers is the number of registered handlers, including nil entries.
	Handlers int

	// Pending is the number of deferred passes scheduled but not yet run.
	Pending int

	// HasFallback reports whether IfNoHandlers has set a fallback.
	HasFallback bool

	// Chained reports whether a chain target is set.
	Chained bool

	// Unloaded reports whether Unload has been called.
	Unloaded bool
}
