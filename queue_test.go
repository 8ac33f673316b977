package callback

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	owner := &panel{label: "main"}
	q := New(owner, WithName("clicks"))
	require.NotNil(t, q)

	assert.Equal(t, "clicks", q.Name())
	assert.Same(t, owner, q.Owner())
	assert.NotNil(t, q.Handlers())
	assert.Empty(t, q.Handlers())

	_, err := uuid.Parse(q.ID())
	assert.NoError(t, err)
	assert.NotEqual(t, q.ID(), New(owner).ID())
}

func TestAddReturnsOwner(t *testing.T) {
	owner := &panel{label: "main"}
	q, _ := newTestQueue(owner)

	got := q.Add(func(*panel, ...any) {})
	assert.Same(t, owner, got)
	assert.Equal(t, 1, q.Len())
}

func TestFireSyncInsertionOrder(t *testing.T) {
	var rec recorder
	q, _ := newTestQueue(&panel{label: "p"})

	q.Add(rec.handler("h1"))
	q.Add(rec.handler("h2"))
	q.Add(rec.handler("h3"))

	q.FireSync("a", "b")

	assert.Equal(t, []string{"h1@p", "h2@p", "h3@p"}, rec.Calls())
	for _, args := range rec.Args() {
		assert.Equal(t, []any{"a", "b"}, args)
	}
}

func TestFireSyncSkipsNilHandlers(t *testing.T) {
	var rec recorder
	var fallback recorder
	q, _ := newTestQueue(&panel{label: "p"})
	q.IfNoHandlers(fallback.handler("fb"))

	q.Add(nil)
	q.Add(rec.handler("h1"))
	q.Add(nil)

	assert.NotPanics(t, func() { q.FireSync() })
	assert.Equal(t, []string{"h1@p"}, rec.Calls())
	assert.Empty(t, fallback.Calls(), "nil entries still count as registered")
}

func TestFireSyncFallback(t *testing.T) {
	var fallback recorder
	q, _ := newTestQueue(&panel{label: "p"})
	q.IfNoHandlers(fallback.handler("f2"))

	q.FireSync()

	assert.Equal(t, []string{"f2@p"}, fallback.Calls())
}

func TestFallbackNotRunWithHandlers(t *testing.T) {
	var rec, fallback recorder
	q, _ := newTestQueue(&panel{label: "p"})
	q.IfNoHandlers(fallback.handler("fb")).IfNoHandlers(fallback.handler("fb2"))
	q.Add(rec.handler("h"))

	q.FireSync()
	assert.Equal(t, []string{"h@p"}, rec.Calls())
	assert.Empty(t, fallback.Calls())

	q.Clear()
	q.FireSync()
	assert.Equal(t, []string{"fb2@p"}, fallback.Calls(), "later IfNoHandlers replaces earlier")
}

func TestClear(t *testing.T) {
	var rec recorder
	q, _ := newTestQueue(&panel{label: "p"})
	q.Add(rec.handler("h1"))
	q.Add(rec.handler("h2"))

	q.Clear()
	q.FireSync()

	assert.Empty(t, rec.Calls())
	assert.Equal(t, 0, q.Len())
	assert.NotNil(t, q.Handlers())
}

func TestHandlersIsReadOnlyView(t *testing.T) {
	var rec recorder
	q, _ := newTestQueue(&panel{label: "p"})
	q.Add(rec.handler("h1"))

	view := q.Handlers()
	require.Len(t, view, 1)
	view[0] = rec.handler("intruder")
	_ = append(view, rec.handler("extra"))

	q.FireSync()
	assert.Equal(t, []string{"h1@p"}, rec.Calls())
	assert.Equal(t, 1, q.Len())
}

func TestSetOwner(t *testing.T) {
	var rec recorder
	q, _ := newTestQueue(&panel{label: "first"})
	q.Add(rec.handler("h"))

	q.FireSync()
	q.SetOwner(&panel{label: "second"})
	q.FireSync()

	assert.Equal(t, []string{"h@first", "h@second"}, rec.Calls())
}

func TestSetOwnerMidPass(t *testing.T) {
	var rec recorder
	second := &panel{label: "second"}
	q, _ := newTestQueue(&panel{label: "first"})

	q.Add(func(*panel, ...any) { q.SetOwner(second) })
	q.Add(rec.handler("h"))

	q.FireSync()
	assert.Equal(t, []string{"h@second"}, rec.Calls(), "owner is read per invocation")
}

func TestHandlerMayAddDuringPass(t *testing.T) {
	var rec recorder
	q, _ := newTestQueue(&panel{label: "p"})

	q.Add(func(*panel, ...any) {
		q.Add(rec.handler("late"))
	})

	q.FireSync()
	assert.Empty(t, rec.Calls(), "handlers added during a pass wait for the next pass")

	q.FireSync()
	assert.Equal(t, []string{"late@p"}, rec.Calls())
}

func TestFireSyncPanicAbortsPass(t *testing.T) {
	var rec recorder
	q, _ := newTestQueue(&panel{label: "p"})
	q.Add(rec.handler("h1"))
	q.Add(func(*panel, ...any) { panic("boom") })
	q.Add(rec.handler("h3"))

	assert.PanicsWithValue(t, "boom", func() { q.FireSync() })
	assert.Equal(t, []string{"h1@p"}, rec.Calls())
	assert.Equal(t, 3, q.Len(), "panic leaves the handler list intact")
}

func TestStats(t *testing.T) {
	q, loop := newTestQueue(&panel{label: "p"})
	q.Add(func(*panel, ...any) {})
	q.Add(nil)
	q.IfNoHandlers(func(*panel, ...any) {})
	q.Chain(New(struct{}{}, WithScheduler(loop)))

	q.Fire()
	q.Fire()

	stats := q.Stats()
	assert.Equal(t, 2, stats.Handlers)
	assert.Equal(t, 2, stats.Pending)
	assert.True(t, stats.HasFallback)
	assert.True(t, stats.Chained)
	assert.False(t, stats.Unloaded)

	loop.RunPending()
	assert.Equal(t, 0, q.Stats().Pending)
}

func TestUnload(t *testing.T) {
	var rec recorder
	owner := &panel{label: "p"}
	q, _ := newTestQueue(owner, WithShortcut("on"))
	q.Add(rec.handler("h"))

	q.FireSync("hi")
	require.Equal(t, []string{"h@p"}, rec.Calls())
	require.Equal(t, []any{"hi"}, rec.Args()[0])

	q.Unload()

	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Owner())
	assert.True(t, q.Stats().Unloaded)

	on, ok := owner.Shortcut("on")
	assert.False(t, ok)
	assert.Nil(t, on)
}

func TestUnloadIdempotent(t *testing.T) {
	q, _ := newTestQueue(&panel{label: "p"}, WithShortcut("on"))

	assert.NotPanics(t, func() {
		q.Unload()
		q.Unload()
		q.Unload()
	})
}

func TestOperationsAfterUnload(t *testing.T) {
	var rec, fallback recorder
	owner := &panel{label: "p"}
	q, loop := newTestQueue(owner)
	q.Unload()

	assert.Nil(t, q.Add(rec.handler("h")))
	assert.Equal(t, 0, q.Len())

	q.SetOwner(owner)
	assert.Nil(t, q.Owner())

	assert.Same(t, q, q.IfNoHandlers(fallback.handler("fb")))
	assert.Same(t, q, q.Chain(New(struct{}{}, WithSyncMode())))
	assert.False(t, q.Stats().HasFallback)
	assert.False(t, q.Stats().Chained)

	assert.NotPanics(t, func() {
		q.FireSync()
		q.Clear()
	})

	p := q.Fire()
	assert.ErrorIs(t, p.Err(), ErrUnloaded)
	p = q.FirePop()
	assert.ErrorIs(t, p.Err(), ErrUnloaded)
	assert.Equal(t, 0, loop.Len(), "nothing is scheduled on an unloaded queue")

	assert.Empty(t, rec.Calls())
	assert.Empty(t, fallback.Calls())
}

func TestUnloadBeforeTick(t *testing.T) {
	var rec, fallback recorder
	q, loop := newTestQueue(&panel{label: "p"})
	q.Add(rec.handler("h"))
	q.IfNoHandlers(fallback.handler("fb"))

	p := q.Fire()
	q.Unload()
	loop.RunPending()

	assert.ErrorIs(t, p.Err(), ErrUnloaded)
	assert.Empty(t, rec.Calls())
	assert.Empty(t, fallback.Calls())
}
