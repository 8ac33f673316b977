package callback

import (
	"fmt"
	"sync"
)

// panel is an owner that accepts shortcuts.
type panel struct {
	Shortcuts[*panel]
	label string
}

// recorder collects handler calls in order.
type recorder struct {
	calls []string
	args  [][]any
	mu    sync.Mutex
}

func (r *recorder) handler(name string) Handler[*panel] {
	return func(p *panel, args ...any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		label := "<nil>"
		if p != nil {
			label = p.label
		}
		r.calls = append(r.calls, fmt.Sprintf("%s@%s", name, label))
		r.args = append(r.args, args)
	}
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) Args() [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]any(nil), r.args...)
}

// newTestQueue returns a queue ticked by hand through the returned loop.
func newTestQueue(owner *panel, opts ...Option) (*Queue[*panel], *Loop) {
	loop := NewLoop()
	q := New(owner, append([]Option{WithScheduler(loop)}, opts...)...)
	return q, loop
}
