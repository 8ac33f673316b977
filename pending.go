package callback

import (
	"context"
	"time"
)

// Pending tracks one deferred pass scheduled by Fire or FirePop.
type Pending struct {
	// Scheduled records when the pass was requested.
	Scheduled time.Time

	done chan struct{}
	err  error
}

func newPending() *Pending {
	return &Pending{
		Scheduled: time.Now(),
		done:      make(chan struct{}),
	}
}

// complete records the outcome. Must be called exactly once.
func (p *Pending) complete(err error) {
	p.err = err
	close(p.done)
}

// Done is closed once the pass has run.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the outcome of the pass, or nil while it is still pending.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the pass has run or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
