package callback

import (
	"context"
	"sync"
)

var (
	defaultLoopInst *Loop
	defaultLoopOnce sync.Once
)

// Scheduler defers tasks to a later tick.
// Tasks must run in the order they were scheduled.
type Scheduler interface {
	Schedule(task func()) error
}

// Loop is a FIFO deferred-task queue.
// It can be served by Run on a goroutine, or ticked by hand with
// RunPending and Drain when the caller owns the event loop.
type Loop struct {
	tasks     []func()
	wake      chan struct{} // buffered wakeup for Run
	shutdown  chan struct{}
	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

// NewLoop creates an idle Loop.
func NewLoop() *Loop {
	return &Loop{
		wake:     make(chan struct{}, 1),
		shutdown: make(chan struct{}),
	}
}

// defaultLoop returns the process-wide loop, starting it if necessary.
func defaultLoop() *Loop {
	defaultLoopOnce.Do(func() {
		defaultLoopInst = NewLoop()
		go defaultLoopInst.Run(context.Background()) //nolint:errcheck // Runs for the life of the process
	})
	return defaultLoopInst
}

// Schedule queues task for the next tick.
// Returns ErrLoopClosed once Close has been called.
func (l *Loop) Schedule(task func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Len returns the number of tasks waiting for a tick.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// RunPending runs one tick: every task queued before the call, in order.
// Tasks scheduled while the tick runs wait for the next one.
// Returns the number of tasks run.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	for _, task := range batch {
		task()
	}
	return len(batch)
}

// Drain ticks until no tasks remain and returns the total run.
func (l *Loop) Drain() int {
	total := 0
	for {
		n := l.RunPending()
		if n == 0 {
			return total
		}
		total += n
	}
}

// Run serves the loop until ctx is done or Close is called.
// On Close, remaining tasks are drained before Run returns nil.
// When ctx is done the loop is closed as well: later Schedule calls return
// ErrLoopClosed, and tasks already queued stay queued for RunPending or Drain.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.shutdown:
			l.Drain()
			return nil
		case <-l.wake:
		}
	}
}

// Close stops accepting tasks. Safe to call multiple times.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.shutdown)
	})
}

// inline runs tasks immediately on the scheduling goroutine.
type inline struct{}

func (inline) Schedule(task func()) error {
	task()
	return nil
}
