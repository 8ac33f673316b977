package callback

import (
	"errors"
	"fmt"
)

var (
	// ErrUnloaded is reported by deferred fires on a queue that has been unloaded.
	ErrUnloaded = errors.New("callback: queue unloaded")

	// ErrLoopClosed is reported when a pass is scheduled on a closed Loop.
	ErrLoopClosed = errors.New("callback: loop closed")
)

// PanicError carries a panic recovered from a handler during a deferred pass.
type PanicError struct {
	Queue     string
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	if e.Queue == "" {
		return fmt.Sprintf("callback: handler panic: %v", e.Recovered)
	}
	return fmt.Sprintf("callback: handler panic in %s: %v", e.Queue, e.Recovered)
}

// Unwrap returns the recovered value when the handler panicked with an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
