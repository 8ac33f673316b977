package callback

import "sync"

// Binder is implemented by owners that accept named registration shortcuts.
// New binds the queue's Add under the WithShortcut name; Unload rebinds the
// same name to nil.
type Binder[O any] interface {
	BindShortcut(name string, add AddFunc[O])
}

// Shortcuts is an embeddable Binder.
//
//	type Panel struct {
//	    callback.Shortcuts[*Panel]
//	}
//
//	p := &Panel{}
//	q := callback.New(p, callback.WithShortcut("on"))
//	on, _ := p.Shortcut("on")
//	on(handler) // same as q.Add(handler)
type Shortcuts[O any] struct {
	entries map[string]AddFunc[O]
	mu      sync.RWMutex
}

// BindShortcut sets name to add, or removes it when add is nil.
func (s *Shortcuts[O]) BindShortcut(name string, add AddFunc[O]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if add == nil {
		delete(s.entries, name)
		return
	}
	if s.entries == nil {
		s.entries = make(map[string]AddFunc[O])
	}
	s.entries[name] = add
}

// Shortcut returns the registration function bound under name.
func (s *Shortcuts[O]) Shortcut(name string) (AddFunc[O], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	add, ok := s.entries[name]
	return add, ok
}
