// Package observe wires externally-bound mutable collections into the
// chart's invalidation path.
//
// A bound collection that implements [Listenable] gets exactly one chart
// subscription at a time; when the host swaps which instance backs a named
// property, the [BindingTracker] tears down the old subscription before
// installing the new one, so long-lived charts never leak listeners across
// binding churn.
package observe

import "sync"

// Listenable is implemented by mutable collections that notify on change.
// AddListener returns a removal function that deterministically tears the
// subscription down; callers must not rely on garbage collection to do it.
type Listenable interface {
	AddListener(fn func()) (remove func())
}

// ChangeNotifier is a ready-made [Listenable] for embedding in bound
// collection types. The zero value is usable.
type ChangeNotifier struct {
	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

// AddListener registers fn and returns its removal function.
func (n *ChangeNotifier) AddListener(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// NotifyListeners invokes every registered listener.
// Listeners run outside the notifier's lock.
func (n *ChangeNotifier) NotifyListeners() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ListenerCount returns the number of active listeners.
func (n *ChangeNotifier) ListenerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
