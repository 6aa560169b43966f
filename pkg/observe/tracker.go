package observe

import "sync"

// binding records the last-observed instance for a property name and the
// teardown for its active subscription, if any.
type binding struct {
	instance any
	remove   func()
}

// BindingTracker maps logical property names to the collection instance
// last bound to them. At most one subscription per name is live at a time.
type BindingTracker struct {
	mu       sync.Mutex
	onChange func()
	bindings map[string]binding
	closed   bool
}

// NewBindingTracker creates a tracker that calls onChange whenever any
// currently-bound Listenable instance notifies.
func NewBindingTracker(onChange func()) *BindingTracker {
	return &BindingTracker{
		onChange: onChange,
		bindings: make(map[string]binding),
	}
}

// Swap records that the named property is now backed by instance.
//
// The previous instance's subscription, if one was live, is removed first.
// If the new instance implements [Listenable], a single change handler is
// subscribed. The stored instance is overwritten in every case, including
// when the new instance supports no notifications, so the next Swap
// compares against the right value.
func (t *BindingTracker) Swap(name string, instance any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.bindings[name]; ok && prev.remove != nil {
		prev.remove()
	}

	b := binding{instance: instance}
	if l, ok := instance.(Listenable); ok && l != nil && !t.closed {
		b.remove = l.AddListener(t.onChange)
	}
	t.bindings[name] = b
}

// Instance returns the instance currently recorded for name.
func (t *BindingTracker) Instance(name string) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.bindings[name]
	return b.instance, ok
}

// Close removes every live subscription. After Close returns, no bound
// instance can trigger the change callback, and later Swaps record
// instances without subscribing. Close is idempotent.
func (t *BindingTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for name, b := range t.bindings {
		if b.remove != nil {
			b.remove()
			b.remove = nil
			t.bindings[name] = b
		}
	}
}
