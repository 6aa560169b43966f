// Package resource tracks disposable drawing resources by update generation.
//
// Every update cycle mints a fresh generation token and pushes it into the
// [Ledger]. Resources touched during the cycle carry that token; anything
// still tagged with an older token after the cycle is orphaned and gets
// disposed by [Ledger.Collect]. A full restart bypasses generations entirely
// and clears the ledger with [Ledger.Clear].
package resource

import (
	"sync"

	"github.com/google/uuid"

	"github.com/go-plotkit/plotkit/pkg/errors"
)

// Disposable is a drawing resource that releases native or pooled state
// when the chart no longer needs it.
type Disposable interface {
	Dispose() error
}

// Handle is the stable identity the ledger assigns a resource at first
// registration. Generation tags are keyed by handle, not by hashing the
// resource itself.
type Handle int

// Ledger maps live resources to the generation that last touched them.
//
// The update path is serialized by the owning model, so the ledger's mutex
// only has to cover the brief map operations, in the same way the frame
// loop guards its shared ticker registry.
type Ledger struct {
	mu        sync.Mutex
	gen       uuid.UUID
	next      Handle
	resources map[Handle]Disposable
	tags      map[Handle]uuid.UUID
	index     map[Disposable]Handle
}

// NewLedger returns an empty ledger with a zero generation.
func NewLedger() *Ledger {
	return &Ledger{
		resources: make(map[Handle]Disposable),
		tags:      make(map[Handle]uuid.UUID),
		index:     make(map[Disposable]Handle),
	}
}

// SetGeneration installs the token for the cycle that is about to run.
// Registrations from here on carry this token.
func (l *Ledger) SetGeneration(gen uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen = gen
}

// Generation returns the current generation token.
func (l *Ledger) Generation() uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Register marks r as alive in the current generation and returns its
// handle. Registering a resource the ledger already tracks re-tags the
// existing entry, so repeated registration within one cycle is idempotent.
// The re-registration check compares interface identity; resources are
// expected to be pointers.
func (l *Ledger) Register(r Disposable) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.index[r]; ok {
		l.tags[h] = l.gen
		return h
	}

	h := l.next
	l.next++
	l.resources[h] = r
	l.tags[h] = l.gen
	l.index[r] = h
	return h
}

// Tracked reports whether the ledger currently holds an entry for r.
func (l *Ledger) Tracked(r Disposable) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.index[r]
	return ok
}

// Len returns the number of tracked resources.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.resources)
}

// Collect disposes and removes every resource whose tag differs from the
// current generation. The pass is best effort: a failing Dispose does not
// stop collection, and all failures come back as one *errors.DisposeError.
func (l *Ledger) Collect() error {
	l.mu.Lock()
	gen := l.gen
	stale := make([]Handle, 0, len(l.resources))
	for h, tag := range l.tags {
		if tag != gen {
			stale = append(stale, h)
		}
	}
	l.mu.Unlock()

	return l.dispose(stale)
}

// Clear disposes and removes every tracked resource regardless of
// generation. Used for full-restart updates and final disposal.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	all := make([]Handle, 0, len(l.resources))
	for h := range l.resources {
		all = append(all, h)
	}
	l.mu.Unlock()

	return l.dispose(all)
}

// dispose walks a snapshot of handles so that registrations landing
// mid-pass cannot corrupt the traversal.
func (l *Ledger) dispose(handles []Handle) error {
	var failures []error
	for _, h := range handles {
		l.mu.Lock()
		r, ok := l.resources[h]
		if ok {
			delete(l.resources, h)
			delete(l.tags, h)
			delete(l.index, r)
		}
		l.mu.Unlock()
		if !ok {
			continue
		}
		if err := r.Dispose(); err != nil {
			failures = append(failures, err)
		}
	}
	return errors.JoinDispose(failures)
}
