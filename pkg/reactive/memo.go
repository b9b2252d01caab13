package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached derived value. It wraps one computation plus a cached
// result and a dirty flag, and is itself observable exactly like a cell.
//
// Memos are lazy: invalidation only clears the valid flag and propagates
// dirtiness downstream; the computation re-runs on the next Get. A memo
// that is marked dirty and never read again never recomputes.
type Memo[T any] struct {
	base cellBase

	// compute is the derivation body.
	compute func() T

	// value is the cached result.
	value   T
	valueMu sync.RWMutex

	// valid is the inverse dirty flag. When false, the next Get
	// recomputes.
	valid atomic.Bool

	// sources are the cells/memos read during the last computation.
	sources   []*cellBase
	sourcesMu sync.Mutex

	// equal decides whether a recomputation changed the cached value.
	equal func(T, T) bool

	// computing guards against re-entrant recomputation when the
	// derivation cycles back into itself.
	computing atomic.Bool
}

// NewMemo creates a memo. The computation does not run until first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base: cellBase{
			id: nextID(),
		},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if dirty, and subscribes the
// current listener to this memo.
func (m *Memo[T]) Get() T {
	m.base.track()

	if !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// Peek returns the value without subscribing. Still recomputes if dirty.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the cache and propagates dirtiness to this memo's
// own subscribers without recomputing. Implements Listener.
func (m *Memo[T]) MarkDirty() {
	// CAS makes repeated invalidations idempotent: subscribers hear about
	// a dirty memo once per valid->dirty transition.
	if m.valid.CompareAndSwap(true, false) {
		m.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this memo. Implements Listener.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// addSource records a dependency edge. Called by cells during computation.
func (m *Memo[T]) addSource(source *cellBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

// WithEquals configures a custom equality function and returns the memo.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

// recompute runs the derivation with cleanup-before-run discipline and
// publishes the result. Only an unequal result replaces the cache.
func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		// Already computing: the derivation reached itself. Skip.
		return
	}
	defer m.computing.Store(false)

	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	old := setCurrentListener(m)
	defer setCurrentListener(old)

	newValue := m.compute()

	m.valueMu.Lock()
	if !m.equals(m.value, newValue) {
		m.value = newValue
	}
	m.valueMu.Unlock()

	m.valid.Store(true)
}

func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return defaultEquals(a, b)
}

// Memos must be trackable sources for their own subscribers.
var _ Listener = (*Memo[int])(nil)
var _ sourceTracker = (*Memo[int])(nil)
