package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive computation that re-runs when its dependencies
// change. The body runs once on creation; every cell or memo read during
// the run becomes a dependency for the next invalidation. The body may
// return a Cleanup that runs before the next run and on disposal.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the cleanup from the last run.
	cleanup Cleanup

	// sources are the cells/memos this effect read during its last run.
	sources   []*cellBase
	sourcesMu sync.Mutex

	// owner is the scope that disposes this effect, if any.
	owner *Owner

	// deferred parks invalidations on the owner instead of running
	// synchronously. Fixed at creation.
	deferred bool

	// pending means the effect is queued on its owner.
	pending atomic.Bool

	// running is the self-trigger guard: an invalidation delivered while
	// the body is on the stack is dropped rather than recursing.
	running atomic.Bool

	// disposed means the effect is dead and must never run again.
	disposed atomic.Bool
}

// MarkDirty runs or schedules the effect. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	// Self-trigger guard: the body invalidated itself.
	if e.running.Load() {
		return
	}

	if e.deferred && e.owner != nil {
		if e.pending.CompareAndSwap(false, true) {
			e.owner.scheduleEffect(e)
		}
		return
	}

	e.run()
}

// ID returns the unique identifier for this effect. Implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect body with full cleanup-before-run discipline:
// previous cleanup first (untracked), then unsubscribe from every source of
// the previous run, then re-track during the body. A panic in the body
// propagates to the caller with the listener slot already restored and the
// dependency set already clean.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		// Cleanup must not record dependencies for this effect.
		cleanup := e.cleanup
		e.cleanup = nil
		Untracked(cleanup)
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	e.running.Store(true)
	oldListener := setCurrentListener(e)
	defer func() {
		setCurrentListener(oldListener)
		e.running.Store(false)
	}()

	e.cleanup = e.fn()
}

// addSource records a dependency edge. Called by cells during the run.
func (e *Effect) addSource(source *cellBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose runs the cleanup synchronously and unsubscribes from all
// sources. After disposal the graph holds no reference to the effect.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		cleanup := e.cleanup
		e.cleanup = nil
		Untracked(cleanup)
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// EffectOption configures an Effect at creation.
type EffectOption func(*Effect)

// Deferred parks the effect's invalidations on its owner instead of
// running them synchronously. The owner's RunPendingEffects drains them;
// the render runtime calls it after each patch pass so side effects of
// patching run only once the live tree is consistent.
func Deferred() EffectOption {
	return func(e *Effect) {
		e.deferred = true
	}
}

// NewEffect creates an effect within the current owner scope and runs it
// immediately. The returned effect can be disposed directly, or dies with
// its owner.
func NewEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: getCurrentOwner(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.owner != nil {
		e.owner.registerEffect(e)
	}

	e.run()

	return e
}

// OnMount runs fn once, when the surrounding scope is first set up.
// Equivalent to an effect with no reactive dependencies.
func OnMount(fn func()) {
	NewEffect(func() Cleanup {
		Untracked(fn)
		return nil
	})
}

// OnUnmount registers fn to run when the current owner is disposed.
func OnUnmount(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
