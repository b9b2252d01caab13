package reactive

// Listener is anything that can be notified when a cell it depends on
// changes. Effects and memos implement it; the render runtime's computation
// is an effect under the hood.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For effects this runs (or schedules) the body; for memos it
	// invalidates the cached value and propagates dirtiness.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication when a batch flushes.
	ID() uint64
}

// Cleanup is returned by an effect body to release resources.
// It runs before the effect re-runs and when the effect is disposed.
type Cleanup func()

// sourceTracker is implemented by listeners that record which cells they
// read, so cells can hand themselves back for cleanup-before-run.
type sourceTracker interface {
	addSource(source *cellBase)
}
