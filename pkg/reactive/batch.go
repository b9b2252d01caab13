package reactive

// Batch groups multiple cell writes into a single notification phase.
// Invalidations raised inside fn are collected in first-trigger order,
// deduplicated by listener ID, and delivered once when the outermost batch
// exits. Nested batches flatten into the outermost one: the inner fn runs
// synchronously and queues into the same flush.
//
// A cell written several times inside one batch only triggers its
// dependents with the final value, because re-runs read the cell's current
// value at flush time.
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies the queued listeners.
// FIFO by first trigger: the first queue position of each listener wins.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}
