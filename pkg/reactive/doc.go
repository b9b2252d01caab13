// Package reactive implements Kalx's fine-grained dependency graph.
//
// The graph is bipartite: Cells hold observable values, and listeners
// (effects and memos) subscribe to the cells they read. Reading a cell
// during a tracked run records a dependency edge; writing a cell with a
// value that is unequal under its configured equality invalidates every
// subscriber. Dependencies are recomputed on every run: before a listener's
// body executes it unsubscribes from everything it read last time, so
// branches that are no longer taken stop triggering re-runs.
//
// Scheduling is synchronous and deterministic. Outside a Batch, a cell
// write runs affected effects immediately on the writing goroutine. Inside
// a Batch, invalidations are queued FIFO, deduplicated by listener ID, and
// flushed once when the outermost batch exits. Effects created with the
// Deferred option are instead parked on their Owner and run by
// RunPendingEffects, which the render runtime calls after patching.
// The strategy is fixed per effect at creation; the two are never mixed
// implicitly.
//
// Tracking state lives in a per-goroutine context with a save/restore
// discipline around every run, so nested computations track correctly and
// no two computations ever interleave within one goroutine.
package reactive
