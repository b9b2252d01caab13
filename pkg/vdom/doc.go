// Package vdom implements Kalx's virtual tree: immutable VNode
// descriptions, the diff engine that turns two trees into an edit script,
// and the applier that executes the script against a live tree backend.
//
// A render pass always produces a brand-new VNode tree. Diff compares the
// previous and next tree at the same logical position and emits Patch
// operations; Apply performs exactly those operations through the Backend
// interface, never re-deriving them. The only mutable per-node state the
// package owns is the binding between a VNode and the live node that
// currently reflects it.
//
// The main performance invariant: attribute entries that are equal by
// value (or, for event handlers, by reference) never touch the backend.
package vdom
