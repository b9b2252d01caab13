// Package kalx provides the public API for the Kalx reactive UI framework.
//
// This is the recommended import for most applications:
//
//	import "github.com/Odeneho-Calculus/kalx-go"
//
// Usage:
//
//	count := kalx.NewCell(0)
//	doubled := kalx.NewMemo(func() int { return count.Get() * 2 })
//	kalx.NewEffect(func() kalx.Cleanup {
//	    fmt.Println("count is now", count.Get())
//	    return nil
//	})
//
// Element constructors, attributes, and event helpers live in pkg/vdom and
// are usually dot-imported per the examples; the live server lives in
// pkg/live.
package kalx

import (
	"github.com/Odeneho-Calculus/kalx-go/pkg/live"
	"github.com/Odeneho-Calculus/kalx-go/pkg/reactive"
	"github.com/Odeneho-Calculus/kalx-go/pkg/runtime"
	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

// NewCell creates a writable reactive value.
//
// Example:
//
//	count := kalx.NewCell(0)
//	count.Set(1)
//	value := count.Get() // 1
func NewCell[T any](initial T) *Cell[T] {
	return reactive.NewCell(initial)
}

// NewMemo creates a cached derivation that tracks whatever it reads.
//
// Example:
//
//	doubled := kalx.NewMemo(func() int {
//	    return count.Get() * 2
//	})
func NewMemo[T any](compute func() T) *Memo[T] {
	return reactive.NewMemo(compute)
}

// NewEffect registers a side effect that re-runs when its dependencies
// change. The returned cleanup, if any, runs before each re-run and at
// dispose.
var NewEffect = reactive.NewEffect

// Batch groups multiple cell writes into a single notification pass.
var Batch = reactive.Batch

// Untracked runs fn without subscribing to anything it reads.
var Untracked = reactive.Untracked

// NewOwner creates a disposal scope; WithOwner runs fn with it current.
var (
	NewOwner  = reactive.NewOwner
	WithOwner = reactive.WithOwner
)

// OnMount and OnUnmount register lifecycle hooks on the current owner.
var (
	OnMount   = reactive.OnMount
	OnUnmount = reactive.OnUnmount
)

// Deferred makes an effect park on its owner instead of running
// synchronously; parked effects drain after the next patch application.
var Deferred = reactive.Deferred

type Cell[T any] = reactive.Cell[T]
type Memo[T any] = reactive.Memo[T]
type Effect = reactive.Effect
type EffectOption = reactive.EffectOption
type Cleanup = reactive.Cleanup
type Owner = reactive.Owner
type Handle = reactive.Handle

// NewHandle creates a map whose properties are tracked individually.
var NewHandle = reactive.NewHandle

// =============================================================================
// Virtual tree (re-export from pkg/vdom)
// =============================================================================

// VNode is a node of the immutable virtual tree.
type VNode = vdom.VNode

// VKind is the node type discriminator.
type VKind = vdom.VKind

const (
	KindElement   = vdom.KindElement
	KindText      = vdom.KindText
	KindFragment  = vdom.KindFragment
	KindComponent = vdom.KindComponent
)

// Component is anything that can render to a VNode.
type Component = vdom.Component

// Func wraps a render function as a Component.
var Func = vdom.Func

// Backend is the tree host that Build and Apply drive.
type Backend = vdom.Backend

// NodeRef identifies a backend node.
type NodeRef = vdom.NodeRef

// Patch is one step of an edit script produced by Diff.
type Patch = vdom.Patch

// Diff computes the edit script turning prev into next.
var Diff = vdom.Diff

// Build materializes a virtual tree on a backend and binds it.
var Build = vdom.Build

// Apply executes an edit script against a backend.
var Apply = vdom.Apply

// =============================================================================
// Runtime (re-export from pkg/runtime)
// =============================================================================

// Mount ties a render function to a backend: the first run builds the tree,
// later runs diff and patch it in place.
var Mount = runtime.Mount

// DiffAndPatch is the one-shot form: diff two trees and apply the result.
var DiffAndPatch = runtime.DiffAndPatch

// Instance is a mounted application.
type Instance = runtime.Instance

// =============================================================================
// Live server (re-export from pkg/live)
// =============================================================================

// App builds a per-session render function.
type App = live.App

// NewServer serves an App over the live websocket protocol.
var NewServer = live.NewServer
