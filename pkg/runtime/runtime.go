// Package runtime drives the Kalx render loop. Mount wraps a render
// function in a reactive effect: the first run builds the live tree, and
// every later run diffs the new tree against the previous one and applies
// exactly the resulting edit script. Deferred effects scheduled during a
// pass run after its patches are applied, so they observe the updated
// live tree.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Odeneho-Calculus/kalx-go/pkg/reactive"
	"github.com/Odeneho-Calculus/kalx-go/pkg/telemetry"
	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

// Instance is one mounted component tree.
type Instance struct {
	backend vdom.Backend
	render  func() *vdom.VNode
	owner   *reactive.Owner
	effect  *reactive.Effect

	ctx     context.Context
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer

	mu      sync.Mutex
	tree    *vdom.VNode
	renders uint64
	lastErr error
}

// Option configures a mounted instance.
type Option func(*Instance)

// WithMetrics sets the metrics recorder. Defaults to telemetry.Default().
func WithMetrics(m *telemetry.Metrics) Option {
	return func(inst *Instance) {
		inst.metrics = m
	}
}

// WithTracer sets the tracer for render-cycle spans.
func WithTracer(t *telemetry.Tracer) Option {
	return func(inst *Instance) {
		inst.tracer = t
	}
}

// WithContext sets the base context used for tracing spans.
func WithContext(ctx context.Context) Option {
	return func(inst *Instance) {
		inst.ctx = ctx
	}
}

// Mount runs render inside a tracked effect, builds the initial live tree
// on the backend, and keeps the live tree converged with the render
// output as reactive state changes. Dispose the instance to stop.
func Mount(backend vdom.Backend, render func() *vdom.VNode, opts ...Option) *Instance {
	inst := &Instance{
		backend: backend,
		render:  render,
		ctx:     context.Background(),
		metrics: telemetry.Default(),
		owner:   reactive.NewOwner(nil),
	}
	for _, opt := range opts {
		opt(inst)
	}

	reactive.WithOwner(inst.owner, func() {
		inst.effect = reactive.NewEffect(func() reactive.Cleanup {
			inst.renderPass()
			return nil
		})
	})

	return inst
}

// renderPass is the tracked body of the mount effect. Reads inside render
// subscribe it; any later write to those cells re-runs it.
func (inst *Instance) renderPass() {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	start := time.Now()
	_, end := inst.tracer.StartRender(inst.ctx, "reactive")

	next := inst.render()

	var patchCount int
	var err error

	if inst.tree == nil {
		if ref := vdom.Build(inst.backend, next); ref != nil {
			inst.backend.InsertChild(nil, ref, 0)
		}
	} else {
		patches := vdom.Diff(inst.tree, next)
		patchCount = len(patches)
		err = applyCounted(inst.backend, patches, inst.metrics)
	}

	inst.tree = next
	inst.renders++
	inst.lastErr = err

	if err != nil {
		inst.metrics.CountPatchError()
		slog.Error("patch application degraded", "error", err)
	}

	// Deferred effects observe the patched tree, never a half-updated one.
	drained := inst.owner.RunPendingEffects()

	inst.metrics.CountEffectRuns(1 + drained)
	inst.metrics.ObserveRender(time.Since(start))
	end(patchCount, err)
}

// applyCounted applies a script and records per-op metrics.
func applyCounted(backend vdom.Backend, patches []vdom.Patch, m *telemetry.Metrics) error {
	for i := range patches {
		m.CountPatch(patches[i].Op.String())
	}
	return vdom.Apply(backend, patches)
}

// DiffAndPatch converges a live tree from prev to next outside a mounted
// instance. Sessions that render on their own schedule use this directly.
func DiffAndPatch(backend vdom.Backend, prev, next *vdom.VNode) error {
	patches := vdom.Diff(prev, next)
	return applyCounted(backend, patches, telemetry.Default())
}

// Tree returns the most recently rendered virtual tree.
func (inst *Instance) Tree() *vdom.VNode {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.tree
}

// Renders returns how many render passes have run.
func (inst *Instance) Renders() uint64 {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.renders
}

// Err returns the error from the most recent render pass, usually a
// degradation report from the applier.
func (inst *Instance) Err() error {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.lastErr
}

// Owner returns the instance's reactive owner, the scope deferred effects
// and cleanups register under.
func (inst *Instance) Owner() *reactive.Owner {
	return inst.owner
}

// Flush runs any deferred effects parked on the instance's owner. The
// render loop flushes after every pass; call this after out-of-band cell
// writes when deferred effects must observe the result now rather than at
// the next pass.
func (inst *Instance) Flush() {
	inst.metrics.CountEffectRuns(inst.owner.RunPendingEffects())
}

// Dispose stops the render loop, runs owner cleanups, and detaches all
// subscriptions. The live tree is left as-is; tearing down backend nodes
// is the embedder's call.
func (inst *Instance) Dispose() {
	inst.owner.Dispose()
}
