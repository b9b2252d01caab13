package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(registry), WithNamespace("testns"))

	m.ObserveRender(5 * time.Millisecond)
	m.ObserveRender(5 * time.Millisecond)
	m.CountPatch("SetText")
	m.CountPatch("SetText")
	m.CountPatch("InsertNode")
	m.CountEffectRuns(3)
	m.CountEffectRuns(0)
	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()

	if got := testutil.ToFloat64(m.rendersTotal); got != 2 {
		t.Errorf("renders_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.patchesTotal.WithLabelValues("SetText")); got != 2 {
		t.Errorf("patches_total{op=SetText} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.patchesTotal.WithLabelValues("InsertNode")); got != 1 {
		t.Errorf("patches_total{op=InsertNode} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.effectRuns); got != 3 {
		t.Errorf("effect_runs_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRender(time.Millisecond)
	m.CountPatch("SetText")
	m.CountEffectRuns(1)
	m.CountPatchError()
	m.SessionStarted()
	m.SessionEnded()
}

func TestTracerSpans(t *testing.T) {
	tr := NewTracer(WithTracerName("test"))

	ctx, end := tr.StartRender(context.Background(), "cell-write")
	if ctx == nil {
		t.Fatal("expected context")
	}
	end(3, nil)

	_, endEvent := tr.StartEvent(context.Background(), "click")
	endEvent(nil)

	var nilTracer *Tracer
	_, end = nilTracer.StartRender(context.Background(), "x")
	end(0, nil)
}
