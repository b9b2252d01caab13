package reactive

import (
	"testing"
)

func TestOwnerDisposesEffects(t *testing.T) {
	owner := NewOwner(nil)
	c := NewCell(1)

	runs := 0
	WithOwner(owner, func() {
		NewEffect(func() Cleanup {
			runs++
			c.Get()
			return nil
		})
	})

	owner.Dispose()
	c.Set(2)

	if runs != 1 {
		t.Errorf("owned effect must die with its owner, got %d runs", runs)
	}
	if !owner.IsDisposed() {
		t.Error("owner should report disposed")
	}
}

func TestOwnerCleanupOrder(t *testing.T) {
	owner := NewOwner(nil)

	var order []string
	owner.OnCleanup(func() { order = append(order, "first") })
	owner.OnCleanup(func() { order = append(order, "second") })

	owner.Dispose()

	// Reverse registration order, teardown mirrors setup.
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("cleanup order = %v", order)
	}
}

func TestOwnerCleanupAfterDisposeRunsImmediately(t *testing.T) {
	owner := NewOwner(nil)
	owner.Dispose()

	ran := false
	owner.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered on a disposed owner must run immediately")
	}
}

func TestOwnerChildDisposal(t *testing.T) {
	parent := NewOwner(nil)
	child := NewOwner(parent)

	var order []string
	parent.OnCleanup(func() { order = append(order, "parent") })
	child.OnCleanup(func() { order = append(order, "child") })

	parent.Dispose()

	if !child.IsDisposed() {
		t.Fatal("child must be disposed with the parent")
	}
	// Children go down before the parent's own cleanups.
	if len(order) != 2 || order[0] != "child" || order[1] != "parent" {
		t.Errorf("disposal order = %v", order)
	}
}

func TestOwnerDisposeIdempotent(t *testing.T) {
	owner := NewOwner(nil)

	cleanups := 0
	owner.OnCleanup(func() { cleanups++ })

	owner.Dispose()
	owner.Dispose()

	if cleanups != 1 {
		t.Errorf("double dispose must be idempotent, got %d cleanups", cleanups)
	}
}

func TestOwnerPendingEffectsDropOnDispose(t *testing.T) {
	owner := NewOwner(nil)
	c := NewCell(1)

	runs := 0
	WithOwner(owner, func() {
		NewEffect(func() Cleanup {
			runs++
			c.Get()
			return nil
		}, Deferred())
	})

	c.Set(2)
	if !owner.HasPendingEffects() {
		t.Fatal("expected a parked effect")
	}

	owner.Dispose()
	owner.RunPendingEffects()

	if runs != 1 {
		t.Errorf("parked effects must not run after dispose, got %d runs", runs)
	}
}

func TestOwnerRunsNestedPendingEffects(t *testing.T) {
	parent := NewOwner(nil)
	child := NewOwner(parent)
	c := NewCell(1)

	runs := 0
	WithOwner(child, func() {
		NewEffect(func() Cleanup {
			runs++
			c.Get()
			return nil
		}, Deferred())
	})

	c.Set(2)
	parent.RunPendingEffects()

	if runs != 2 {
		t.Errorf("parent drain should reach child queues, got %d runs", runs)
	}
}
