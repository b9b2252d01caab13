package reactive

import (
	"testing"
)

func TestEffectCleanupBeforeRerun(t *testing.T) {
	c := NewCell(1)

	var order []string
	NewEffect(func() Cleanup {
		c.Get()
		order = append(order, "run")
		return func() {
			order = append(order, "cleanup")
		}
	})

	c.Set(2)
	c.Set(3)

	want := []string{"run", "cleanup", "run", "cleanup", "run"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestEffectDispose(t *testing.T) {
	c := NewCell(1)

	runs := 0
	cleanups := 0
	e := NewEffect(func() Cleanup {
		runs++
		c.Get()
		return func() { cleanups++ }
	})

	e.Dispose()
	if cleanups != 1 {
		t.Errorf("dispose must run the final cleanup, got %d", cleanups)
	}

	c.Set(2)
	if runs != 1 {
		t.Errorf("disposed effect must not re-run, got %d runs", runs)
	}

	e.Dispose()
	if cleanups != 1 {
		t.Errorf("double dispose must be idempotent, got %d cleanups", cleanups)
	}
}

func TestEffectSelfTriggerIsDropped(t *testing.T) {
	c := NewCell(0)

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		if runs > 10 {
			t.Fatal("runaway self-trigger")
		}
		// Writing a cell the effect also reads must not recurse.
		c.Set(c.Get() + 1)
		return nil
	})

	if runs != 1 {
		t.Errorf("self-trigger must be dropped, got %d runs", runs)
	}

	// An outside write still works.
	c.Set(100)
	if runs != 2 {
		t.Errorf("outside write should re-run, got %d runs", runs)
	}
}

func TestEffectCleanupIsUntracked(t *testing.T) {
	tracked := NewCell(1)
	other := NewCell(10)

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		tracked.Get()
		return func() {
			// A read here must not become a dependency.
			other.Get()
		}
	})

	tracked.Set(2) // runs cleanup, which reads other
	if runs != 2 {
		t.Fatalf("setup failed, got %d runs", runs)
	}

	other.Set(20)
	if runs != 2 {
		t.Errorf("cleanup reads must not subscribe, got %d runs", runs)
	}
}

func TestDeferredEffectParksOnOwner(t *testing.T) {
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

	if runs != 1 {
		t.Fatalf("deferred effect still runs immediately on creation, got %d", runs)
	}

	c.Set(2)
	if runs != 1 {
		t.Fatalf("deferred invalidation must not run synchronously, got %d runs", runs)
	}
	if !owner.HasPendingEffects() {
		t.Fatal("invalidation should park on the owner")
	}

	owner.RunPendingEffects()
	if runs != 2 {
		t.Errorf("drain should run the effect, got %d runs", runs)
	}
	if owner.HasPendingEffects() {
		t.Error("queue should be empty after drain")
	}
}

func TestDeferredEffectCoalesces(t *testing.T) {
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
	c.Set(3)
	c.Set(4)

	owner.RunPendingEffects()
	if runs != 2 {
		t.Errorf("multiple invalidations coalesce into one deferred run, got %d", runs)
	}
}

func TestOnMountRunsOnce(t *testing.T) {
	c := NewCell(1)

	mounts := 0
	OnMount(func() {
		mounts++
		c.Get()
	})

	c.Set(2)
	if mounts != 1 {
		t.Errorf("OnMount body must not track dependencies, got %d runs", mounts)
	}
}

func TestOnUnmountRunsAtDispose(t *testing.T) {
	owner := NewOwner(nil)

	unmounts := 0
	WithOwner(owner, func() {
		OnUnmount(func() { unmounts++ })
	})

	if unmounts != 0 {
		t.Fatal("unmount ran early")
	}
	owner.Dispose()
	if unmounts != 1 {
		t.Errorf("expected 1 unmount, got %d", unmounts)
	}
}

func TestWithListenerRestoresSlot(t *testing.T) {
	c := NewCell(1)

	inner := &countingListener{id: nextID(), fn: func() {}}

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		WithListener(inner, func() {
			// Reads here belong to inner, not the outer effect.
			c.Get()
		})
		return nil
	})

	c.Set(2)
	if runs != 1 {
		t.Errorf("outer effect must not inherit inner reads, got %d runs", runs)
	}
}
