package reactive

import (
	"testing"
)

func TestCellGetSet(t *testing.T) {
	c := NewCell(42)
	if got := c.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}

	c.Set(7)
	if got := c.Get(); got != 7 {
		t.Errorf("Get() = %d, want 7", got)
	}
}

func TestCellEffectTracksReads(t *testing.T) {
	c := NewCell(1)

	runs := 0
	var seen []int
	NewEffect(func() Cleanup {
		runs++
		seen = append(seen, c.Get())
		return nil
	})

	if runs != 1 {
		t.Fatalf("effect should run once on creation, ran %d times", runs)
	}

	c.Set(2)
	c.Set(3)

	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
	if seen[1] != 2 || seen[2] != 3 {
		t.Errorf("effect saw %v", seen)
	}
}

func TestCellEqualWriteIsNoOp(t *testing.T) {
	c := NewCell("hello")

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		c.Get()
		return nil
	})

	c.Set("hello")
	if runs != 1 {
		t.Errorf("equal write must not notify, got %d runs", runs)
	}

	c.Set("world")
	if runs != 2 {
		t.Errorf("unequal write must notify, got %d runs", runs)
	}
}

func TestCellDeepEqualFallback(t *testing.T) {
	c := NewCell([]int{1, 2, 3})

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		c.Get()
		return nil
	})

	c.Set([]int{1, 2, 3})
	if runs != 1 {
		t.Errorf("deep-equal slice write must not notify, got %d runs", runs)
	}

	c.Set([]int{1, 2})
	if runs != 2 {
		t.Errorf("changed slice must notify, got %d runs", runs)
	}
}

func TestCellWithEquals(t *testing.T) {
	// Compare only the integer part.
	c := NewCell(1.2).WithEquals(func(a, b float64) bool {
		return int(a) == int(b)
	})

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		c.Get()
		return nil
	})

	c.Set(1.9)
	if runs != 1 {
		t.Errorf("custom-equal write must not notify, got %d runs", runs)
	}

	c.Set(2.0)
	if runs != 2 {
		t.Errorf("custom-unequal write must notify, got %d runs", runs)
	}
}

func TestCellPeekDoesNotSubscribe(t *testing.T) {
	tracked := NewCell(1)
	peeked := NewCell(10)

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		tracked.Get()
		peeked.Peek()
		return nil
	})

	peeked.Set(20)
	if runs != 1 {
		t.Errorf("Peek must not subscribe, got %d runs", runs)
	}

	tracked.Set(2)
	if runs != 2 {
		t.Errorf("Get must subscribe, got %d runs", runs)
	}
}

func TestCellUpdate(t *testing.T) {
	c := NewCell(10)

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		c.Get()
		return nil
	})

	c.Update(func(v int) int { return v + 5 })
	if got := c.Peek(); got != 15 {
		t.Errorf("Update result = %d, want 15", got)
	}
	if runs != 2 {
		t.Errorf("Update must notify, got %d runs", runs)
	}

	c.Update(func(v int) int { return v })
	if runs != 2 {
		t.Errorf("identity Update must not notify, got %d runs", runs)
	}
}

func TestUntrackedRead(t *testing.T) {
	c := NewCell(1)

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		Untracked(func() {
			c.Get()
		})
		return nil
	})

	c.Set(2)
	if runs != 1 {
		t.Errorf("untracked read must not subscribe, got %d runs", runs)
	}
}

func TestDynamicDependencySwitch(t *testing.T) {
	useFirst := NewCell(true)
	first := NewCell("a")
	second := NewCell("b")

	runs := 0
	NewEffect(func() Cleanup {
		runs++
		if useFirst.Get() {
			first.Get()
		} else {
			second.Get()
		}
		return nil
	})

	// While the first branch is active, the second cell is not a source.
	second.Set("bb")
	if runs != 1 {
		t.Fatalf("write to unread cell must not re-run, got %d runs", runs)
	}

	useFirst.Set(false)
	if runs != 2 {
		t.Fatalf("branch switch should re-run, got %d runs", runs)
	}

	// After re-tracking, the roles are swapped.
	first.Set("aa")
	if runs != 2 {
		t.Errorf("stale source must be dropped by cleanup-before-run, got %d runs", runs)
	}
	second.Set("bbb")
	if runs != 3 {
		t.Errorf("new source must trigger, got %d runs", runs)
	}
}

func TestReadOutsideTrackingIsPlain(t *testing.T) {
	c := NewCell(5)
	// No listener active: read must work and subscribe nothing.
	if got := c.Get(); got != 5 {
		t.Errorf("Get() = %d", got)
	}
	c.Set(6)
}
