package reactive

import "sync"

// Handle wraps a plain record with property-level reactivity. Each
// accessed key lazily materializes one cell, so reads during a tracked run
// subscribe per property and writes invalidate only that property's
// dependents. This is the accessor-layer replacement for proxy-style
// object tracking.
type Handle struct {
	mu    sync.Mutex
	cells map[string]*Cell[any]
}

// NewHandle wraps initial as a reactive record. The map is copied;
// subsequent access goes through the handle only.
func NewHandle(initial map[string]any) *Handle {
	h := &Handle{
		cells: make(map[string]*Cell[any], len(initial)),
	}
	for key, value := range initial {
		h.cells[key] = NewCell(value)
	}
	return h
}

// cell returns the cell for key, materializing it on first access.
func (h *Handle) cell(key string) *Cell[any] {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.cells[key]
	if !ok {
		c = NewCell[any](nil)
		h.cells[key] = c
	}
	return c
}

// Get reads a property, subscribing the current listener to it.
// Missing properties read as nil (and still subscribe, so a later Set is
// observed).
func (h *Handle) Get(key string) any {
	return h.cell(key).Get()
}

// Peek reads a property without subscribing.
func (h *Handle) Peek(key string) any {
	return h.cell(key).Peek()
}

// Set writes a property, invalidating its dependents if the value changed.
func (h *Handle) Set(key string, value any) {
	h.cell(key).Set(value)
}

// Has reports whether the property has ever been set or seeded.
// Does not subscribe.
func (h *Handle) Has(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.cells[key]
	return ok
}

// Keys returns the materialized property keys. Does not subscribe.
func (h *Handle) Keys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys := make([]string, 0, len(h.cells))
	for key := range h.cells {
		keys = append(keys, key)
	}
	return keys
}

// Snapshot returns a plain copy of the current record without subscribing.
func (h *Handle) Snapshot() map[string]any {
	h.mu.Lock()
	cells := make(map[string]*Cell[any], len(h.cells))
	for key, c := range h.cells {
		cells[key] = c
	}
	h.mu.Unlock()

	out := make(map[string]any, len(cells))
	for key, c := range cells {
		out[key] = c.Peek()
	}
	return out
}
