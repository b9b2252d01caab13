// Package live serves Kalx instances over WebSocket. The server renders
// on the server side; the browser runs a thin applier that executes wire
// ops against the real DOM and forwards events back. Each session owns
// one mounted instance, one wire backend, and one connection.
package live

import (
	"sync"

	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

// WireOp is one backend operation in client-executable form. Node IDs are
// session-scoped; 0 addresses the mount root.
type WireOp struct {
	Op     string   `json:"op"`
	Node   uint64   `json:"node,omitempty"`
	Parent uint64   `json:"parent,omitempty"`
	Tag    string   `json:"tag,omitempty"`
	Key    string   `json:"key,omitempty"`
	Value  string   `json:"value,omitempty"`
	Flag   bool     `json:"flag,omitempty"`
	Index  int      `json:"index"`
	Nodes  []uint64 `json:"nodes,omitempty"`
}

// wireNode is the server-side stub of a client DOM node.
type wireNode struct {
	id        uint64
	listeners map[string]any
}

// WireBackend implements vdom.Backend by recording ops for the client
// applier. Event handlers never cross the wire; they stay on the server
// keyed by node ID and event name, and the client only learns which
// events to forward.
type WireBackend struct {
	mu     sync.Mutex
	nextID uint64
	ops    []WireOp
	nodes  map[uint64]*wireNode
}

// NewWireBackend creates an empty wire backend.
func NewWireBackend() *WireBackend {
	return &WireBackend{
		nodes: make(map[uint64]*wireNode),
	}
}

// Flush returns the ops recorded since the last flush and clears the
// buffer. The session sends one frame per flush.
func (b *WireBackend) Flush() []WireOp {
	b.mu.Lock()
	defer b.mu.Unlock()

	ops := b.ops
	b.ops = nil
	return ops
}

// HandlerFor returns the handler registered for an event on a node, or
// nil. Called by the session's event dispatch.
func (b *WireBackend) HandlerFor(nodeID uint64, event string) any {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n, ok := b.nodes[nodeID]; ok {
		return n.listeners[event]
	}
	return nil
}

func (b *WireBackend) newNode() *wireNode {
	b.nextID++
	n := &wireNode{
		id:        b.nextID,
		listeners: make(map[string]any),
	}
	b.nodes[n.id] = n
	return n
}

func (b *WireBackend) record(op WireOp) {
	b.ops = append(b.ops, op)
}

func nodeID(ref vdom.NodeRef) uint64 {
	if n, ok := ref.(*wireNode); ok && n != nil {
		return n.id
	}
	return 0
}

func (b *WireBackend) CreateElement(tag string) vdom.NodeRef {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.newNode()
	b.record(WireOp{Op: "createElement", Node: n.id, Tag: tag})
	return n
}

func (b *WireBackend) CreateText(text string) vdom.NodeRef {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.newNode()
	b.record(WireOp{Op: "createText", Node: n.id, Value: text})
	return n
}

func (b *WireBackend) CreateFragment() vdom.NodeRef {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.newNode()
	b.record(WireOp{Op: "createFragment", Node: n.id})
	return n
}

func (b *WireBackend) SetText(node vdom.NodeRef, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "setText", Node: nodeID(node), Value: text})
}

func (b *WireBackend) SetAttr(node vdom.NodeRef, key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "setAttr", Node: nodeID(node), Key: key, Value: value})
}

func (b *WireBackend) RemoveAttr(node vdom.NodeRef, key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "removeAttr", Node: nodeID(node), Key: key})
}

func (b *WireBackend) SetStyleProp(node vdom.NodeRef, prop, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "setStyle", Node: nodeID(node), Key: prop, Value: value})
}

func (b *WireBackend) RemoveStyleProp(node vdom.NodeRef, prop string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "removeStyle", Node: nodeID(node), Key: prop})
}

func (b *WireBackend) SetValue(node vdom.NodeRef, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "setValue", Node: nodeID(node), Value: value})
}

func (b *WireBackend) SetChecked(node vdom.NodeRef, checked bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "setChecked", Node: nodeID(node), Flag: checked})
}

func (b *WireBackend) SetSelected(node vdom.NodeRef, selected bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "setSelected", Node: nodeID(node), Flag: selected})
}

func (b *WireBackend) SetInnerHTML(node vdom.NodeRef, html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "setHTML", Node: nodeID(node), Value: html})
}

func (b *WireBackend) AddListener(node vdom.NodeRef, event string, handler any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n, ok := node.(*wireNode); ok && n != nil {
		n.listeners[event] = handler
	}
	b.record(WireOp{Op: "listen", Node: nodeID(node), Key: event})
}

func (b *WireBackend) RemoveListener(node vdom.NodeRef, event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n, ok := node.(*wireNode); ok && n != nil {
		delete(n.listeners, event)
	}
	b.record(WireOp{Op: "unlisten", Node: nodeID(node), Key: event})
}

func (b *WireBackend) InsertChild(parent, child vdom.NodeRef, index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "insert", Parent: nodeID(parent), Node: nodeID(child), Index: index})
}

func (b *WireBackend) RemoveChild(parent, child vdom.NodeRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := nodeID(child)
	delete(b.nodes, id)
	b.record(WireOp{Op: "remove", Parent: nodeID(parent), Node: id})
}

func (b *WireBackend) MoveChild(parent, child vdom.NodeRef, index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(WireOp{Op: "move", Parent: nodeID(parent), Node: nodeID(child), Index: index})
}

func (b *WireBackend) ReplaceChild(parent, old, new vdom.NodeRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	oldID := nodeID(old)
	delete(b.nodes, oldID)
	b.record(WireOp{Op: "replace", Parent: nodeID(parent), Node: oldID, Nodes: []uint64{nodeID(new)}})
}

func (b *WireBackend) ReplaceChildren(parent vdom.NodeRef, children []vdom.NodeRef) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]uint64, 0, len(children))
	for _, child := range children {
		ids = append(ids, nodeID(child))
	}
	b.record(WireOp{Op: "replaceChildren", Node: nodeID(parent), Nodes: ids})
}
