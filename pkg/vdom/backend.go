package vdom

// NodeRef is an opaque handle to a live node owned by a Backend. The diff
// and apply layers never inspect it.
type NodeRef any

// Backend is the live tree a patch script executes against. Implementations
// include the in-process HTML backend (pkg/render) and the remote wire
// backend (pkg/live). Methods are called in script order; the applier never
// re-derives operations, so a backend sees exactly the edits Diff emitted.
type Backend interface {
	CreateElement(tag string) NodeRef
	CreateText(text string) NodeRef
	CreateFragment() NodeRef

	SetText(node NodeRef, text string)
	SetAttr(node NodeRef, key, value string)
	RemoveAttr(node NodeRef, key string)
	SetStyleProp(node NodeRef, prop, value string)
	RemoveStyleProp(node NodeRef, prop string)
	SetValue(node NodeRef, value string)
	SetChecked(node NodeRef, checked bool)
	SetSelected(node NodeRef, selected bool)
	SetInnerHTML(node NodeRef, html string)

	AddListener(node NodeRef, event string, handler any)
	RemoveListener(node NodeRef, event string)

	InsertChild(parent, child NodeRef, index int)
	RemoveChild(parent, child NodeRef)
	MoveChild(parent, child NodeRef, index int)
	ReplaceChild(parent, old, new NodeRef)
	ReplaceChildren(parent NodeRef, children []NodeRef)
}

// LiveNode binds a VNode to the backend node currently reflecting it.
// Diff transfers the binding from the previous tree to the next, so the
// freshly produced tree stays addressable without rebuilding anything.
type LiveNode struct {
	vnode   *VNode
	ref     NodeRef
	backend Backend
}

// Ref returns the backend node this binding points at.
func (l *LiveNode) Ref() NodeRef {
	return l.ref
}

// VNode returns the tree node currently bound to this live node.
func (l *LiveNode) VNode() *VNode {
	return l.vnode
}

// Live returns the node's live binding, or nil when the node has never
// been built.
func (n *VNode) Live() *LiveNode {
	return n.live
}

// bind attaches a fresh binding to n.
func bind(n *VNode, b Backend, ref NodeRef) *LiveNode {
	ln := &LiveNode{vnode: n, ref: ref, backend: b}
	n.live = ln
	return ln
}
