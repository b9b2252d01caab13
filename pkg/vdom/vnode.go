package vdom

// VKind is the node type discriminator. It is a closed set so diffing
// logic can match exhaustively.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component instance
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is one node of the virtual tree. Values are immutable once
// produced; a render pass never mutates the previous tree in place.
// The absent ("null") node is a nil *VNode.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes and event handlers
	Children []*VNode  // Child nodes
	Key      string    // Reconciliation key
	Text     string    // For KindText
	Comp     Component // For KindComponent

	// live is the binding to the live node currently reflecting this
	// VNode. Diff transfers it from the previous tree to the next; it is
	// the only mutable per-node state this package owns.
	live *LiveNode
}

// Props holds attributes and event handlers. Ordering is irrelevant.
// The keys "key", "style", "innerHTML" and "on*" have reserved meanings
// in the diff engine.
type Props map[string]any

// Attr is a single attribute for the element constructors.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty reports whether this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler pairs an event name with its handler for the element
// constructors.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any
}

// Component is anything that can render to a VNode. Component instances
// in the tree are compared by identity: a different instance at the same
// position replaces the subtree.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
