package render

import (
	"sort"
	"strings"

	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

// Backend is the in-process live tree. It implements vdom.Backend with
// real parent/child structure so a patch script mutates it exactly the
// way the same script would mutate a browser DOM, and it can serialize
// the result to HTML at any point.
//
// A Backend is driven by one render loop at a time; it does not lock.
type Backend struct {
	roots []*Node
}

// NewBackend creates an empty live tree.
func NewBackend() *Backend {
	return &Backend{}
}

// Node is one live node of the tree.
type Node struct {
	tag       string
	text      string
	fragment  bool
	attrs     map[string]string
	styles    map[string]string
	listeners map[string]any
	html      string
	hasHTML   bool
	value     string
	hasValue  bool
	checked   bool
	selected  bool
	children  []*Node
}

func newNode(tag string) *Node {
	return &Node{
		tag:       tag,
		attrs:     make(map[string]string),
		styles:    make(map[string]string),
		listeners: make(map[string]any),
	}
}

// Roots returns the top-level live nodes.
func (b *Backend) Roots() []*Node {
	return b.roots
}

// Root returns the first top-level node, or nil when nothing is mounted.
func (b *Backend) Root() *Node {
	if len(b.roots) == 0 {
		return nil
	}
	return b.roots[0]
}

// HTML serializes the whole live tree.
func (b *Backend) HTML() string {
	var sb strings.Builder
	for _, root := range b.roots {
		root.writeHTML(&sb)
	}
	return sb.String()
}

// Handler returns the handler registered for event on this node, or nil.
func (n *Node) Handler(event string) any {
	return n.listeners[event]
}

// Tag returns the element tag, empty for text and fragment nodes.
func (n *Node) Tag() string { return n.tag }

// Text returns the text content of a text node.
func (n *Node) Text() string { return n.text }

// Attr returns an attribute value.
func (n *Node) Attr(key string) string { return n.attrs[key] }

// Children returns the node's children.
func (n *Node) Children() []*Node { return n.children }

// Find walks the subtree and returns the first element with the given
// tag, or nil. Intended for tests and event lookup, not hot paths.
func (n *Node) Find(tag string) *Node {
	if n.tag == tag {
		return n
	}
	for _, child := range n.children {
		if found := child.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// HTML serializes the subtree rooted at n.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n.fragment {
		for _, child := range n.children {
			child.writeHTML(sb)
		}
		return
	}

	if n.tag == "" {
		sb.WriteString(escapeHTML(n.text))
		return
	}

	sb.WriteString("<")
	sb.WriteString(n.tag)
	n.writeAttrs(sb)

	if vdom.IsVoidElement(n.tag) {
		sb.WriteString(">")
		return
	}
	sb.WriteString(">")

	if n.hasHTML {
		sb.WriteString(n.html)
	} else {
		for _, child := range n.children {
			child.writeHTML(sb)
		}
	}

	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteString(">")
}

func (n *Node) writeAttrs(sb *strings.Builder) {
	keys := make([]string, 0, len(n.attrs))
	for key := range n.attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(" ")
		sb.WriteString(key)
		value := n.attrs[key]
		if value == "true" && isBareAttr(key) {
			continue
		}
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(value))
		sb.WriteString(`"`)
	}

	if len(n.styles) > 0 {
		props := make([]string, 0, len(n.styles))
		for prop := range n.styles {
			props = append(props, prop)
		}
		sort.Strings(props)

		sb.WriteString(` style="`)
		for i, prop := range props {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(prop)
			sb.WriteString(": ")
			sb.WriteString(escapeAttr(n.styles[prop]))
		}
		sb.WriteString(`"`)
	}

	if n.hasValue {
		sb.WriteString(` value="`)
		sb.WriteString(escapeAttr(n.value))
		sb.WriteString(`"`)
	}
	if n.checked {
		sb.WriteString(" checked")
	}
	if n.selected {
		sb.WriteString(" selected")
	}
}

// isBareAttr reports attributes that render without a value when set.
func isBareAttr(key string) bool {
	switch key {
	case "disabled", "hidden", "required", "readonly", "multiple",
		"autofocus", "open", "muted", "controls", "loop":
		return true
	}
	return false
}

// vdom.Backend implementation.

func (b *Backend) CreateElement(tag string) vdom.NodeRef {
	return newNode(tag)
}

func (b *Backend) CreateText(text string) vdom.NodeRef {
	n := newNode("")
	n.text = text
	return n
}

func (b *Backend) CreateFragment() vdom.NodeRef {
	n := newNode("")
	n.fragment = true
	return n
}

func (b *Backend) SetText(node vdom.NodeRef, text string) {
	if n, ok := node.(*Node); ok {
		n.text = text
	}
}

func (b *Backend) SetAttr(node vdom.NodeRef, key, value string) {
	if n, ok := node.(*Node); ok {
		if key == "style" {
			// A wholesale style string supersedes per-prop state.
			n.styles = make(map[string]string)
		}
		n.attrs[key] = value
	}
}

func (b *Backend) RemoveAttr(node vdom.NodeRef, key string) {
	if n, ok := node.(*Node); ok {
		delete(n.attrs, key)
		if key == "style" {
			n.styles = make(map[string]string)
		}
	}
}

func (b *Backend) SetStyleProp(node vdom.NodeRef, prop, value string) {
	if n, ok := node.(*Node); ok {
		delete(n.attrs, "style")
		n.styles[prop] = value
	}
}

func (b *Backend) RemoveStyleProp(node vdom.NodeRef, prop string) {
	if n, ok := node.(*Node); ok {
		delete(n.styles, prop)
	}
}

func (b *Backend) SetValue(node vdom.NodeRef, value string) {
	if n, ok := node.(*Node); ok {
		n.value = value
		n.hasValue = true
	}
}

func (b *Backend) SetChecked(node vdom.NodeRef, checked bool) {
	if n, ok := node.(*Node); ok {
		n.checked = checked
	}
}

func (b *Backend) SetSelected(node vdom.NodeRef, selected bool) {
	if n, ok := node.(*Node); ok {
		n.selected = selected
	}
}

func (b *Backend) SetInnerHTML(node vdom.NodeRef, html string) {
	if n, ok := node.(*Node); ok {
		n.html = html
		n.hasHTML = true
		n.children = nil
	}
}

func (b *Backend) AddListener(node vdom.NodeRef, event string, handler any) {
	if n, ok := node.(*Node); ok {
		n.listeners[event] = handler
	}
}

func (b *Backend) RemoveListener(node vdom.NodeRef, event string) {
	if n, ok := node.(*Node); ok {
		delete(n.listeners, event)
	}
}

// clearInnerHTML drops raw content once a parent gains real children, so
// serialization reflects the children instead of stale markup.
func clearInnerHTML(parent vdom.NodeRef) {
	if p, ok := parent.(*Node); ok && p != nil {
		p.hasHTML = false
		p.html = ""
	}
}

func (b *Backend) childList(parent vdom.NodeRef) *[]*Node {
	if p, ok := parent.(*Node); ok && p != nil {
		return &p.children
	}
	return &b.roots
}

func (b *Backend) InsertChild(parent, child vdom.NodeRef, index int) {
	c, ok := child.(*Node)
	if !ok || c == nil {
		return
	}
	clearInnerHTML(parent)
	list := b.childList(parent)
	if index < 0 || index >= len(*list) {
		*list = append(*list, c)
		return
	}
	*list = append(*list, nil)
	copy((*list)[index+1:], (*list)[index:])
	(*list)[index] = c
}

func (b *Backend) RemoveChild(parent, child vdom.NodeRef) {
	c, ok := child.(*Node)
	if !ok || c == nil {
		return
	}
	list := b.childList(parent)
	for i, n := range *list {
		if n == c {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func (b *Backend) MoveChild(parent, child vdom.NodeRef, index int) {
	b.RemoveChild(parent, child)
	b.InsertChild(parent, child, index)
}

func (b *Backend) ReplaceChild(parent, old, new vdom.NodeRef) {
	n, ok := new.(*Node)
	if !ok || n == nil {
		b.RemoveChild(parent, old)
		return
	}
	clearInnerHTML(parent)
	o, _ := old.(*Node)
	list := b.childList(parent)
	for i, existing := range *list {
		if existing == o {
			(*list)[i] = n
			return
		}
	}
	*list = append(*list, n)
}

func (b *Backend) ReplaceChildren(parent vdom.NodeRef, children []vdom.NodeRef) {
	clearInnerHTML(parent)
	list := b.childList(parent)
	*list = (*list)[:0]
	for _, child := range children {
		if c, ok := child.(*Node); ok && c != nil {
			*list = append(*list, c)
		}
	}
}
