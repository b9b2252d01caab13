package vdom

import (
	"log/slog"
	"sort"

	"github.com/Odeneho-Calculus/kalx-go/internal/errors"
)

// Build materializes a VNode subtree on the backend and binds every node
// in it to its live counterpart. It returns the root backend node.
func Build(b Backend, n *VNode) NodeRef {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindText:
		ref := b.CreateText(n.Text)
		bind(n, b, ref)
		return ref

	case KindFragment:
		ref := b.CreateFragment()
		bind(n, b, ref)
		for i, child := range n.Children {
			if childRef := Build(b, child); childRef != nil {
				b.InsertChild(ref, childRef, i)
			}
		}
		return ref

	case KindComponent:
		if n.Comp == nil {
			slog.Warn("component node has no instance, building empty fragment")
			ref := b.CreateFragment()
			bind(n, b, ref)
			return ref
		}
		// Components are normally expanded before diffing; building one
		// directly renders it in place.
		ref := Build(b, n.Comp.Render())
		bind(n, b, ref)
		return ref

	case KindElement:
		if n.Tag == "" {
			slog.Warn("element node has no tag, building empty fragment")
			ref := b.CreateFragment()
			bind(n, b, ref)
			return ref
		}

		ref := b.CreateElement(n.Tag)
		bind(n, b, ref)
		buildProps(b, ref, n)

		if _, hasHTML := n.Props["innerHTML"]; !hasHTML {
			for i, child := range n.Children {
				if childRef := Build(b, child); childRef != nil {
					b.InsertChild(ref, childRef, i)
				}
			}
		}
		return ref
	}

	return nil
}

// buildProps applies an element's full prop set to a fresh backend node.
// Keys apply in sorted order so backends see deterministic call sequences.
func buildProps(b Backend, ref NodeRef, n *VNode) {
	keys := make([]string, 0, len(n.Props))
	for key := range n.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := n.Props[key]
		switch {
		case key == "key":
			// Reconciliation-only, never reaches the backend.

		case key == "innerHTML":
			b.SetInnerHTML(ref, propToString(value))

		case key == "style":
			if m, ok := styleMap(value); ok {
				for _, prop := range sortedKeys(m) {
					b.SetStyleProp(ref, prop, m[prop])
				}
			} else {
				b.SetAttr(ref, "style", styleString(value))
			}

		case isEventHandler(key):
			b.AddListener(ref, eventName(key), value)

		case key == "value":
			b.SetValue(ref, propToString(value))
		case key == "checked":
			b.SetChecked(ref, truthy(value))
		case key == "selected":
			b.SetSelected(ref, truthy(value))

		default:
			b.SetAttr(ref, key, propToString(value))
		}
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != "" && val != "false"
	case nil:
		return false
	default:
		return true
	}
}

// Apply executes an edit script against the backend. Each patch performs
// exactly the operation Diff emitted; nothing is re-derived here.
//
// A patch whose target lost its live binding is degraded rather than
// fatal: the applier logs it, builds the node fresh and detached, and
// keeps going. The returned error reports how many targets degraded so
// callers can surface it, but the live tree is left as consistent as the
// script allows.
func Apply(b Backend, patches []Patch) error {
	degraded := 0

	for i := range patches {
		p := &patches[i]

		switch p.Op {
		case PatchSetText:
			b.SetText(resolve(b, p.Target, &degraded), p.Value)
		case PatchSetAttr:
			b.SetAttr(resolve(b, p.Target, &degraded), p.Key, p.Value)
		case PatchRemoveAttr:
			b.RemoveAttr(resolve(b, p.Target, &degraded), p.Key)
		case PatchSetStyleProp:
			b.SetStyleProp(resolve(b, p.Target, &degraded), p.Key, p.Value)
		case PatchRemoveStyleProp:
			b.RemoveStyleProp(resolve(b, p.Target, &degraded), p.Key)
		case PatchSetValue:
			b.SetValue(resolve(b, p.Target, &degraded), p.Value)
		case PatchSetChecked:
			b.SetChecked(resolve(b, p.Target, &degraded), p.Value == "true")
		case PatchSetSelected:
			b.SetSelected(resolve(b, p.Target, &degraded), p.Value == "true")
		case PatchSetInnerHTML:
			b.SetInnerHTML(resolve(b, p.Target, &degraded), p.Value)

		case PatchAddListener:
			b.AddListener(resolve(b, p.Target, &degraded), p.Key, p.Handler)
		case PatchRemoveListener:
			b.RemoveListener(resolve(b, p.Target, &degraded), p.Key)

		case PatchInsertNode:
			b.InsertChild(resolveParent(b, p.Parent, &degraded), Build(b, p.Node), p.Index)

		case PatchRemoveNode:
			b.RemoveChild(resolveParent(b, p.Parent, &degraded), resolve(b, p.Target, &degraded))
			if p.Target != nil {
				p.Target.live = nil
			}

		case PatchMoveNode:
			b.MoveChild(resolveParent(b, p.Parent, &degraded), resolve(b, p.Target, &degraded), p.Index)

		case PatchReplaceNode:
			b.ReplaceChild(resolveParent(b, p.Parent, &degraded), resolve(b, p.Target, &degraded), Build(b, p.Node))
			if p.Target != nil {
				p.Target.live = nil
			}

		case PatchReplaceChildren:
			refs := make([]NodeRef, 0, len(p.Nodes))
			for _, child := range p.Nodes {
				if ref := Build(b, child); ref != nil {
					refs = append(refs, ref)
				}
			}
			b.ReplaceChildren(resolve(b, p.Target, &degraded), refs)

		default:
			return errors.Newf(errors.CodePatchBadOp, "unknown patch op %d", p.Op)
		}
	}

	if degraded > 0 {
		return errors.Newf(errors.CodePatchTargetLost,
			"%d patch targets had no live binding", degraded)
	}
	return nil
}

// resolve returns the backend node bound to n, building a fresh detached
// node when the binding is missing. The fresh node keeps the script
// runnable without ever panicking over a lost target.
func resolve(b Backend, n *VNode, degraded *int) NodeRef {
	if n == nil {
		return nil
	}
	if n.live != nil {
		return n.live.ref
	}

	*degraded++
	slog.Warn("patch target has no live binding, building detached node",
		"kind", n.Kind.String(),
		"tag", n.Tag)
	return Build(b, n)
}

// resolveParent is resolve for parent context, where nil means the root.
func resolveParent(b Backend, n *VNode, degraded *int) NodeRef {
	if n == nil {
		return nil
	}
	return resolve(b, n, degraded)
}
