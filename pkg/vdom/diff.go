package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Diff compares two virtual trees at the same logical position and returns
// the edit script that transforms prev into next. Diffing the same produced
// value yields an empty script.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, nil, 0, &patches)
	return patches
}

// diff recursively compares nodes and appends patches. parent and index
// locate next within the previous tree's structure for insertions.
func diff(prev, next *VNode, parent *VNode, index int, patches *[]Patch) {
	// Identity shortcut: the very same produced value needs no edits.
	if prev == next {
		return
	}

	if prev == nil && next == nil {
		return
	}

	// Node added.
	if prev == nil {
		*patches = append(*patches, Patch{
			Op:     PatchInsertNode,
			Parent: parent,
			Index:  index,
			Node:   next,
		})
		return
	}

	// Node removed.
	if next == nil {
		*patches = append(*patches, Patch{
			Op:     PatchRemoveNode,
			Target: prev,
			Parent: parent,
		})
		return
	}

	// Malformed input degrades to a wholesale replace; a broken subtree
	// must never crash the patch pass.
	if malformed(prev) || malformed(next) {
		*patches = append(*patches, Patch{
			Op:     PatchReplaceNode,
			Target: prev,
			Parent: parent,
			Node:   next,
		})
		return
	}

	// Different kinds always replace.
	if prev.Kind != next.Kind {
		*patches = append(*patches, Patch{
			Op:     PatchReplaceNode,
			Target: prev,
			Parent: parent,
			Node:   next,
		})
		return
	}

	switch prev.Kind {
	case KindText:
		diffText(prev, next, patches)
	case KindElement:
		diffElement(prev, next, parent, patches)
	case KindFragment:
		transferBinding(prev, next)
		diffChildren(prev, next, patches)
	case KindComponent:
		diffComponent(prev, next, parent, patches)
	}
}

// malformed reports whether a node is structurally unusable: an element
// without a tag, or an out-of-range kind.
func malformed(n *VNode) bool {
	if n.Kind > KindComponent {
		return true
	}
	return n.Kind == KindElement && n.Tag == ""
}

// diffText compares text content only. Text-vs-text never replaces the
// node itself.
func diffText(prev, next *VNode, patches *[]Patch) {
	transferBinding(prev, next)

	if prev.Text != next.Text {
		*patches = append(*patches, Patch{
			Op:     PatchSetText,
			Target: prev,
			Value:  next.Text,
		})
	}
}

// diffElement compares element nodes of the same kind.
func diffElement(prev, next *VNode, parent *VNode, patches *[]Patch) {
	// Different tag replaces the whole subtree.
	if prev.Tag != next.Tag {
		*patches = append(*patches, Patch{
			Op:     PatchReplaceNode,
			Target: prev,
			Parent: parent,
			Node:   next,
		})
		return
	}

	transferBinding(prev, next)

	diffProps(prev, next, patches)
	diffStyle(prev, next, patches)

	// innerHTML bypasses children diffing entirely.
	prevHTML, prevHas := prev.Props["innerHTML"]
	nextHTML, nextHas := next.Props["innerHTML"]
	switch {
	case nextHas:
		if !prevHas || !propsEqual(prevHTML, nextHTML) {
			*patches = append(*patches, Patch{
				Op:     PatchSetInnerHTML,
				Target: prev,
				Value:  propToString(nextHTML),
			})
		}
	case prevHas:
		// Raw content gives way to regular children: rebuild in bulk.
		*patches = append(*patches, Patch{
			Op:     PatchReplaceChildren,
			Target: prev,
			Nodes:  next.Children,
		})
	default:
		diffChildren(prev, next, patches)
	}
}

// diffComponent compares component instances by identity. Expansion of a
// component into elements is the runtime's job; at this level a different
// instance at the same position is a different subtree.
func diffComponent(prev, next *VNode, parent *VNode, patches *[]Patch) {
	if componentEqual(prev.Comp, next.Comp) {
		transferBinding(prev, next)
		return
	}
	*patches = append(*patches, Patch{
		Op:     PatchReplaceNode,
		Target: prev,
		Parent: parent,
		Node:   next,
	})
}

func componentEqual(a, b Component) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Kind() == reflect.Pointer && vb.Kind() == reflect.Pointer {
		return va.Pointer() == vb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

// directProps are reflected as properties on the live node, not plain
// attributes, and get dedicated ops with explicit empty/false resets.
var directProps = map[string]PatchOp{
	"value":    PatchSetValue,
	"checked":  PatchSetChecked,
	"selected": PatchSetSelected,
}

// directPropDefault is the reset value when a direct prop disappears.
var directPropDefault = map[string]string{
	"value":    "",
	"checked":  "false",
	"selected": "false",
}

// diffProps compares attribute maps. Keys with reserved meanings (key,
// style, innerHTML) are handled elsewhere; event handler keys compare by
// reference and route to listener ops. Equal entries emit nothing.
func diffProps(prev, next *VNode, patches *[]Patch) {
	// Removed or changed entries.
	for key, prevVal := range prev.Props {
		if isReservedProp(key) {
			continue
		}

		nextVal, exists := next.Props[key]

		if isEventHandler(key) {
			event := eventName(key)
			if !exists {
				*patches = append(*patches, Patch{
					Op:     PatchRemoveListener,
					Target: prev,
					Key:    event,
				})
			} else if !handlerEqual(prevVal, nextVal) {
				*patches = append(*patches,
					Patch{Op: PatchRemoveListener, Target: prev, Key: event},
					Patch{Op: PatchAddListener, Target: prev, Key: event, Handler: nextVal},
				)
			}
			continue
		}

		if !exists {
			if op, ok := directProps[key]; ok {
				*patches = append(*patches, Patch{
					Op:     op,
					Target: prev,
					Value:  directPropDefault[key],
				})
			} else {
				// Boolean attrs reset to false by removal; everything
				// else is a plain attribute removal.
				*patches = append(*patches, Patch{
					Op:     PatchRemoveAttr,
					Target: prev,
					Key:    key,
				})
			}
			continue
		}

		if !propsEqual(prevVal, nextVal) {
			*patches = append(*patches, setPropPatch(prev, key, nextVal))
		}
	}

	// Added entries.
	for key, nextVal := range next.Props {
		if isReservedProp(key) {
			continue
		}
		if _, exists := prev.Props[key]; exists {
			continue
		}

		if isEventHandler(key) {
			*patches = append(*patches, Patch{
				Op:      PatchAddListener,
				Target:  prev,
				Key:     eventName(key),
				Handler: nextVal,
			})
			continue
		}

		*patches = append(*patches, setPropPatch(prev, key, nextVal))
	}
}

func setPropPatch(target *VNode, key string, value any) Patch {
	if op, ok := directProps[key]; ok {
		return Patch{Op: op, Target: target, Value: propToString(value)}
	}
	return Patch{Op: PatchSetAttr, Target: target, Key: key, Value: propToString(value)}
}

// isReservedProp reports keys the attribute loop must not treat as plain
// attributes.
func isReservedProp(key string) bool {
	return key == "key" || key == "style" || key == "innerHTML"
}

// diffStyle handles the style prop. A map diffs per sub-property; a string
// replaces wholesale; switching representations replaces wholesale.
func diffStyle(prev, next *VNode, patches *[]Patch) {
	prevVal, prevHas := prev.Props["style"]
	nextVal, nextHas := next.Props["style"]

	switch {
	case !prevHas && !nextHas:
		return

	case !nextHas:
		*patches = append(*patches, Patch{
			Op:     PatchRemoveAttr,
			Target: prev,
			Key:    "style",
		})

	case !prevHas:
		if m, ok := styleMap(nextVal); ok {
			for _, prop := range sortedKeys(m) {
				*patches = append(*patches, Patch{
					Op:     PatchSetStyleProp,
					Target: prev,
					Key:    prop,
					Value:  m[prop],
				})
			}
		} else {
			*patches = append(*patches, Patch{
				Op:     PatchSetAttr,
				Target: prev,
				Key:    "style",
				Value:  styleString(nextVal),
			})
		}

	default:
		prevMap, prevIsMap := styleMap(prevVal)
		nextMap, nextIsMap := styleMap(nextVal)

		if prevIsMap && nextIsMap {
			for _, prop := range sortedKeys(prevMap) {
				if _, ok := nextMap[prop]; !ok {
					*patches = append(*patches, Patch{
						Op:     PatchRemoveStyleProp,
						Target: prev,
						Key:    prop,
					})
				}
			}
			for _, prop := range sortedKeys(nextMap) {
				if prevMap[prop] != nextMap[prop] {
					*patches = append(*patches, Patch{
						Op:     PatchSetStyleProp,
						Target: prev,
						Key:    prop,
						Value:  nextMap[prop],
					})
				}
			}
			return
		}

		// String form, or a representation switch: wholesale replace.
		if !propsEqual(prevVal, nextVal) {
			*patches = append(*patches, Patch{
				Op:     PatchSetAttr,
				Target: prev,
				Key:    "style",
				Value:  styleString(nextVal),
			})
		}
	}
}

// styleMap normalizes map-form style values.
func styleMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = propToString(val)
		}
		return out, true
	default:
		return nil, false
	}
}

// styleString serializes a style value for wholesale replacement.
// Maps serialize with sorted keys so output is deterministic.
func styleString(v any) string {
	if m, ok := styleMap(v); ok {
		var b strings.Builder
		for i, prop := range sortedKeys(m) {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(prop)
			b.WriteString(": ")
			b.WriteString(m[prop])
		}
		return b.String()
	}
	return propToString(v)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// diffChildren dispatches between keyed and positional reconciliation.
// Any keyed child on either side selects keyed mode.
func diffChildren(prev, next *VNode, patches *[]Patch) {
	if hasKeys(prev.Children) || hasKeys(next.Children) {
		diffKeyedChildren(prev, next, patches)
	} else {
		diffPositionalChildren(prev, next, patches)
	}
}

// diffPositionalChildren compares children pairwise by index. When aligned
// children disagree on kind or tag the whole child list is replaced in
// bulk; that is a performance fallback for "structure changed
// substantially", not a correctness requirement.
func diffPositionalChildren(prev, next *VNode, patches *[]Patch) {
	prevChildren := prev.Children
	nextChildren := next.Children

	minLen := len(prevChildren)
	if len(nextChildren) < minLen {
		minLen = len(nextChildren)
	}

	for i := 0; i < minLen; i++ {
		if childShapeDiffers(prevChildren[i], nextChildren[i]) {
			*patches = append(*patches, Patch{
				Op:     PatchReplaceChildren,
				Target: prev,
				Nodes:  nextChildren,
			})
			return
		}
	}

	maxLen := len(prevChildren)
	if len(nextChildren) > maxLen {
		maxLen = len(nextChildren)
	}

	for i := 0; i < maxLen; i++ {
		var prevChild, nextChild *VNode
		if i < len(prevChildren) {
			prevChild = prevChildren[i]
		}
		if i < len(nextChildren) {
			nextChild = nextChildren[i]
		}
		diff(prevChild, nextChild, prev, i, patches)
	}
}

// childShapeDiffers reports whether two aligned children disagree on kind
// or element tag.
func childShapeDiffers(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return true
	}
	return a.Kind == KindElement && a.Tag != b.Tag
}

// diffKeyedChildren reconciles child lists by stable key. Children present
// only in the old list are removed first; children present in both are
// diffed in place and moved only when they are out of position. Ops are
// emitted against a simulated copy of the live child list, so applying
// them in script order (each move is a remove plus an insert at the target
// index) converges exactly on the new order. Greedy, one pass over the new
// list; not LCS-minimal, and that trade-off is intentional.
func diffKeyedChildren(prev, next *VNode, patches *[]Patch) {
	prevChildren := prev.Children
	nextChildren := next.Children

	prevByKey := make(map[string]*VNode, len(prevChildren))
	prevKeys := mapset.NewThreadUnsafeSet[string]()
	for _, child := range prevChildren {
		if key := getKey(child); key != "" {
			prevByKey[key] = child
			prevKeys.Add(key)
		}
	}

	nextKeys := mapset.NewThreadUnsafeSet[string]()
	for _, child := range nextChildren {
		if key := getKey(child); key != "" {
			nextKeys.Add(key)
		}
	}

	// Keys gone from the new list, and unkeyed strays in a keyed list,
	// are removed first so later indices refer to the compacted list.
	removed := prevKeys.Difference(nextKeys)
	sim := make([]*VNode, 0, len(prevChildren))
	for _, child := range prevChildren {
		key := getKey(child)
		if key == "" || removed.Contains(key) {
			*patches = append(*patches, Patch{
				Op:     PatchRemoveNode,
				Target: child,
				Parent: prev,
			})
			continue
		}
		sim = append(sim, child)
	}

	for nextIdx, nextChild := range nextChildren {
		key := getKey(nextChild)

		// Unkeyed nodes in a keyed list, and new keys, insert fresh.
		prevChild := prevByKey[key]
		if key == "" || prevChild == nil {
			*patches = append(*patches, Patch{
				Op:     PatchInsertNode,
				Parent: prev,
				Index:  nextIdx,
				Node:   nextChild,
			})
			sim = insertAt(sim, nextChild, nextIdx)
			continue
		}

		// Positions before nextIdx are already final, so the reused child
		// can only sit at nextIdx or later in the simulation.
		if pos := indexOf(sim, prevChild, nextIdx); pos != nextIdx {
			*patches = append(*patches, Patch{
				Op:     PatchMoveNode,
				Target: prevChild,
				Parent: prev,
				Index:  nextIdx,
			})
			sim = append(sim[:pos], sim[pos+1:]...)
			sim = insertAt(sim, prevChild, nextIdx)
		}

		diff(prevChild, nextChild, prev, nextIdx, patches)
	}
}

func insertAt(list []*VNode, n *VNode, index int) []*VNode {
	if index >= len(list) {
		return append(list, n)
	}
	list = append(list, nil)
	copy(list[index+1:], list[index:])
	list[index] = n
	return list
}

func indexOf(list []*VNode, n *VNode, from int) int {
	for i := from; i < len(list); i++ {
		if list[i] == n {
			return i
		}
	}
	return from
}

// getKey extracts the reconciliation key from a node.
func getKey(node *VNode) string {
	if node == nil {
		return ""
	}
	if node.Key != "" {
		return node.Key
	}
	if node.Props == nil {
		return ""
	}
	if key, ok := node.Props["key"].(string); ok {
		return key
	}
	return ""
}

// hasKeys reports whether any child carries a key.
func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if getKey(child) != "" {
			return true
		}
	}
	return false
}

// transferBinding moves the live binding from the node being replaced in
// the logical tree to the node that now reflects the same live target.
func transferBinding(prev, next *VNode) {
	if prev.live == nil {
		return
	}
	next.live = prev.live
	prev.live.vnode = next
}

// isEventHandler reports whether the key names an event handler.
// Case-insensitive on the prefix so onClick and onclick both count.
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// eventName returns the lower-cased event name for a handler key,
// e.g. "onClick" -> "click". Handler registries key by this form.
func eventName(key string) string {
	return strings.ToLower(key[2:])
}

// handlerEqual compares event handlers by reference. For funcs this is the
// code pointer: handlers should read reactive state rather than rely on
// captured snapshots.
func handlerEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	return propsEqual(a, b)
}

// propsEqual compares two prop values with fast paths for common types.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to its attribute string form.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
