package vdom

import (
	"testing"
)

func countOps(patches []Patch, op PatchOp) int {
	n := 0
	for _, p := range patches {
		if p.Op == op {
			n++
		}
	}
	return n
}

func TestDiffIdenticalTrees(t *testing.T) {
	build := func() *VNode {
		return Div(ID("root"), Class("box"),
			Span(Text("hello")),
			P(Text("world")),
		)
	}

	patches := Diff(build(), build())
	if len(patches) != 0 {
		t.Errorf("expected no patches for identical trees, got %d: %v", len(patches), patches)
	}
}

func TestDiffSameValue(t *testing.T) {
	tree := Div(Span(Text("x")))
	if patches := Diff(tree, tree); len(patches) != 0 {
		t.Errorf("expected no patches for the same value, got %d", len(patches))
	}
}

func TestDiffTextUpdate(t *testing.T) {
	prev := Span(Text("count: 0"))
	next := Span(Text("count: 1"))

	patches := Diff(prev, next)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d: %v", len(patches), patches)
	}
	if patches[0].Op != PatchSetText {
		t.Errorf("expected SetText, got %s", patches[0].Op)
	}
	if patches[0].Value != "count: 1" {
		t.Errorf("expected value %q, got %q", "count: 1", patches[0].Value)
	}
	if patches[0].Target != prev.Children[0] {
		t.Errorf("SetText should target the text node, not the element")
	}
}

func TestDiffNilHandling(t *testing.T) {
	node := Div(Text("x"))

	patches := Diff(nil, node)
	if len(patches) != 1 || patches[0].Op != PatchInsertNode {
		t.Errorf("nil -> node should insert, got %v", patches)
	}

	patches = Diff(node, nil)
	if len(patches) != 1 || patches[0].Op != PatchRemoveNode {
		t.Errorf("node -> nil should remove, got %v", patches)
	}

	if patches := Diff(nil, nil); len(patches) != 0 {
		t.Errorf("nil -> nil should be empty, got %v", patches)
	}
}

func TestDiffKindMismatchReplaces(t *testing.T) {
	prev := Span(Text("x"))
	next := Text("x")

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Fatalf("kind mismatch should replace, got %v", patches)
	}
	if patches[0].Node != next {
		t.Errorf("replace should carry the new node")
	}
}

func TestDiffTagMismatchReplaces(t *testing.T) {
	patches := Diff(Div(), Span())
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Fatalf("tag mismatch should replace, got %v", patches)
	}
}

func TestDiffAttrChanges(t *testing.T) {
	prev := Div(ID("a"), Class("red"), Custom("title", "old"))
	next := Div(ID("a"), Class("red bold"), Custom("lang", "en"))

	patches := Diff(prev, next)

	var setClass, setLang, removeTitle bool
	for _, p := range patches {
		switch {
		case p.Op == PatchSetAttr && p.Key == "class":
			setClass = true
			if p.Value != "red bold" {
				t.Errorf("class should replace wholesale, got %q", p.Value)
			}
		case p.Op == PatchSetAttr && p.Key == "lang":
			setLang = true
		case p.Op == PatchRemoveAttr && p.Key == "title":
			removeTitle = true
		case p.Op == PatchSetAttr && p.Key == "id":
			t.Errorf("unchanged attr id must not emit a patch")
		}
	}
	if !setClass || !setLang || !removeTitle {
		t.Errorf("missing expected patches, got %v", patches)
	}
	if len(patches) != 3 {
		t.Errorf("expected exactly 3 patches, got %d: %v", len(patches), patches)
	}
}

func TestDiffEqualAttrsEmitNothing(t *testing.T) {
	prev := Div(ID("a"), Class("red"), Data("n", "1"))
	next := Div(ID("a"), Class("red"), Data("n", "1"))

	if patches := Diff(prev, next); len(patches) != 0 {
		t.Errorf("equal attrs must emit nothing, got %v", patches)
	}
}

func TestDiffStyleMapPerProp(t *testing.T) {
	prev := Div(Style(map[string]string{"color": "red", "width": "10px", "margin": "0"}))
	next := Div(Style(map[string]string{"color": "blue", "width": "10px", "padding": "2px"}))

	patches := Diff(prev, next)

	var setColor, setPadding, removeMargin bool
	for _, p := range patches {
		switch {
		case p.Op == PatchSetStyleProp && p.Key == "color" && p.Value == "blue":
			setColor = true
		case p.Op == PatchSetStyleProp && p.Key == "padding" && p.Value == "2px":
			setPadding = true
		case p.Op == PatchRemoveStyleProp && p.Key == "margin":
			removeMargin = true
		case p.Op == PatchSetStyleProp && p.Key == "width":
			t.Errorf("unchanged style prop width must not emit a patch")
		}
	}
	if !setColor || !setPadding || !removeMargin {
		t.Errorf("missing expected style patches, got %v", patches)
	}
}

func TestDiffStyleStringWholesale(t *testing.T) {
	prev := Div(StyleAttr("color: red"))
	next := Div(StyleAttr("color: blue"))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchSetAttr || patches[0].Key != "style" {
		t.Fatalf("string style should replace wholesale, got %v", patches)
	}
	if patches[0].Value != "color: blue" {
		t.Errorf("got %q", patches[0].Value)
	}
}

func TestDiffStyleRepresentationSwitch(t *testing.T) {
	prev := Div(Style(map[string]string{"color": "red"}))
	next := Div(StyleAttr("color: blue; width: 2px"))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchSetAttr || patches[0].Key != "style" {
		t.Fatalf("representation switch should replace wholesale, got %v", patches)
	}
}

func TestDiffInnerHTMLBypassesChildren(t *testing.T) {
	prev := Div(InnerHTML("<b>old</b>"))
	next := Div(InnerHTML("<b>new</b>"), Span(Text("ignored")))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchSetInnerHTML {
		t.Fatalf("expected single SetInnerHTML, got %v", patches)
	}
	if patches[0].Value != "<b>new</b>" {
		t.Errorf("got %q", patches[0].Value)
	}
}

func TestDiffInnerHTMLToChildren(t *testing.T) {
	prev := Div(InnerHTML("<b>raw</b>"))
	next := Div(Span(Text("structured")))

	patches := Diff(prev, next)

	var replaced bool
	for _, p := range patches {
		if p.Op == PatchReplaceChildren {
			replaced = true
			if len(p.Nodes) != 1 {
				t.Errorf("expected 1 replacement child, got %d", len(p.Nodes))
			}
		}
	}
	if !replaced {
		t.Errorf("dropping innerHTML should rebuild children in bulk, got %v", patches)
	}
}

func TestDiffDirectPropDefaults(t *testing.T) {
	prev := Input(Value("draft"), Checked(true))
	next := Input()

	patches := Diff(prev, next)

	var resetValue, resetChecked bool
	for _, p := range patches {
		switch p.Op {
		case PatchSetValue:
			resetValue = true
			if p.Value != "" {
				t.Errorf("removed value should reset to empty, got %q", p.Value)
			}
		case PatchSetChecked:
			resetChecked = true
			if p.Value != "false" {
				t.Errorf("removed checked should reset to false, got %q", p.Value)
			}
		}
	}
	if !resetValue || !resetChecked {
		t.Errorf("missing direct prop resets, got %v", patches)
	}
}

func TestDiffBooleanAttrRemoval(t *testing.T) {
	prev := Button(Disabled(true))
	next := Button()

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchRemoveAttr || patches[0].Key != "disabled" {
		t.Fatalf("removed boolean attr should emit RemoveAttr, got %v", patches)
	}
}

func TestDiffEventHandlerByReference(t *testing.T) {
	handler := func() {}
	other := func() {}

	prev := Button(OnClick(handler))
	same := Button(OnClick(handler))
	if patches := Diff(prev, same); len(patches) != 0 {
		t.Errorf("same handler reference must emit nothing, got %v", patches)
	}

	prev = Button(OnClick(handler))
	changed := Button(OnClick(other))
	patches := Diff(prev, changed)
	if countOps(patches, PatchRemoveListener) != 1 || countOps(patches, PatchAddListener) != 1 {
		t.Errorf("changed handler should remove then add, got %v", patches)
	}

	prev = Button(OnClick(handler))
	gone := Button()
	patches = Diff(prev, gone)
	if len(patches) != 1 || patches[0].Op != PatchRemoveListener || patches[0].Key != "click" {
		t.Errorf("removed handler should emit RemoveListener for click, got %v", patches)
	}
}

func TestDiffKeyedReorder(t *testing.T) {
	item := func(key, label string) *VNode {
		return Li(Key(key), Text(label))
	}

	prev := Ul(item("a", "A"), item("b", "B"), item("c", "C"))
	next := Ul(item("c", "C"), item("a", "A"), item("b", "B"))

	patches := Diff(prev, next)

	if n := countOps(patches, PatchReplaceNode); n != 0 {
		t.Errorf("keyed reorder must not replace nodes, got %d replaces", n)
	}
	if n := countOps(patches, PatchInsertNode); n != 0 {
		t.Errorf("keyed reorder must not insert, got %d inserts", n)
	}
	if n := countOps(patches, PatchRemoveNode); n != 0 {
		t.Errorf("keyed reorder must not remove, got %d removes", n)
	}
	if n := countOps(patches, PatchMoveNode); n == 0 {
		t.Errorf("expected move ops, got %v", patches)
	}
}

func TestDiffKeyedRemovalsFirst(t *testing.T) {
	item := func(key string) *VNode { return Li(Key(key), Text(key)) }

	prev := Ul(item("a"), item("b"), item("c"))
	next := Ul(item("c"), item("d"))

	patches := Diff(prev, next)

	if len(patches) == 0 {
		t.Fatal("expected patches")
	}
	if patches[0].Op != PatchRemoveNode {
		t.Errorf("removals must come first, got %s", patches[0].Op)
	}

	removes := countOps(patches, PatchRemoveNode)
	inserts := countOps(patches, PatchInsertNode)
	if removes != 2 {
		t.Errorf("expected 2 removes (a, b), got %d", removes)
	}
	if inserts != 1 {
		t.Errorf("expected 1 insert (d), got %d", inserts)
	}

	sawInsert := false
	for _, p := range patches {
		if p.Op == PatchInsertNode {
			sawInsert = true
		}
		if p.Op == PatchRemoveNode && sawInsert {
			t.Errorf("remove after insert in %v", patches)
		}
	}
}

func TestDiffKeyedInPlaceUpdate(t *testing.T) {
	prev := Ul(
		Li(Key("a"), Text("one")),
		Li(Key("b"), Text("two")),
	)
	next := Ul(
		Li(Key("a"), Text("one")),
		Li(Key("b"), Text("two!")),
	)

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchSetText {
		t.Fatalf("keyed content change should diff in place, got %v", patches)
	}
	if patches[0].Value != "two!" {
		t.Errorf("got %q", patches[0].Value)
	}
}

func TestDiffPositionalAppendRemove(t *testing.T) {
	prev := Div(Span(Text("a")))
	next := Div(Span(Text("a")), Span(Text("b")))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchInsertNode || patches[0].Index != 1 {
		t.Fatalf("appended child should insert at 1, got %v", patches)
	}

	patches = Diff(next, prev)
	if len(patches) != 1 || patches[0].Op != PatchRemoveNode {
		t.Fatalf("trailing child should remove, got %v", patches)
	}
}

func TestDiffPositionalBulkReplace(t *testing.T) {
	prev := Div(Span(Text("a")), Span(Text("b")))
	next := Div(P(Text("a")), P(Text("b")))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchReplaceChildren {
		t.Fatalf("shape change should bulk replace children, got %v", patches)
	}
	if len(patches[0].Nodes) != 2 {
		t.Errorf("expected 2 replacement children, got %d", len(patches[0].Nodes))
	}
}

func TestDiffMalformedNodeDegrades(t *testing.T) {
	prev := Span(Text("ok"))
	next := &VNode{Kind: KindElement} // element without a tag

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Errorf("malformed node should degrade to replace, got %v", patches)
	}

	bad := &VNode{Kind: VKind(42)}
	patches = Diff(Span(), bad)
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Errorf("unknown kind should degrade to replace, got %v", patches)
	}
}

func TestDiffComponentIdentity(t *testing.T) {
	c1 := Func(func() *VNode { return Div() })
	c2 := Func(func() *VNode { return Div() })

	prev := Div(Comp(c1))
	same := Div(Comp(c1))
	if patches := Diff(prev, same); len(patches) != 0 {
		t.Errorf("same component instance should emit nothing, got %v", patches)
	}

	prev = Div(Comp(c1))
	swapped := Div(Comp(c2))
	patches := Diff(prev, swapped)
	if countOps(patches, PatchReplaceNode) != 1 {
		t.Errorf("different component instance should replace, got %v", patches)
	}
}

func TestDiffFragmentChildren(t *testing.T) {
	prev := Fragment(Span(Text("a")), Span(Text("b")))
	next := Fragment(Span(Text("a")), Span(Text("c")))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchSetText || patches[0].Value != "c" {
		t.Fatalf("fragment children should diff in place, got %v", patches)
	}
}

func TestDiffClassNameNormalizes(t *testing.T) {
	prev := Div(Custom("className", "red"))
	next := Div(Class("red"))

	if patches := Diff(prev, next); len(patches) != 0 {
		t.Errorf("className and class should be the same prop, got %v", patches)
	}
}

func TestDiffNumericPropCoercion(t *testing.T) {
	prev := Div(Custom("tabindex", 1))
	next := Div(Custom("tabindex", 2))

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchSetAttr || patches[0].Value != "2" {
		t.Fatalf("numeric prop should coerce to string form, got %v", patches)
	}
}
