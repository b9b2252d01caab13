package vdom

import "testing"

func TestConditionalHelpers(t *testing.T) {
	node := Span(Text("x"))

	if If(true, node) != node {
		t.Error("If(true) should return the node")
	}
	if If(false, node) != nil {
		t.Error("If(false) should return nil")
	}
	if IfElse(true, node, nil) != node {
		t.Error("IfElse(true) should return the first node")
	}
	if IfElse(false, node, nil) != nil {
		t.Error("IfElse(false) should return the second node")
	}

	called := 0
	if When(false, func() *VNode { called++; return node }) != nil {
		t.Error("When(false) should return nil")
	}
	if called != 0 {
		t.Error("When(false) must not call fn")
	}
	if When(true, func() *VNode { called++; return node }) != node {
		t.Error("When(true) should return fn's node")
	}
	if called != 1 {
		t.Errorf("When(true) should call fn once, got %d", called)
	}
}

func TestConditionalChildrenAreSkipped(t *testing.T) {
	tree := Div(
		If(false, Span(Text("hidden"))),
		If(true, Span(Text("shown"))),
	)

	if len(tree.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(tree.Children))
	}
	if got := tree.Children[0].Children[0].Text; got != "shown" {
		t.Errorf("child text = %q", got)
	}
}

func TestRangeAndKeyed(t *testing.T) {
	items := []string{"a", "b", "c"}
	nodes := Range(items, func(item string, i int) *VNode {
		if item == "b" {
			return nil
		}
		return Keyed(item, Li(Text(item)))
	})

	if len(nodes) != 2 {
		t.Fatalf("nodes = %d, want 2 (nil entries skipped)", len(nodes))
	}
	if nodes[0].Key != "a" || nodes[1].Key != "c" {
		t.Errorf("keys = %q, %q", nodes[0].Key, nodes[1].Key)
	}
}
