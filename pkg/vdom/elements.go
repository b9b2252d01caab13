package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// propAliases map alternate prop spellings to their canonical form before
// anything reaches the diff engine.
var propAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

// createElement creates a VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, EventHandler, *VNode, []*VNode,
// Component, string.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			setAttr(node, v)
		case []Attr:
			for _, attr := range v {
				setAttr(node, attr)
			}
		case EventHandler:
			if v.Event != "" {
				node.Props[v.Event] = v.Handler
			}
		default:
			appendChildren(node, []any{arg})
		}
	}

	return node
}

// setAttr records one attribute on the node. The key attribute is lifted
// onto VNode.Key; aliases normalize to canonical names.
func setAttr(node *VNode, attr Attr) {
	if attr.IsEmpty() {
		return
	}

	key := attr.Key
	if canonical, ok := propAliases[key]; ok {
		key = canonical
	}

	if key == "key" {
		if s, ok := attr.Value.(string); ok {
			node.Key = s
		}
		return
	}

	node.Props[key] = attr.Value
}

// El creates an element with an arbitrary tag.
func El(tag string, args ...any) *VNode {
	return createElement(tag, args)
}

func Div(args ...any) *VNode      { return createElement("div", args) }
func Span(args ...any) *VNode     { return createElement("span", args) }
func P(args ...any) *VNode        { return createElement("p", args) }
func A(args ...any) *VNode        { return createElement("a", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Form(args ...any) *VNode     { return createElement("form", args) }
func Ul(args ...any) *VNode       { return createElement("ul", args) }
func Ol(args ...any) *VNode       { return createElement("ol", args) }
func Li(args ...any) *VNode       { return createElement("li", args) }
func Table(args ...any) *VNode    { return createElement("table", args) }
func Thead(args ...any) *VNode    { return createElement("thead", args) }
func Tbody(args ...any) *VNode    { return createElement("tbody", args) }
func Tr(args ...any) *VNode       { return createElement("tr", args) }
func Th(args ...any) *VNode       { return createElement("th", args) }
func Td(args ...any) *VNode       { return createElement("td", args) }
func H1(args ...any) *VNode       { return createElement("h1", args) }
func H2(args ...any) *VNode       { return createElement("h2", args) }
func H3(args ...any) *VNode       { return createElement("h3", args) }
func H4(args ...any) *VNode       { return createElement("h4", args) }
func Header(args ...any) *VNode   { return createElement("header", args) }
func Footer(args ...any) *VNode   { return createElement("footer", args) }
func Main(args ...any) *VNode     { return createElement("main", args) }
func Nav(args ...any) *VNode      { return createElement("nav", args) }
func Section(args ...any) *VNode  { return createElement("section", args) }
func Article(args ...any) *VNode  { return createElement("article", args) }
func Img(args ...any) *VNode      { return createElement("img", args) }
func Br(args ...any) *VNode       { return createElement("br", args) }
func Hr(args ...any) *VNode       { return createElement("hr", args) }
func Pre(args ...any) *VNode      { return createElement("pre", args) }
func Code(args ...any) *VNode     { return createElement("code", args) }
func Strong(args ...any) *VNode   { return createElement("strong", args) }
func Em(args ...any) *VNode       { return createElement("em", args) }
