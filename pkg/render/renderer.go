package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"

	"github.com/Odeneho-Calculus/kalx-go/internal/errors"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed output with indentation. Development
	// only; it increases output size.
	Pretty bool

	// Indent is the string used per indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string
}

// Renderer serializes VNode trees to HTML in one shot. For a live tree
// that patches mutate over time, use Backend instead.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0)
}

func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindComponent:
		if node.Comp == nil {
			return errors.New(errors.CodeRenderFailed, "component node has no instance")
		}
		return r.renderNode(w, node.Comp.Render(), depth)
	default:
		return errors.Newf(errors.CodeRenderFailed, "unknown node kind %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	if node.Tag == "" {
		return errors.New(errors.CodeDiffMalformedNode, "element node has no tag")
	}

	if r.config.Pretty && depth > 0 {
		if _, err := io.WriteString(w, "\n"+strings.Repeat(r.config.Indent, depth)); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "<"+node.Tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}

	if vdom.IsVoidElement(node.Tag) {
		_, err := io.WriteString(w, ">")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if raw, ok := node.Props["innerHTML"]; ok {
		// Raw content: the caller owns escaping.
		if _, err := io.WriteString(w, propString(raw)); err != nil {
			return err
		}
	} else {
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}
	}

	if _, err := io.WriteString(w, "</"+node.Tag+">"); err != nil {
		return err
	}
	return nil
}

// renderAttributes writes the element's attributes in sorted order so
// output is deterministic. Event handlers, the reconciliation key, and
// innerHTML never serialize.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		if key == "key" || key == "innerHTML" || isEventKey(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		if key == "style" {
			if _, err := fmt.Fprintf(w, ` style="%s"`, escapeAttr(styleString(value))); err != nil {
				return err
			}
			continue
		}

		// Boolean attrs render bare when true and vanish when false.
		if bv, ok := value.(bool); ok {
			if bv {
				if _, err := io.WriteString(w, " "+key); err != nil {
					return err
				}
			}
			continue
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(propString(value))); err != nil {
			return err
		}
	}
	return nil
}

func isEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// propString converts a prop value to its attribute string form.
func propString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// styleString serializes a style value, sorting map keys for stable
// output.
func styleString(v any) string {
	var m map[string]string
	switch sv := v.(type) {
	case string:
		return sv
	case map[string]string:
		m = sv
	case map[string]any:
		m = make(map[string]string, len(sv))
		for k, val := range sv {
			m[k] = propString(val)
		}
	default:
		return propString(v)
	}

	props := make([]string, 0, len(m))
	for k := range m {
		props = append(props, k)
	}
	sort.Strings(props)

	var b strings.Builder
	for i, prop := range props {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(m[prop])
	}
	return b.String()
}
