package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
// Class compares wholesale in the diff: any change replaces the full list.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassIf joins the classes whose condition holds.
func ClassIf(pairs ...ClassPair) Attr {
	var active []string
	for _, p := range pairs {
		if p.When {
			active = append(active, p.Name)
		}
	}
	return attr("class", strings.Join(active, " "))
}

// ClassPair is one conditional class for ClassIf.
type ClassPair struct {
	Name string
	When bool
}

// StyleAttr sets the style attribute as a raw string. String styles
// replace wholesale on change.
func StyleAttr(style string) Attr { return attr("style", style) }

// Style sets the style attribute as a property map. Map styles diff per
// sub-property.
func Style(props map[string]string) Attr { return attr("style", props) }

// Key sets the reconciliation key. It never reaches the backend.
func Key(key string) Attr { return attr("key", key) }

// InnerHTML sets raw inner content. The diff engine skips children of a
// node carrying innerHTML; the caller owns escaping.
func InnerHTML(html string) Attr { return attr("innerHTML", html) }

// Value sets the value direct prop on form controls.
func Value(value string) Attr { return attr("value", value) }

// Checked sets the checked direct prop.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Selected sets the selected direct prop.
func Selected(selected bool) Attr { return attr("selected", selected) }

// Disabled sets the disabled boolean attribute.
func Disabled(disabled bool) Attr {
	if !disabled {
		return Attr{}
	}
	return attr("disabled", true)
}

// Hidden sets the hidden boolean attribute.
func Hidden(hidden bool) Attr {
	if !hidden {
		return Attr{}
	}
	return attr("hidden", true)
}

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Href sets the href attribute.
func Href(href string) Attr { return attr("href", href) }

// Src sets the src attribute.
func Src(src string) Attr { return attr("src", src) }

// Alt sets the alt attribute.
func Alt(alt string) Attr { return attr("alt", alt) }

// Title sets the title attribute.
func Title(title string) Attr { return attr("title", title) }

// For sets the for attribute on labels.
func For(id string) Attr { return attr("for", id) }

// Data creates a data-* attribute.
// Example: Data("id", "123") renders data-id="123".
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// Custom sets an arbitrary attribute.
func Custom(key string, value any) Attr { return attr(key, value) }
