package memdom

import (
	"strings"

	"github.com/vango-dev/elemkit/dom"
)

type attr struct {
	name  string
	value string
}

// Element is an element node.
type Element struct {
	base
	tag       string
	attrs     []attr
	style     []attr
	props     map[string]any
	children  []dom.Node
	listeners []*listener
}

var _ dom.Element = (*Element)(nil)

// NodeType implements dom.Node.
func (e *Element) NodeType() dom.NodeType { return dom.ElementNode }

// TagName implements dom.Element.
func (e *Element) TagName() string { return e.tag }

// Remove implements dom.Node.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.removeChild(e)
	}
}

// AppendChild implements dom.Element. Appending a Fragment appends the
// nodes it owns.
func (e *Element) AppendChild(n dom.Node) {
	switch c := n.(type) {
	case *Element:
		for p := e; p != nil; p = p.parent {
			if p == c {
				panic("memdom: cannot append an element to its own subtree")
			}
		}
		c.Remove()
		c.parent = e
	case *Text:
		c.Remove()
		c.parent = e
	case *Fragment:
		for _, fn := range c.nodes {
			e.AppendChild(fn)
		}
		return
	default:
		panic("memdom: cannot append a node from another backend")
	}
	e.children = append(e.children, n)
}

func (e *Element) removeChild(n dom.Node) {
	for i, c := range e.children {
		if c == n {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
	switch c := n.(type) {
	case *Element:
		c.parent = nil
	case *Text:
		c.parent = nil
	}
}

// ChildNodes implements dom.Element.
func (e *Element) ChildNodes() []dom.Node {
	return append([]dom.Node(nil), e.children...)
}

// Children returns the element children only.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Empty implements dom.Element.
func (e *Element) Empty() {
	for len(e.children) > 0 {
		e.children[0].Remove()
	}
}

// TextContent implements dom.Node.
func (e *Element) TextContent() string {
	var b strings.Builder
	e.walk(func(n dom.Node) {
		if t, ok := n.(*Text); ok {
			b.WriteString(t.data)
		}
	})
	return b.String()
}

// SetTextContent implements dom.Node.
func (e *Element) SetTextContent(text string) {
	e.Empty()
	if text != "" {
		e.AppendChild(e.doc.CreateTextNode(text))
	}
}

// walk visits every descendant in document order.
func (e *Element) walk(fn func(dom.Node)) {
	for _, c := range e.children {
		fn(c)
		if el, ok := c.(*Element); ok {
			el.walk(fn)
		}
	}
}

// SetAttribute implements dom.Element.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	if name == "style" {
		e.style = parseStyle(value)
		e.syncStyleAttr()
		return
	}
	e.setAttr(name, value)
}

func (e *Element) setAttr(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attr{name: name, value: value})
}

// RemoveAttribute implements dom.Element.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	if name == "style" {
		e.style = nil
	}
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attribute implements dom.Element.
func (e *Element) Attribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.Attribute(name)
	return ok
}

// Attributes returns the attributes in insertion order.
func (e *Element) Attributes() [][2]string {
	out := make([][2]string, len(e.attrs))
	for i, a := range e.attrs {
		out[i] = [2]string{a.name, a.value}
	}
	return out
}

// ClassName implements dom.Element.
func (e *Element) ClassName() string {
	v, _ := e.Attribute("class")
	return v
}

// SetClassName implements dom.Element.
func (e *Element) SetClassName(className string) {
	e.setAttr("class", className)
}

// Click dispatches a bubbling click event at the element.
func (e *Element) Click() bool {
	return e.Dispatch(NewEvent("click", true))
}
