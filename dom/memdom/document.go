package memdom

import (
	"strings"

	"github.com/vango-dev/elemkit/dom"
)

// Document creates memdom nodes.
type Document struct {
	body *Element
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tagName string) dom.Element {
	return d.NewElement(tagName)
}

// NewElement is CreateElement returning the concrete type.
func (d *Document) NewElement(tagName string) *Element {
	return &Element{
		base:  base{doc: d},
		tag:   strings.ToLower(tagName),
		props: make(map[string]any),
	}
}

// CreateTextNode implements dom.Document.
func (d *Document) CreateTextNode(text string) dom.Node {
	return &Text{base: base{doc: d}, data: text}
}

// Body returns the document's detached body element, creating it on first
// use. It is a convenient render container.
func (d *Document) Body() *Element {
	if d.body == nil {
		d.body = d.NewElement("body")
	}
	return d.body
}

// base is embedded by every node type.
type base struct {
	doc    *Document
	parent *Element
}

func (b *base) OwnerDocument() dom.Document {
	return b.doc
}

func (b *base) Parent() dom.Element {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

// Text is a text node.
type Text struct {
	base
	data string
}

var _ dom.Node = (*Text)(nil)

// NodeType implements dom.Node.
func (t *Text) NodeType() dom.NodeType { return dom.TextNode }

// Remove implements dom.Node.
func (t *Text) Remove() {
	if t.parent != nil {
		t.parent.removeChild(t)
	}
}

// TextContent implements dom.Node.
func (t *Text) TextContent() string { return t.data }

// SetTextContent implements dom.Node.
func (t *Text) SetTextContent(text string) { t.data = text }

// Data returns the node's text.
func (t *Text) Data() string { return t.data }

// Fragment is the handle returned by InsertHTML. It owns the top-level
// nodes produced by one insertion.
type Fragment struct {
	doc   *Document
	nodes []dom.Node
}

var _ dom.Node = (*Fragment)(nil)

// NodeType implements dom.Node.
func (f *Fragment) NodeType() dom.NodeType { return dom.FragmentNode }

// OwnerDocument implements dom.Node.
func (f *Fragment) OwnerDocument() dom.Document { return f.doc }

// Parent returns the parent of the first owned node that is still attached.
func (f *Fragment) Parent() dom.Element {
	for _, n := range f.nodes {
		if p := n.Parent(); p != nil {
			return p
		}
	}
	return nil
}

// Remove detaches every owned node.
func (f *Fragment) Remove() {
	for _, n := range f.nodes {
		n.Remove()
	}
}

// TextContent implements dom.Node.
func (f *Fragment) TextContent() string {
	var b strings.Builder
	for _, n := range f.nodes {
		b.WriteString(n.TextContent())
	}
	return b.String()
}

// SetTextContent is a no-op; a fragment has no content of its own.
func (f *Fragment) SetTextContent(string) {}

// Nodes returns the owned top-level nodes.
func (f *Fragment) Nodes() []dom.Node {
	return append([]dom.Node(nil), f.nodes...)
}
