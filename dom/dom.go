// Package dom defines the platform surface the elem engine renders into.
//
// A backend provides live nodes: memdom keeps them in memory and jsdom wraps
// the browser DOM through syscall/js. The engine only ever creates nodes
// through the owner document of the container it is asked to render into,
// so a tree always materializes on the same backend as its container.
package dom

// NodeType identifies the kind of a live node.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	// FragmentNode is the handle returned by InsertHTML. It owns the
	// top-level nodes produced by one markup insertion.
	FragmentNode
)

// Node is a live platform node.
type Node interface {
	// NodeType reports the kind of node.
	NodeType() NodeType

	// OwnerDocument returns the document that created the node.
	OwnerDocument() Document

	// Parent returns the parent element, or nil when detached.
	Parent() Element

	// Remove detaches the node from its parent. It is a no-op on a
	// detached node.
	Remove()

	// TextContent returns the concatenated text of the node and its
	// descendants.
	TextContent() string

	// SetTextContent replaces the node's content with a single text node.
	SetTextContent(text string)
}

// Element is a live element node.
type Element interface {
	Node

	// TagName returns the lower-case tag name.
	TagName() string

	// AppendChild appends n as the last child, detaching it from any
	// previous parent.
	AppendChild(n Node)

	// ChildNodes returns the element's children in order.
	ChildNodes() []Node

	// Empty removes all children.
	Empty()

	// InsertHTML parses markup in the context of the element and appends
	// the result after the existing content. The returned fragment handle
	// owns the inserted top-level nodes; removing it removes exactly them.
	InsertHTML(markup string) (Node, error)

	// InnerHTML serializes the element's children.
	InnerHTML() string

	// SetInnerHTML replaces the element's children with parsed markup.
	SetInnerHTML(markup string) error

	SetAttribute(name, value string)
	RemoveAttribute(name string)
	Attribute(name string) (string, bool)

	// Property reads a live property. Backends coerce written values the
	// way a browser would (boolean state, string values).
	Property(name string) any
	SetProperty(name string, value any)

	// Style reads an inline style declaration; "" when unset.
	Style(name string) string

	// SetStyle sets an inline style declaration; an empty value removes it.
	SetStyle(name, value string)

	ClassName() string
	SetClassName(className string)

	// AddEventListener binds fn to the named event and returns the handle
	// needed to remove it.
	AddEventListener(event string, fn func(Event)) Listener

	// RemoveEventListener unbinds a listener returned by AddEventListener.
	// Removing an already removed listener is a no-op.
	RemoveEventListener(l Listener)
}

// Listener is a bound event listener.
type Listener interface {
	Event() string
}

// Event is a dispatched platform event.
type Event interface {
	Type() string
	Target() Node
	PreventDefault()
	DefaultPrevented() bool
	StopPropagation()
}

// Document creates nodes.
type Document interface {
	CreateElement(tagName string) Element
	CreateTextNode(text string) Node
}

// IsElement reports whether n is a non-nil element.
func IsElement(n Node) bool {
	if n == nil {
		return false
	}
	_, ok := n.(Element)
	return ok && n.NodeType() == ElementNode
}
