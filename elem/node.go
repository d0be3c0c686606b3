package elem

import (
	"maps"

	"github.com/vango-dev/elemkit/dom"
)

// Kind is the node type discriminator. The zero Kind is not a valid node.
type Kind uint8

const (
	KindTag       Kind = iota + 1 // <div>, <button>, etc.
	KindText                      // Plain text node
	KindHTML                      // Raw markup appended to the container
	KindComponent                 // Wrapped component
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "Tag"
	case KindText:
		return "Text"
	case KindHTML:
		return "HTML"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the four node kinds.
func (k Kind) Valid() bool {
	return k >= KindTag && k <= KindComponent
}

// Callback handles an event. ctx is the owning Elem's context value at
// dispatch time.
type Callback func(ctx any, ev dom.Event)

// Component is anything that can render itself into a container and tear
// itself down again. Render returns the component's root handle, which may
// be nil for components that render no single root.
type Component interface {
	Render(parent dom.Element) (dom.Node, error)
	Unrender()
}

// Node describes one renderable unit. Which payload fields are meaningful
// depends on Kind:
//
//	KindTag:       Tag, ClassName, Attributes, Properties, Style, Events, Children
//	KindText:      Text
//	KindHTML:      Text (the markup)
//	KindComponent: Component (nil renders nothing)
//
// ID is valid on every kind.
type Node struct {
	Kind       Kind
	ID         string
	Tag        string
	ClassName  string
	Attributes map[string]string
	Properties map[string]any
	Style      map[string]string
	Events     map[string]Callback
	Children   []*Node
	Text       string
	Component  Component

	// deferred is set on nodes created by Deferred; preparation replaces
	// the node with the builder's result.
	deferred func(Builder) *Node

	// fault describes malformed builder input, reported at validation.
	fault string

	// Live state, only set on the engine's own copy while rendered.
	el    dom.Node
	live  bool
	bound map[string]dom.Listener
}

// WithID sets the node id and returns the node.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// IsTag reports whether n is an element node.
func (n *Node) IsTag() bool {
	return n != nil && n.Kind == KindTag
}

// Clone returns a deep copy of the description. Maps and child slices are
// copied; callbacks and components are shared. Live state is not copied and
// deferred builders are left unexpanded.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := n.copyFields()
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return c
}

// copyFields copies the description without live state. Children are
// allocated but left nil.
func (n *Node) copyFields() *Node {
	c := &Node{
		Kind:       n.Kind,
		ID:         n.ID,
		Tag:        n.Tag,
		ClassName:  n.ClassName,
		Attributes: maps.Clone(n.Attributes),
		Properties: maps.Clone(n.Properties),
		Style:      maps.Clone(n.Style),
		Events:     maps.Clone(n.Events),
		Text:       n.Text,
		Component:  n.Component,
		deferred:   n.deferred,
		fault:      n.fault,
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
	}
	return c
}

// Prepare returns the engine-owned copy of a description: a deep copy with
// every deferred builder invoked exactly once.
func Prepare(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.deferred != nil {
		built := n.deferred(Builder{})
		if built == nil {
			return nil
		}
		p := Prepare(built)
		if p != nil && p.ID == "" {
			p.ID = n.ID
		}
		return p
	}
	c := n.copyFields()
	for i, child := range n.Children {
		c.Children[i] = Prepare(child)
	}
	return c
}
