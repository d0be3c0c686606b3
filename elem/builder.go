package elem

import (
	"fmt"
	"strings"
)

type idArg string

type classArg []string

type attrArg struct {
	name  string
	value string
}

type propArg struct {
	name  string
	value any
}

type styleArg struct {
	name  string
	value string
}

type eventArg struct {
	event string
	cb    Callback
}

// ID sets the id of the element being built.
func ID(id string) any { return idArg(id) }

// Class appends class names to the element being built. Names are joined
// with single spaces.
func Class(names ...string) any { return classArg(names) }

// Attr sets a markup attribute.
func Attr(name, value string) any { return attrArg{name, value} }

// Prop sets a live node property, applied after attributes at render time.
func Prop(name string, value any) any { return propArg{name, value} }

// Style sets an inline style declaration.
func Style(name, value string) any { return styleArg{name, value} }

// On sets the callback for an event.
func On(event string, cb Callback) any { return eventArg{event, cb} }

// Options is the options record of an element. Only the fields that are set
// are copied onto the node; nothing is defaulted.
type Options struct {
	ClassName  string
	Attributes map[string]string
	Properties map[string]any
	Style      map[string]string
	Events     map[string]Callback
}

// Tag creates an element node. Arguments can be: nil, ID, Class, Attr, Prop,
// Style, On, Options, *Options, *Node, []*Node, []string (class names),
// string (text child), Component (component child) or func(Builder) *Node
// (deferred child). The first argument of any other type is recorded on the
// node and fails validation in New, SetRootNode and SetNodeChildren.
func Tag(tagName string, args ...any) *Node {
	node := &Node{
		Kind: KindTag,
		Tag:  tagName,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue

		case idArg:
			node.ID = string(v)

		case classArg:
			node.addClassNames(v...)

		case []string:
			node.addClassNames(v...)

		case attrArg:
			if node.Attributes == nil {
				node.Attributes = make(map[string]string)
			}
			node.Attributes[v.name] = v.value

		case propArg:
			if node.Properties == nil {
				node.Properties = make(map[string]any)
			}
			node.Properties[v.name] = v.value

		case styleArg:
			if node.Style == nil {
				node.Style = make(map[string]string)
			}
			node.Style[v.name] = v.value

		case eventArg:
			if v.cb == nil {
				continue
			}
			if node.Events == nil {
				node.Events = make(map[string]Callback)
			}
			node.Events[v.event] = v.cb

		case *Options:
			if v != nil {
				node.applyOptions(v)
			}

		case Options:
			node.applyOptions(&v)

		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*Node:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			node.Children = append(node.Children, Text(v))

		case func(Builder) *Node:
			if v != nil {
				node.Children = append(node.Children, Deferred(v))
			}

		case Component:
			node.Children = append(node.Children, Comp(v))

		default:
			if node.fault == "" {
				node.fault = fmt.Sprintf("unsupported argument %T", v)
			}
		}
	}

	return node
}

func (n *Node) addClassNames(names ...string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if n.ClassName == "" {
			n.ClassName = name
		} else {
			n.ClassName += " " + name
		}
	}
}

func (n *Node) applyOptions(o *Options) {
	if o.ClassName != "" {
		n.addClassNames(o.ClassName)
	}
	if o.Attributes != nil {
		if n.Attributes == nil {
			n.Attributes = make(map[string]string, len(o.Attributes))
		}
		for k, v := range o.Attributes {
			n.Attributes[k] = v
		}
	}
	if o.Properties != nil {
		if n.Properties == nil {
			n.Properties = make(map[string]any, len(o.Properties))
		}
		for k, v := range o.Properties {
			n.Properties[k] = v
		}
	}
	if o.Style != nil {
		if n.Style == nil {
			n.Style = make(map[string]string, len(o.Style))
		}
		for k, v := range o.Style {
			n.Style[k] = v
		}
	}
	for k, cb := range o.Events {
		if cb == nil {
			continue
		}
		if n.Events == nil {
			n.Events = make(map[string]Callback, len(o.Events))
		}
		n.Events[k] = cb
	}
}

// Text creates a text node.
func Text(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// HTML creates a raw markup node. The markup is inserted as-is; never pass
// user-provided content.
func HTML(markup string) *Node {
	return &Node{Kind: KindHTML, Text: markup}
}

// Comp creates a component node. A nil component renders nothing.
func Comp(c Component) *Node {
	return &Node{Kind: KindComponent, Component: c}
}

// Deferred creates a placeholder that is replaced by fn's result when the
// tree is prepared. fn runs exactly once per preparation.
func Deferred(fn func(Builder) *Node) *Node {
	return &Node{deferred: fn}
}

// Builder is the constructor namespace handed to builder functions. It is
// stateless.
type Builder struct{}

// Elem creates an element node; see Tag.
func (Builder) Elem(tagName string, args ...any) *Node { return Tag(tagName, args...) }

// Text creates a text node.
func (Builder) Text(text string) *Node { return Text(text) }

// HTML creates a raw markup node.
func (Builder) HTML(markup string) *Node { return HTML(markup) }

// Component creates a component node.
func (Builder) Component(c Component) *Node { return Comp(c) }
