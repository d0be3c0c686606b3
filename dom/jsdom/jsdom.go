//go:build js && wasm

// Package jsdom implements the dom interfaces over the browser DOM through
// syscall/js.
//
//	container := jsdom.ElementByID("app")
//	e, _ := elem.New(elem.Tag("div", elem.Class("card"), "hello"))
//	_, err := e.Render(container)
package jsdom

import (
	"strings"
	"syscall/js"

	"github.com/vango-dev/elemkit/dom"
)

// Document wraps the global document.
type Document struct {
	v js.Value
}

var global = &Document{v: js.Global().Get("document")}

// Global returns the page document.
func Global() *Document {
	return global
}

// ElementByID looks up an element in the page document; nil if absent.
func ElementByID(id string) dom.Element {
	v := global.v.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{node{v: v}}
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tagName string) dom.Element {
	return &Element{node{v: d.v.Call("createElement", tagName)}}
}

// CreateTextNode implements dom.Document.
func (d *Document) CreateTextNode(text string) dom.Node {
	return &node{v: d.v.Call("createTextNode", text)}
}

// Wrap returns a dom.Node for a raw JS node value.
func Wrap(v js.Value) dom.Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	if v.Get("nodeType").Int() == 1 {
		return &Element{node{v: v}}
	}
	return &node{v: v}
}

// Value returns the JS value behind a jsdom node.
func Value(n dom.Node) js.Value {
	switch x := n.(type) {
	case *Element:
		return x.v
	case *node:
		return x.v
	}
	return js.Null()
}

type node struct {
	v js.Value
}

func (n *node) NodeType() dom.NodeType {
	switch n.v.Get("nodeType").Int() {
	case 1:
		return dom.ElementNode
	case 3:
		return dom.TextNode
	}
	return dom.FragmentNode
}

func (n *node) OwnerDocument() dom.Document {
	return global
}

func (n *node) Parent() dom.Element {
	p := n.v.Get("parentNode")
	if p.IsNull() || p.IsUndefined() || p.Get("nodeType").Int() != 1 {
		return nil
	}
	return &Element{node{v: p}}
}

func (n *node) Remove() {
	p := n.v.Get("parentNode")
	if !p.IsNull() && !p.IsUndefined() {
		p.Call("removeChild", n.v)
	}
}

func (n *node) TextContent() string {
	return n.v.Get("textContent").String()
}

func (n *node) SetTextContent(text string) {
	n.v.Set("textContent", text)
}

// Element is a browser element.
type Element struct {
	node
}

var _ dom.Element = (*Element)(nil)

func (e *Element) TagName() string {
	return strings.ToLower(e.v.Get("tagName").String())
}

func (e *Element) AppendChild(n dom.Node) {
	if f, ok := n.(*fragment); ok {
		for _, c := range f.nodes {
			e.v.Call("appendChild", c)
		}
		return
	}
	e.v.Call("appendChild", Value(n))
}

func (e *Element) ChildNodes() []dom.Node {
	list := e.v.Get("childNodes")
	out := make([]dom.Node, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		out = append(out, Wrap(list.Index(i)))
	}
	return out
}

func (e *Element) Empty() {
	for {
		c := e.v.Get("firstChild")
		if c.IsNull() || c.IsUndefined() {
			return
		}
		e.v.Call("removeChild", c)
	}
}

// InsertHTML uses a collapsed range at the end of the element so existing
// children are not reparsed.
func (e *Element) InsertHTML(markup string) (dom.Node, error) {
	r := global.v.Call("createRange")
	r.Call("selectNodeContents", e.v)
	r.Call("collapse", false)
	frag := r.Call("createContextualFragment", markup)

	list := frag.Get("childNodes")
	f := &fragment{}
	for i := 0; i < list.Length(); i++ {
		f.nodes = append(f.nodes, list.Index(i))
	}
	r.Call("insertNode", frag)
	return f, nil
}

func (e *Element) InnerHTML() string {
	return e.v.Get("innerHTML").String()
}

func (e *Element) SetInnerHTML(markup string) error {
	e.v.Set("innerHTML", markup)
	return nil
}

func (e *Element) SetAttribute(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e *Element) RemoveAttribute(name string) {
	e.v.Call("removeAttribute", name)
}

func (e *Element) Attribute(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *Element) Property(name string) any {
	return fromJS(e.v.Get(name))
}

func (e *Element) SetProperty(name string, value any) {
	e.v.Set(name, value)
}

func (e *Element) Style(name string) string {
	return e.v.Get("style").Call("getPropertyValue", cssName(name)).String()
}

func (e *Element) SetStyle(name, value string) {
	if value == "" {
		e.v.Get("style").Call("removeProperty", cssName(name))
		return
	}
	e.v.Get("style").Call("setProperty", cssName(name), value)
}

func (e *Element) ClassName() string {
	return e.v.Get("className").String()
}

func (e *Element) SetClassName(className string) {
	e.v.Set("className", className)
}

type listener struct {
	event string
	fn    js.Func
	done  bool
}

func (l *listener) Event() string { return l.event }

func (e *Element) AddEventListener(event string, fn func(dom.Event)) dom.Listener {
	l := &listener{event: event}
	l.fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(&Event{v: args[0]})
		}
		return nil
	})
	e.v.Call("addEventListener", event, l.fn)
	return l
}

func (e *Element) RemoveEventListener(l dom.Listener) {
	jl, ok := l.(*listener)
	if !ok || jl.done {
		return
	}
	e.v.Call("removeEventListener", jl.event, jl.fn)
	jl.fn.Release()
	jl.done = true
}

// fragment owns the nodes of one InsertHTML call.
type fragment struct {
	nodes []js.Value
}

func (f *fragment) NodeType() dom.NodeType      { return dom.FragmentNode }
func (f *fragment) OwnerDocument() dom.Document { return global }
func (f *fragment) SetTextContent(string)       {}

func (f *fragment) Parent() dom.Element {
	for _, n := range f.nodes {
		if p := (&node{v: n}).Parent(); p != nil {
			return p
		}
	}
	return nil
}

func (f *fragment) Remove() {
	for _, n := range f.nodes {
		(&node{v: n}).Remove()
	}
}

func (f *fragment) TextContent() string {
	s := ""
	for _, n := range f.nodes {
		s += n.Get("textContent").String()
	}
	return s
}

// Event wraps a browser event.
type Event struct {
	v js.Value
}

func (ev *Event) Type() string           { return ev.v.Get("type").String() }
func (ev *Event) Target() dom.Node       { return Wrap(ev.v.Get("target")) }
func (ev *Event) PreventDefault()        { ev.v.Call("preventDefault") }
func (ev *Event) DefaultPrevented() bool { return ev.v.Get("defaultPrevented").Bool() }
func (ev *Event) StopPropagation()       { ev.v.Call("stopPropagation") }

// JS returns the underlying event value.
func (ev *Event) JS() js.Value { return ev.v }

func fromJS(v js.Value) any {
	switch v.Type() {
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNumber:
		return v.Float()
	case js.TypeString:
		return v.String()
	case js.TypeNull, js.TypeUndefined:
		return nil
	}
	return v
}

func cssName(name string) string {
	out := make([]byte, 0, len(name)+4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			out = append(out, '-', c+'a'-'A')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
