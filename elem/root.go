package elem

import (
	"github.com/vango-dev/elemkit/dom"
)

// RootElem owns an Elem around a single element node and forwards the
// root-only operations to it. Widgets embed a *RootElem and call SetContext
// with themselves so event callbacks receive the widget.
type RootElem struct {
	elem *Elem
}

var _ Component = (*RootElem)(nil)

// NewRootElem creates a RootElem whose tree is one tagName element built
// from opts (may be nil) with the given children.
func NewRootElem(tagName string, opts *Options, children ...*Node) (*RootElem, error) {
	args := make([]any, 0, len(children)+1)
	if opts != nil {
		args = append(args, opts)
	}
	for _, c := range children {
		args = append(args, c)
	}
	return newRoot(Tag(tagName, args...))
}

// NewRootElemFunc creates a RootElem from a builder function. The builder
// must return an element node.
func NewRootElemFunc(fn func(Builder) *Node) (*RootElem, error) {
	if fn == nil {
		return newRoot(nil)
	}
	return newRoot(Deferred(fn))
}

// MustRootElem is like NewRootElem but panics on error. Intended for widget
// constructors whose trees are fixed at compile time.
func MustRootElem(tagName string, opts *Options, children ...*Node) *RootElem {
	r, err := NewRootElem(tagName, opts, children...)
	if err != nil {
		panic(err)
	}
	return r
}

func newRoot(node *Node) (*RootElem, error) {
	r := &RootElem{elem: &Elem{}}
	r.elem.ctx = r
	if err := r.elem.SetRootNode(node); err != nil {
		return nil, err
	}
	if _, err := r.elem.rootTag(); err != nil {
		return nil, err
	}
	return r, nil
}

// Elem returns the wrapped engine, for id-addressed operations on the
// root's descendants.
func (r *RootElem) Elem() *Elem { return r.elem }

// SetContext sets the value passed as the first argument to callbacks.
func (r *RootElem) SetContext(ctx any) { r.elem.SetContext(ctx) }

// Context returns the callback context.
func (r *RootElem) Context() any { return r.elem.Context() }

// Render renders the root element under parent.
func (r *RootElem) Render(parent dom.Element) (dom.Node, error) { return r.elem.Render(parent) }

// Unrender tears the root element down.
func (r *RootElem) Unrender() { r.elem.Unrender() }

// Rendered reports whether the root is rendered.
func (r *RootElem) Rendered() bool { return r.elem.Rendered() }

// Element returns the live root element, or nil when not rendered.
func (r *RootElem) Element() dom.Element {
	el, _ := r.elem.Element().(dom.Element)
	return el
}

// SetRootNode replaces the tree. node must be an element node.
func (r *RootElem) SetRootNode(node *Node) error {
	if node != nil && node.deferred == nil {
		if err := validateIsTag(node); err != nil {
			return err
		}
	}
	prev, prevIndex := r.elem.node, r.elem.idNode
	if err := r.elem.SetRootNode(node); err != nil {
		return err
	}
	if _, err := r.elem.rootTag(); err != nil {
		r.elem.node, r.elem.idNode = prev, prevIndex
		return err
	}
	return nil
}

func (r *RootElem) SetClassName(className string) error { return r.elem.SetClassName(className) }
func (r *RootElem) AddClass(className string) error     { return r.elem.AddClass(className) }
func (r *RootElem) RemoveClass(className string) error  { return r.elem.RemoveClass(className) }

func (r *RootElem) HasClass(className string) bool {
	ok, _ := r.elem.HasClass(className)
	return ok
}

func (r *RootElem) SetAttribute(name, value string) error { return r.elem.SetAttribute(name, value) }
func (r *RootElem) RemoveAttribute(name string) error     { return r.elem.RemoveAttribute(name) }

func (r *RootElem) SetProperty(name string, value any) error {
	return r.elem.SetProperty(name, value)
}

func (r *RootElem) GetProperty(name string) any {
	v, _ := r.elem.GetProperty(name)
	return v
}

func (r *RootElem) SetStyle(name, value string) error { return r.elem.SetStyle(name, value) }

func (r *RootElem) GetStyle(name string) string {
	v, _ := r.elem.GetStyle(name)
	return v
}

func (r *RootElem) SetDisabled(disabled bool) error          { return r.elem.SetDisabled(disabled) }
func (r *RootElem) SetEvent(event string, cb Callback) error { return r.elem.SetEvent(event, cb) }
func (r *RootElem) RemoveEvent(event string) error           { return r.elem.RemoveEvent(event) }
