package elem

import (
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/internal/errors"
)

// Elem owns one node tree and renders it into live DOM nodes.
type Elem struct {
	node   *Node
	idNode map[string]*Node
	ctx    any

	el        dom.Node
	rendered  bool
	busy      bool
	listeners int
}

var _ Component = (*Elem)(nil)

// New creates an Elem owning a prepared copy of node.
func New(node *Node) (*Elem, error) {
	e := &Elem{}
	e.ctx = e
	if err := e.SetRootNode(node); err != nil {
		return nil, err
	}
	return e, nil
}

// NewFunc creates an Elem from a builder function, invoked once.
func NewFunc(fn func(Builder) *Node) (*Elem, error) {
	e := &Elem{}
	e.ctx = e
	if err := e.SetRootFunc(fn); err != nil {
		return nil, err
	}
	return e, nil
}

// SetRootNode replaces the node tree. The Elem must not be rendered.
func (e *Elem) SetRootNode(node *Node) error {
	if e.busy {
		return errors.New("E212").WithDetail("SetRootNode during render")
	}
	if e.rendered {
		return errors.New("E211")
	}
	if node == nil {
		return errors.New("E204")
	}

	prepared := Prepare(node)
	index := make(map[string]*Node)
	if err := indexNode(prepared, index); err != nil {
		return err
	}

	e.node = prepared
	e.idNode = index
	return nil
}

// SetRootFunc replaces the node tree with the result of fn, invoked once.
func (e *Elem) SetRootFunc(fn func(Builder) *Node) error {
	if fn == nil {
		return errors.New("E204").WithDetail("nil builder function")
	}
	if e.busy {
		return errors.New("E212").WithDetail("SetRootFunc during render")
	}
	if e.rendered {
		return errors.New("E211")
	}
	return e.SetRootNode(Deferred(fn))
}

// indexNode validates a prepared tree and records its ids.
func indexNode(n *Node, index map[string]*Node) error {
	if n == nil {
		return errors.New("E204")
	}
	if !n.Kind.Valid() {
		return errors.New("E201").WithDetailf("kind %d", n.Kind)
	}
	if n.fault != "" {
		return errors.New("E201").WithDetailf("%s %q: %s", n.Kind, n.Tag, n.fault)
	}
	if n.Kind == KindTag && n.Tag == "" {
		return errors.New("E201").WithDetail("element without a tag name")
	}
	if n.ID != "" {
		if _, dup := index[n.ID]; dup {
			return errors.New("E202").WithDetailf("id %q used multiple times", n.ID)
		}
		index[n.ID] = n
	}
	if n.Kind != KindTag {
		return nil
	}
	for _, child := range n.Children {
		if err := indexNode(child, index); err != nil {
			return err
		}
	}
	return nil
}

// Render materializes the tree under parent and returns the root handle.
// If rendering fails part way, everything already rendered is torn down
// before the error is returned.
func (e *Elem) Render(parent dom.Element) (dom.Node, error) {
	if e.busy {
		return nil, errors.New("E212").WithDetail("Render during render")
	}
	if e.rendered {
		return nil, errors.New("E210")
	}
	if parent == nil {
		return nil, errors.New("E204").WithDetail("nil render container")
	}

	e.busy = true
	defer func() { e.busy = false }()

	el, err := e.renderNode(parent, e.node)
	if err != nil {
		logger().Debug("elem: tearing down partial render", "error", err)
		e.unrenderNode(e.node, true)
		return nil, err
	}

	e.el = el
	e.rendered = true
	return el, nil
}

// Unrender tears the tree down. It is a no-op when not rendered.
func (e *Elem) Unrender() {
	if e.busy {
		logger().Warn("elem: ignoring re-entrant Unrender")
		return
	}
	if !e.rendered {
		return
	}

	e.busy = true
	defer func() { e.busy = false }()

	e.unrenderNode(e.node, true)
	e.el = nil
	e.rendered = false
}

// Rendered reports whether the Elem is currently rendered.
func (e *Elem) Rendered() bool {
	return e.rendered
}

// Element returns the root handle, or nil when not rendered.
func (e *Elem) Element() dom.Node {
	return e.el
}

// Root returns the engine's staged root node. Mutating it directly bypasses
// live patching; use the Elem mutators instead.
func (e *Elem) Root() *Node {
	return e.node
}

// GetNode returns the live handle of the node with the given id, or nil if
// the node is not rendered.
func (e *Elem) GetNode(id string) (dom.Node, error) {
	n, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	return n.el, nil
}

// GetComponent returns the component wrapped by the node with the given id.
func (e *Elem) GetComponent(id string) (Component, error) {
	n, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	if n.Kind != KindComponent {
		return nil, errors.New("E231").WithDetailf("id %q is a %s node", id, n.Kind)
	}
	return n.Component, nil
}

// SetContext sets the value passed as the first argument to every event
// callback.
func (e *Elem) SetContext(ctx any) {
	e.ctx = ctx
}

// Context returns the event callback context.
func (e *Elem) Context() any {
	return e.ctx
}

// Listeners returns the number of live event listeners bound by the Elem.
func (e *Elem) Listeners() int {
	return e.listeners
}

func (e *Elem) lookup(id string) (*Node, error) {
	n, ok := e.idNode[id]
	if !ok {
		return nil, errors.New("E220").WithDetailf("id %q", id)
	}
	return n, nil
}
