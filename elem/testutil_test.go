package elem

import (
	"testing"

	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/dom/memdom"
)

// fakeComponent renders a single span and counts its lifecycle calls.
type fakeComponent struct {
	text      string
	err       error
	renders   int
	unrenders int
	el        *memdom.Element
}

func (c *fakeComponent) Render(parent dom.Element) (dom.Node, error) {
	c.renders++
	if c.err != nil {
		return nil, c.err
	}
	el := parent.OwnerDocument().CreateElement("span")
	el.SetTextContent(c.text)
	parent.AppendChild(el)
	c.el = el.(*memdom.Element)
	return el, nil
}

func (c *fakeComponent) Unrender() {
	c.unrenders++
	if c.el != nil {
		c.el.Remove()
		c.el = nil
	}
}

func newBody() *memdom.Element {
	return memdom.NewDocument().Body()
}

func mustNew(t *testing.T, n *Node) *Elem {
	t.Helper()
	e, err := New(n)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func mustRender(t *testing.T, e *Elem, parent dom.Element) dom.Node {
	t.Helper()
	el, err := e.Render(parent)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return el
}

func liveOf(t *testing.T, e *Elem, id string) *memdom.Element {
	t.Helper()
	n, err := e.GetNode(id)
	if err != nil {
		t.Fatalf("GetNode(%q) error = %v", id, err)
	}
	el, ok := n.(*memdom.Element)
	if !ok {
		t.Fatalf("GetNode(%q) = %T, want *memdom.Element", id, n)
	}
	return el
}
