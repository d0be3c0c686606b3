package elem

import (
	"sort"

	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/internal/errors"
)

// renderNode materializes n under parent, parent before children. Each
// node is marked live as soon as it holds platform resources so a failed
// render can be torn down by unrenderNode.
func (e *Elem) renderNode(parent dom.Element, n *Node) (dom.Node, error) {
	if n == nil {
		return nil, errors.New("E204")
	}
	obs := observer()

	switch n.Kind {
	case KindTag:
		el := parent.OwnerDocument().CreateElement(n.Tag)

		for _, k := range sortedKeys(n.Attributes) {
			el.SetAttribute(k, n.Attributes[k])
		}
		for _, k := range sortedKeys(n.Properties) {
			el.SetProperty(k, n.Properties[k])
		}
		for _, k := range sortedKeys(n.Style) {
			el.SetStyle(k, n.Style[k])
		}

		n.el = el
		n.live = true

		for _, k := range sortedKeys(n.Events) {
			e.bind(n, el, k, n.Events[k])
		}
		if n.ClassName != "" {
			el.SetClassName(n.ClassName)
		}

		parent.AppendChild(el)
		obs.NodeRendered(KindTag)

		for _, child := range n.Children {
			if _, err := e.renderNode(el, child); err != nil {
				return nil, err
			}
		}
		return el, nil

	case KindText:
		t := parent.OwnerDocument().CreateTextNode(n.Text)
		parent.AppendChild(t)
		n.el = t
		n.live = true
		obs.NodeRendered(KindText)
		return t, nil

	case KindHTML:
		h, err := parent.InsertHTML(n.Text)
		if err != nil {
			return nil, errors.New("E240").WithDetailf("id %q", n.ID).Wrap(err)
		}
		n.el = h
		n.live = true
		obs.NodeRendered(KindHTML)
		return h, nil

	case KindComponent:
		if n.Component == nil {
			return nil, nil
		}
		h, err := n.Component.Render(parent)
		if err != nil {
			return nil, errors.New("E241").WithDetailf("id %q", n.ID).Wrap(err)
		}
		n.el = h
		n.live = true
		obs.NodeRendered(KindComponent)
		return h, nil
	}

	return nil, errors.New("E201").WithDetailf("kind %d", n.Kind)
}

// unrenderNode tears n down. detach removes n's own platform node from its
// parent; descendants go with it and are only released. Components always
// detach themselves.
func (e *Elem) unrenderNode(n *Node, detach bool) {
	if n == nil || !n.live {
		return
	}
	obs := observer()

	switch n.Kind {
	case KindTag:
		el, _ := n.el.(dom.Element)
		e.unbindAll(n)

		if el != nil {
			for k := range n.Properties {
				n.Properties[k] = el.Property(k)
			}
			for k := range n.Style {
				if v := el.Style(k); v != "" {
					n.Style[k] = v
				} else {
					delete(n.Style, k)
				}
			}
			n.ClassName = el.ClassName()
		}

		for _, child := range n.Children {
			e.unrenderNode(child, false)
		}

		if detach && el != nil {
			el.Remove()
		}

	case KindText, KindHTML:
		if detach && n.el != nil {
			n.el.Remove()
		}

	case KindComponent:
		if n.Component != nil {
			n.Component.Unrender()
		}
	}

	n.el = nil
	n.live = false
	obs.NodeUnrendered(n.Kind)
}

func (e *Elem) bind(n *Node, el dom.Element, event string, cb Callback) {
	l := el.AddEventListener(event, func(ev dom.Event) {
		cb(e.ctx, ev)
	})
	if n.bound == nil {
		n.bound = make(map[string]dom.Listener)
	}
	n.bound[event] = l
	e.listeners++
	observer().ListenerBound(event)
}

func (e *Elem) unbind(n *Node, event string) {
	l, ok := n.bound[event]
	if !ok {
		return
	}
	if el, ok := n.el.(dom.Element); ok {
		el.RemoveEventListener(l)
	}
	delete(n.bound, event)
	if len(n.bound) == 0 {
		n.bound = nil
	}
	e.listeners--
	observer().ListenerRemoved(event)
}

func (e *Elem) unbindAll(n *Node) {
	for _, k := range sortedKeys(n.bound) {
		e.unbind(n, k)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
