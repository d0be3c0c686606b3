package elem

import (
	"slices"
	"strings"

	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/internal/errors"
)

// tagNode resolves an id to an element node.
func (e *Elem) tagNode(id string) (*Node, error) {
	n, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	return n, validateIsTag(n)
}

func (e *Elem) rootTag() (*Node, error) {
	if e.node == nil {
		return nil, errors.New("E204")
	}
	return e.node, validateIsTag(e.node)
}

func validateIsTag(n *Node) error {
	if n.Kind != KindTag {
		if n.ID != "" {
			return errors.New("E230").WithDetailf("id %q is a %s node", n.ID, n.Kind)
		}
		return errors.New("E230").WithDetailf("%s node", n.Kind)
	}
	return nil
}

func liveElement(n *Node) dom.Element {
	if !n.live {
		return nil
	}
	el, _ := n.el.(dom.Element)
	return el
}

// SetClassName sets the class name of the root node. An empty name clears
// the class attribute.
func (e *Elem) SetClassName(className string) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	setClassName(n, className)
	return nil
}

// SetNodeClassName sets the class name of the node with the given id.
func (e *Elem) SetNodeClassName(id, className string) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	setClassName(n, className)
	return nil
}

func setClassName(n *Node, className string) {
	if n.ClassName == className && currentClass(n) == className {
		return
	}
	n.ClassName = className
	if el := liveElement(n); el != nil {
		if className != "" {
			el.SetClassName(className)
		} else {
			el.RemoveAttribute("class")
		}
	}
}

// currentClass returns the live class name when rendered.
func currentClass(n *Node) string {
	if el := liveElement(n); el != nil {
		return el.ClassName()
	}
	return n.ClassName
}

// AddClass adds class tokens to the root node. A value holding several
// whitespace-separated tokens adds each one. Adding a present token is
// a no-op.
func (e *Elem) AddClass(className string) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	addClass(n, className)
	return nil
}

// AddNodeClass adds class tokens to the node with the given id.
func (e *Elem) AddNodeClass(id, className string) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	addClass(n, className)
	return nil
}

func addClass(n *Node, className string) {
	tokens := strings.Fields(currentClass(n))
	added := false
	for _, c := range strings.Fields(className) {
		if !slices.Contains(tokens, c) {
			tokens = append(tokens, c)
			added = true
		}
	}
	if added {
		setClassName(n, strings.Join(tokens, " "))
	}
}

// RemoveClass removes each whitespace-separated token in className from
// the root node. Removing an absent token is a no-op.
func (e *Elem) RemoveClass(className string) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	removeClass(n, className)
	return nil
}

// RemoveNodeClass removes class tokens from the node with the given id.
func (e *Elem) RemoveNodeClass(id, className string) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	removeClass(n, className)
	return nil
}

func removeClass(n *Node, className string) {
	remove := strings.Fields(className)
	tokens := strings.Fields(currentClass(n))
	kept := tokens[:0]
	found := false
	for _, t := range tokens {
		if slices.Contains(remove, t) {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if found {
		setClassName(n, strings.Join(kept, " "))
	}
}

// HasClass reports whether the root node carries every token in
// className.
func (e *Elem) HasClass(className string) (bool, error) {
	n, err := e.rootTag()
	if err != nil {
		return false, err
	}
	return hasClass(n, className), nil
}

// HasNodeClass reports whether the node with the given id carries every
// token in className.
func (e *Elem) HasNodeClass(id, className string) (bool, error) {
	n, err := e.tagNode(id)
	if err != nil {
		return false, err
	}
	return hasClass(n, className), nil
}

func hasClass(n *Node, className string) bool {
	want := strings.Fields(className)
	if len(want) == 0 {
		return false
	}
	tokens := strings.Fields(currentClass(n))
	for _, c := range want {
		if !slices.Contains(tokens, c) {
			return false
		}
	}
	return true
}

// SetAttribute sets an attribute on the root node.
func (e *Elem) SetAttribute(name, value string) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	setAttribute(n, name, value)
	return nil
}

// SetNodeAttribute sets an attribute on the node with the given id.
func (e *Elem) SetNodeAttribute(id, name, value string) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	setAttribute(n, name, value)
	return nil
}

func setAttribute(n *Node, name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	} else if v, ok := n.Attributes[name]; ok && v == value {
		return
	}
	n.Attributes[name] = value
	if el := liveElement(n); el != nil {
		el.SetAttribute(name, value)
	}
}

// RemoveAttribute removes an attribute from the root node.
func (e *Elem) RemoveAttribute(name string) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	removeAttribute(n, name)
	return nil
}

// RemoveNodeAttribute removes an attribute from the node with the given id.
func (e *Elem) RemoveNodeAttribute(id, name string) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	removeAttribute(n, name)
	return nil
}

func removeAttribute(n *Node, name string) {
	if _, ok := n.Attributes[name]; !ok {
		return
	}
	delete(n.Attributes, name)
	if el := liveElement(n); el != nil {
		el.RemoveAttribute(name)
	}
}

// SetProperty sets a property on the root node. When rendered, the value the
// platform reports back after the write is staged, not the value passed in.
func (e *Elem) SetProperty(name string, value any) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	setProperty(n, name, value)
	return nil
}

// SetNodeProperty sets a property on the node with the given id.
func (e *Elem) SetNodeProperty(id, name string, value any) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	setProperty(n, name, value)
	return nil
}

func setProperty(n *Node, name string, value any) {
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	if el := liveElement(n); el != nil {
		el.SetProperty(name, value)
		n.Properties[name] = el.Property(name)
		return
	}
	n.Properties[name] = value
}

// GetProperty reads a property of the root node: the live value when
// rendered, the staged value otherwise (nil if never set).
func (e *Elem) GetProperty(name string) (any, error) {
	n, err := e.rootTag()
	if err != nil {
		return nil, err
	}
	return getProperty(n, name), nil
}

// GetNodeProperty reads a property of the node with the given id.
func (e *Elem) GetNodeProperty(id, name string) (any, error) {
	n, err := e.tagNode(id)
	if err != nil {
		return nil, err
	}
	return getProperty(n, name), nil
}

func getProperty(n *Node, name string) any {
	if el := liveElement(n); el != nil {
		return el.Property(name)
	}
	return n.Properties[name]
}

// SetStyle sets an inline style declaration on the root node. An empty
// value removes the declaration.
func (e *Elem) SetStyle(name, value string) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	setStyle(n, name, value)
	return nil
}

// SetNodeStyle sets an inline style declaration on the node with the given
// id.
func (e *Elem) SetNodeStyle(id, name, value string) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	setStyle(n, name, value)
	return nil
}

func setStyle(n *Node, name, value string) {
	if el := liveElement(n); el != nil {
		el.SetStyle(name, value)
		value = el.Style(name)
	}
	if value == "" {
		delete(n.Style, name)
		return
	}
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[name] = value
}

// GetStyle reads an inline style declaration of the root node.
func (e *Elem) GetStyle(name string) (string, error) {
	n, err := e.rootTag()
	if err != nil {
		return "", err
	}
	return getStyle(n, name), nil
}

// GetNodeStyle reads an inline style declaration of the node with the given
// id.
func (e *Elem) GetNodeStyle(id, name string) (string, error) {
	n, err := e.tagNode(id)
	if err != nil {
		return "", err
	}
	return getStyle(n, name), nil
}

func getStyle(n *Node, name string) string {
	if el := liveElement(n); el != nil {
		return el.Style(name)
	}
	return n.Style[name]
}

// SetDisabled sets the disabled property of the root node.
func (e *Elem) SetDisabled(disabled bool) error {
	return e.SetProperty("disabled", disabled)
}

// SetNodeDisabled sets the disabled property of the node with the given id.
func (e *Elem) SetNodeDisabled(id string, disabled bool) error {
	return e.SetNodeProperty(id, "disabled", disabled)
}

// SetEvent registers cb for the event on the root node, replacing any
// previous callback. A nil cb removes the event.
func (e *Elem) SetEvent(event string, cb Callback) error {
	n, err := e.rootTag()
	if err != nil {
		return err
	}
	e.setEvent(n, event, cb)
	return nil
}

// SetNodeEvent registers cb for the event on the node with the given id.
func (e *Elem) SetNodeEvent(id, event string, cb Callback) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	e.setEvent(n, event, cb)
	return nil
}

// RemoveEvent removes the event callback from the root node.
func (e *Elem) RemoveEvent(event string) error {
	return e.SetEvent(event, nil)
}

// RemoveNodeEvent removes the event callback from the node with the given
// id.
func (e *Elem) RemoveNodeEvent(id, event string) error {
	return e.SetNodeEvent(id, event, nil)
}

func (e *Elem) setEvent(n *Node, event string, cb Callback) {
	e.unbind(n, event)

	if cb == nil {
		delete(n.Events, event)
		if len(n.Events) == 0 {
			n.Events = nil
		}
		return
	}

	if n.Events == nil {
		n.Events = make(map[string]Callback)
	}
	n.Events[event] = cb

	if el := liveElement(n); el != nil {
		e.bind(n, el, event, cb)
	}
}

// SetNodeChildren replaces the children of the node with the given id. When
// rendered, the old children are unrendered and detached and the new ones
// rendered into the live element. Ids of the new children must not collide
// with ids elsewhere in the tree; the tree is left unchanged if they do.
func (e *Elem) SetNodeChildren(id string, children []*Node) error {
	n, err := e.tagNode(id)
	if err != nil {
		return err
	}
	if e.busy {
		return errors.New("E212").WithDetail("SetNodeChildren during render")
	}

	prepared := make([]*Node, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		p := Prepare(c)
		if p == nil {
			return errors.New("E204").WithDetailf("builder for child of %q returned nil", id)
		}
		prepared = append(prepared, p)
	}

	removed := make(map[string]bool)
	for _, c := range n.Children {
		collectIDs(c, removed)
	}
	added := make(map[string]*Node)
	for _, c := range prepared {
		if err := indexNode(c, added); err != nil {
			return err
		}
	}
	for nid := range added {
		if _, taken := e.idNode[nid]; taken && !removed[nid] {
			return errors.New("E202").WithDetailf("id %q used multiple times", nid)
		}
	}

	el := liveElement(n)
	if el != nil {
		for _, c := range n.Children {
			e.unrenderNode(c, true)
		}
	}

	index := make(map[string]*Node, len(e.idNode)-len(removed)+len(added))
	for k, v := range e.idNode {
		if !removed[k] {
			index[k] = v
		}
	}
	for k, v := range added {
		index[k] = v
	}
	e.idNode = index
	n.Children = prepared

	if el != nil {
		e.busy = true
		defer func() { e.busy = false }()
		for _, c := range prepared {
			if _, err := e.renderNode(el, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func collectIDs(n *Node, ids map[string]bool) {
	if n == nil {
		return
	}
	if n.ID != "" {
		ids[n.ID] = true
	}
	for _, c := range n.Children {
		collectIDs(c, ids)
	}
}
