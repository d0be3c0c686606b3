package widget

import (
	"reflect"
	"time"

	"github.com/vango-dev/elemkit/anim"
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
)

const (
	transitionStyle     = "position: relative; overflow: hidden;"
	transitionFlexStyle = " flex: 1 1 0px;"
	transitionContStyle = "width: 100%; height: 100%; position: relative; overflow: auto;"
)

// TransitionMode selects how the container sizes itself.
type TransitionMode string

const (
	// ModeFlex makes the container a flex item filling its parent.
	ModeFlex TransitionMode = "flex"
	// ModeBlock leaves sizing to the parent's stylesheet.
	ModeBlock TransitionMode = "block"
)

// TransitionOptions configures a Transition. Zero fields take the anim
// package defaults and ModeFlex.
type TransitionOptions struct {
	ClassName string
	Distance  float64
	Duration  time.Duration
	Mode      TransitionMode
}

// Identifier is implemented by components that carry an identity. Two
// components with equal IDs are treated as the same content by Transition.
type Identifier interface {
	ID() string
}

// Transition shows one component at a time and animates between them.
type Transition struct {
	opts TransitionOptions

	container *elem.Elem
	content   *elem.Elem
	contDiv   dom.Element

	animID   anim.Handle
	current  elem.Component
	rendered elem.Component
}

var _ elem.Component = (*Transition)(nil)

// NewTransition creates an empty Transition. opts may be nil.
func NewTransition(opts *TransitionOptions) *Transition {
	t := &Transition{}
	if opts != nil {
		t.opts = *opts
	}
	if t.opts.Mode == "" {
		t.opts.Mode = ModeFlex
	}
	return t
}

// ID returns the identity of the current component, or "" if it has none.
func (t *Transition) ID() string {
	if id, ok := t.current.(Identifier); ok {
		return id.ID()
	}
	return ""
}

// Component returns the current component.
func (t *Transition) Component() elem.Component { return t.current }

// Render implements elem.Component and returns the container element.
func (t *Transition) Render(parent dom.Element) (dom.Node, error) {
	if t.container != nil {
		return nil, elem.ErrAlreadyRendered
	}

	style := transitionStyle
	if t.opts.Mode == ModeFlex {
		style += transitionFlexStyle
	}
	container, err := elem.New(elem.Tag("div", elem.Class(t.opts.ClassName), elem.Attr("style", style)))
	if err != nil {
		return nil, err
	}
	n, err := container.Render(parent)
	if err != nil {
		return nil, err
	}
	t.container = container

	if err := t.renderComponent(anim.None, false); err != nil {
		t.Unrender()
		return nil, err
	}
	return n, nil
}

// Unrender implements elem.Component.
func (t *Transition) Unrender() {
	if t.container == nil {
		return
	}
	t.animID = anim.Stop(t.animID)
	t.unrenderComponent()
	t.container.Unrender()
	t.container = nil
}

// Set replaces the current component without animation.
func (t *Transition) Set(c elem.Component) {
	if sameComponent(t.current, c) {
		return
	}
	t.current = c
	if t.container == nil {
		return
	}

	t.animID = anim.Stop(t.animID)

	if sameComponent(t.rendered, c) {
		t.contDiv.SetStyle("opacity", "")
		t.contDiv.SetStyle("left", "")
		return
	}
	t.unrenderComponent()
	t.render(anim.None, false)
}

// Fade fades to c.
func (t *Transition) Fade(c elem.Component) { t.setComponent(c, anim.None) }

// SlideLeft slides to c, moving content to the left.
func (t *Transition) SlideLeft(c elem.Component) { t.setComponent(c, anim.Left) }

// SlideRight slides to c, moving content to the right.
func (t *Transition) SlideRight(c elem.Component) { t.setComponent(c, anim.Right) }

func (t *Transition) setComponent(c elem.Component, dir anim.Direction) {
	if sameComponent(t.current, c) {
		return
	}
	t.current = c
	if t.container == nil {
		return
	}

	t.animID = anim.Stop(t.animID)

	// The wanted content is still rendered; swipe it back from where it is.
	if sameComponent(t.rendered, t.current) {
		t.animID = anim.SwipeIn(t.contDiv, dir, t.animOptions(true, func() { t.animID = 0 }))
		return
	}

	if t.rendered == nil {
		t.render(dir, true)
		return
	}

	t.animID = anim.SwipeOut(t.contDiv, dir, t.animOptions(true, func() {
		t.animID = 0
		t.unrenderComponent()
		t.render(dir, true)
	}))
}

func (t *Transition) animOptions(fromCurrent bool, cb func()) *anim.Options {
	return &anim.Options{
		Callback:    cb,
		Duration:    t.opts.Duration,
		Distance:    t.opts.Distance,
		FromCurrent: fromCurrent,
	}
}

// render is renderComponent for callers with no error path.
func (t *Transition) render(dir anim.Direction, animate bool) {
	if err := t.renderComponent(dir, animate); err != nil {
		logger().Warn("widget: transition render failed", "error", err)
	}
}

func (t *Transition) renderComponent(dir anim.Direction, animate bool) error {
	if t.current == nil {
		return nil
	}

	content, err := elem.New(elem.Tag("div", elem.Attr("style", transitionContStyle), elem.Comp(t.current)))
	if err != nil {
		return err
	}
	parent, _ := t.container.Element().(dom.Element)
	n, err := content.Render(parent)
	if err != nil {
		return err
	}

	t.content = content
	t.contDiv = n.(dom.Element)
	t.rendered = t.current

	if animate {
		t.animID = anim.SwipeIn(t.contDiv, dir, t.animOptions(false, func() { t.animID = 0 }))
	}
	return nil
}

func (t *Transition) unrenderComponent() {
	if t.rendered == nil {
		return
	}
	t.content.Unrender()
	t.content = nil
	t.contDiv = nil
	t.rendered = nil
}

// sameComponent reports whether a and b are the same instance or carry the
// same identity.
func sameComponent(a, b elem.Component) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a).Comparable() && a == b {
		return true
	}
	ia, ok := a.(Identifier)
	if !ok {
		return false
	}
	ib, ok := b.(Identifier)
	return ok && ia.ID() == ib.ID()
}
