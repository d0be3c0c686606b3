package widget

import (
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
)

// Context creates a value when rendered, builds its component from it and
// disposes of the value when unrendered.
type Context[T any] struct {
	create  func() T
	dispose func(T)
	factory func(T) elem.Component

	ctx       T
	active    bool
	component elem.Component
}

// NewContext creates a Context. dispose may be nil.
func NewContext[T any](create func() T, dispose func(T), factory func(T) elem.Component) *Context[T] {
	return &Context[T]{create: create, dispose: dispose, factory: factory}
}

// Context returns the current value and whether the Context is rendered.
func (c *Context[T]) Context() (T, bool) { return c.ctx, c.active }

// Component returns the rendered component, or nil.
func (c *Context[T]) Component() elem.Component { return c.component }

// Render implements elem.Component. A nil component from the factory
// renders nothing; the value is still disposed on Unrender.
func (c *Context[T]) Render(parent dom.Element) (dom.Node, error) {
	if c.active {
		return nil, elem.ErrAlreadyRendered
	}
	c.ctx = c.create()
	c.active = true
	c.component = c.factory(c.ctx)
	if c.component == nil {
		return nil, nil
	}
	n, err := c.component.Render(parent)
	if err != nil {
		c.component = nil
		c.release()
		return nil, err
	}
	return n, nil
}

// Unrender implements elem.Component.
func (c *Context[T]) Unrender() {
	if !c.active {
		return
	}
	if c.component != nil {
		c.component.Unrender()
		c.component = nil
	}
	c.release()
}

func (c *Context[T]) release() {
	if c.dispose != nil {
		c.dispose(c.ctx)
	}
	var zero T
	c.ctx = zero
	c.active = false
}
