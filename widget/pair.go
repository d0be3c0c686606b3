package widget

import (
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
)

// Pair renders a key component followed by a value component into the same
// parent.
type Pair struct {
	key   elem.Component
	value elem.Component
}

var _ elem.Component = (*Pair)(nil)

// NewPair creates a Pair. Both components must be non-nil.
func NewPair(key, value elem.Component) *Pair {
	return &Pair{key: key, value: value}
}

// Key returns the key component.
func (p *Pair) Key() elem.Component { return p.key }

// Value returns the value component.
func (p *Pair) Value() elem.Component { return p.value }

// Render implements elem.Component. The returned handle is nil.
func (p *Pair) Render(parent dom.Element) (dom.Node, error) {
	if _, err := p.key.Render(parent); err != nil {
		return nil, err
	}
	if _, err := p.value.Render(parent); err != nil {
		p.key.Unrender()
		return nil, err
	}
	return nil, nil
}

// Unrender implements elem.Component.
func (p *Pair) Unrender() {
	p.key.Unrender()
	p.value.Unrender()
}
