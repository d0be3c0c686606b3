package widget

import (
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
)

// Fragment renders a list of components into the same parent without a
// wrapping element. Nil entries are skipped.
type Fragment struct {
	components []elem.Component
}

var _ elem.Component = (*Fragment)(nil)

// NewFragment creates a Fragment.
func NewFragment(components ...elem.Component) *Fragment {
	return &Fragment{components: components}
}

// Components returns the components.
func (f *Fragment) Components() []elem.Component { return f.components }

// Render renders the components in order. If one fails, those already
// rendered are unrendered in reverse order. The returned handle is nil.
func (f *Fragment) Render(parent dom.Element) (dom.Node, error) {
	for i, c := range f.components {
		if c == nil {
			continue
		}
		if _, err := c.Render(parent); err != nil {
			unrenderReverse(f.components[:i])
			return nil, err
		}
	}
	return nil, nil
}

// Unrender unrenders the components in reverse order.
func (f *Fragment) Unrender() {
	unrenderReverse(f.components)
}

func unrenderReverse(cs []elem.Component) {
	for i := len(cs) - 1; i >= 0; i-- {
		if cs[i] != nil {
			cs[i].Unrender()
		}
	}
}
