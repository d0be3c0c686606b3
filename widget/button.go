package widget

import (
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
)

// Button is a button element containing a Txt with id "text".
type Button struct {
	*elem.RootElem
	txt   *Txt
	click func(b *Button, ev dom.Event)
}

// NewButton creates a Button. click may be nil; it receives the button and
// the click event. A click callback in opts.Events is replaced by click.
func NewButton(text any, click func(b *Button, ev dom.Event), opts *Options) *Button {
	txt := NewTxt(text, nil)
	b := &Button{
		RootElem: elem.MustRootElem(opts.tagName("button"), opts.elemOptions(),
			elem.Comp(txt).WithID("text")),
		txt:   txt,
		click: click,
	}
	b.SetContext(b)
	_ = b.SetEvent("click", func(_ any, ev dom.Event) {
		if b.click != nil {
			b.click(b, ev)
		}
	})
	return b
}

// SetText sets the button text.
func (b *Button) SetText(text any) { b.txt.SetText(text) }

// Txt returns the text component.
func (b *Button) Txt() *Txt { return b.txt }

// SetClick replaces the click callback.
func (b *Button) SetClick(click func(b *Button, ev dom.Event)) { b.click = click }
