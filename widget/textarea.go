package widget

import (
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
)

// Textarea is a textarea element. While rendered its value lives in the
// element; Unrender keeps the last value for the next Render.
type Textarea struct {
	*elem.RootElem
	value string
}

// NewTextarea creates a Textarea.
func NewTextarea(value string, opts *Options) *Textarea {
	t := &Textarea{
		RootElem: elem.MustRootElem("textarea", opts.elemOptions()),
		value:    value,
	}
	t.SetContext(t)
	return t
}

// Value returns the current value.
func (t *Textarea) Value() string {
	if el := t.Element(); el != nil {
		v, _ := el.Property("value").(string)
		return v
	}
	return t.value
}

// SetValue sets the value.
func (t *Textarea) SetValue(value string) {
	if el := t.Element(); el != nil {
		el.SetProperty("value", value)
		return
	}
	t.value = value
}

// Render implements elem.Component.
func (t *Textarea) Render(parent dom.Element) (dom.Node, error) {
	n, err := t.RootElem.Render(parent)
	if err != nil {
		return nil, err
	}
	t.Element().SetProperty("value", t.value)
	return n, nil
}

// Unrender implements elem.Component.
func (t *Textarea) Unrender() {
	if el := t.Element(); el != nil {
		t.value, _ = el.Property("value").(string)
		t.RootElem.Unrender()
	}
}
