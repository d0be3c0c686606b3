package widget

import (
	"strconv"
	"sync/atomic"

	"github.com/vango-dev/elemkit/elem"
)

// Checkbox is an input of type checkbox.
type Checkbox struct {
	*elem.RootElem
}

// NewCheckbox creates a Checkbox with the given initial state.
func NewCheckbox(checked bool, opts *Options) *Checkbox {
	return newCheckInput("checkbox", checked, opts)
}

func newCheckInput(typ string, checked bool, opts *Options) *Checkbox {
	eo := opts.elemOptions()
	if eo.Properties == nil {
		eo.Properties = make(map[string]any, 1)
	}
	eo.Properties["checked"] = checked

	c := &Checkbox{RootElem: elem.MustRootElem("input", eo)}
	c.SetContext(c)
	_ = c.SetAttribute("type", typ)
	return c
}

// IsChecked reports the checked state, live when rendered.
func (c *Checkbox) IsChecked() bool {
	v, _ := c.GetProperty("checked").(bool)
	return v
}

// SetChecked sets the checked state.
func (c *Checkbox) SetChecked(checked bool) {
	_ = c.SetProperty("checked", checked)
}

// Radio is an input of type radio. Radios sharing a name attribute form a
// group in which checking one unchecks the others.
type Radio struct {
	*Checkbox
}

// NewRadio creates a Radio with the given initial state.
func NewRadio(checked bool, opts *Options) *Radio {
	r := &Radio{Checkbox: newCheckInput("radio", checked, opts)}
	r.SetContext(r)
	return r
}

// Radiobutton is the former name of Radio.
//
// Deprecated: Use Radio.
type Radiobutton = Radio

// NewRadiobutton creates a Radio.
//
// Deprecated: Use NewRadio.
func NewRadiobutton(checked bool, opts *Options) *Radio { return NewRadio(checked, opts) }

var radioNames atomic.Uint64

// GenerateName returns a process-unique radio group name.
func GenerateName() string {
	return "comp-radio--name-" + strconv.FormatUint(radioNames.Add(1), 10)
}
