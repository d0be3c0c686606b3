package widget

import (
	"github.com/vango-dev/elemkit/elem"
)

// Input is an input element, of type text unless opts sets another type.
// The initial value is set both as the value attribute and property.
type Input struct {
	*elem.RootElem
}

// NewInput creates an Input.
func NewInput(value string, opts *Options) *Input {
	eo := opts.elemOptions()
	attrs := map[string]string{"type": "text"}
	for k, v := range eo.Attributes {
		attrs[k] = v
	}
	attrs["value"] = value
	eo.Attributes = attrs
	if eo.Properties == nil {
		eo.Properties = make(map[string]any, 1)
	}
	eo.Properties["value"] = value

	in := &Input{RootElem: elem.MustRootElem("input", eo)}
	in.SetContext(in)
	return in
}

// Value returns the current value, live when rendered.
func (in *Input) Value() string {
	v, _ := in.GetProperty("value").(string)
	return v
}

// SetValue sets the value property.
func (in *Input) SetValue(value string) {
	_ = in.SetProperty("value", value)
}
