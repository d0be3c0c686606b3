package widget

import (
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
)

// SelectOption is one entry of a Select.
type SelectOption struct {
	Value string
	// Text is displayed through l10n.Translate.
	Text any
}

// OptionFactory builds the component rendering one option.
type OptionFactory func(o SelectOption) elem.Component

// SelectOptions configures a Select.
type SelectOptions struct {
	Options
	// OptionFactory defaults to DefaultOptionFactory.
	OptionFactory OptionFactory
}

// DefaultOptionFactory renders an option as a Txt with tag option and the
// value attribute set.
func DefaultOptionFactory(o SelectOption) elem.Component {
	return NewTxt(o.Text, &Options{
		TagName:    "option",
		Attributes: map[string]string{"value": o.Value},
	})
}

// Select is a select element with one child component per option.
type Select struct {
	*elem.RootElem
	options  []SelectOption
	value    string
	selected bool
}

// NewSelect creates a Select. opts may be nil.
func NewSelect(options []SelectOption, opts *SelectOptions) *Select {
	var o *Options
	factory := DefaultOptionFactory
	if opts != nil {
		o = &opts.Options
		if opts.OptionFactory != nil {
			factory = opts.OptionFactory
		}
	}

	children := make([]*elem.Node, 0, len(options))
	for _, opt := range options {
		children = append(children, elem.Comp(factory(opt)))
	}

	s := &Select{
		RootElem: elem.MustRootElem("select", o.elemOptions(), children...),
		options:  append([]SelectOption(nil), options...),
	}
	s.SetContext(s)
	return s
}

// Options returns the options the select was created with.
func (s *Select) Options() []SelectOption {
	return append([]SelectOption(nil), s.options...)
}

// SetSelected selects the option with the given value. While rendered the
// live select is updated; otherwise the selection is applied on Render. A
// value matching no option leaves nothing selected.
func (s *Select) SetSelected(value string) {
	if s.selected && value == s.value {
		return
	}
	s.value = value
	s.selected = true
	if el := s.Element(); el != nil {
		el.SetProperty("value", value)
	}
}

// Selected returns the selected value: the live value while rendered, the
// staged selection otherwise. ok is false when unrendered with no staged
// selection.
func (s *Select) Selected() (value string, ok bool) {
	if el := s.Element(); el != nil {
		v, _ := el.Property("value").(string)
		return v, true
	}
	return s.value, s.selected
}

// Render implements elem.Component.
func (s *Select) Render(parent dom.Element) (dom.Node, error) {
	n, err := s.RootElem.Render(parent)
	if err != nil {
		return nil, err
	}
	if s.selected {
		s.Element().SetProperty("value", s.value)
	}
	return n, nil
}

// Unrender implements elem.Component. The live selection is kept for the
// next Render.
func (s *Select) Unrender() {
	if el := s.Element(); el != nil {
		s.value, _ = el.Property("value").(string)
		s.selected = true
	}
	s.RootElem.Unrender()
}
