package inspect

import (
	"fmt"

	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/internal/errors"
	"github.com/vango-dev/elemkit/l10n"
	"github.com/vango-dev/elemkit/widget"
)

// widgetRef wraps a component built from a spec so ToMap can describe it.
// A ref key in the spec gives it an identity for Transition.
type widgetRef struct {
	elem.Component
	spec map[string]any
}

func (w *widgetRef) Spec() any { return w.spec }

func (w *widgetRef) ID() string { return stringOf(w.spec["ref"]) }

// unwrap returns the widget behind a spec-built component.
func unwrap(c elem.Component) elem.Component {
	if w, ok := c.(*widgetRef); ok {
		return w.Component
	}
	return c
}

// Component implements elem.Resolver. spec is a map with a type key, one
// of txt, button, checkbox, radio, input, textarea, select, html,
// fragment, pair, transition or elem, plus:
//
//	text        txt, button: a string or {t: key, default: text}
//	html        html: markup, or {t: key}
//	checked     checkbox, radio
//	value       input, textarea
//	options     select: list of {value, text}; selected: initial value
//	items       fragment: list of specs
//	key, value  pair: specs
//	component   transition: initial spec
//	root        elem: a node description
//
// and the widget options tagName, className and attributes. Specs with equal
// ref values are the same content to a transition. Button clicks are
// written to the session log.
func (s *Session) Component(spec any) (elem.Component, error) {
	m, ok := toMap(spec)
	if !ok {
		return nil, errors.New("E304").WithDetailf("spec is %T", spec)
	}
	typ := stringOf(m["type"])
	opts := widgetOptions(m)

	var c elem.Component
	switch typ {
	case "txt":
		c = widget.NewTxt(s.text(m["text"]), opts)

	case "button":
		c = widget.NewButton(s.text(m["text"]), func(b *widget.Button, ev dom.Event) {
			s.logf("%s button %q", ev.Type(), l10n.Translate(b.Txt().Text()))
		}, opts)

	case "checkbox":
		c = widget.NewCheckbox(boolOf(m["checked"]), opts)

	case "radio":
		c = widget.NewRadio(boolOf(m["checked"]), opts)

	case "input":
		c = widget.NewInput(stringOf(m["value"]), opts)

	case "textarea":
		c = widget.NewTextarea(stringOf(m["value"]), opts)

	case "select":
		var options []widget.SelectOption
		for _, raw := range listOf(m["options"]) {
			o, _ := toMap(raw)
			options = append(options, widget.SelectOption{
				Value: stringOf(o["value"]),
				Text:  s.text(o["text"]),
			})
		}
		sel := widget.NewSelect(options, &widget.SelectOptions{Options: *opts})
		if v, ok := m["selected"]; ok {
			sel.SetSelected(stringOf(v))
		}
		c = sel

	case "html":
		c = widget.NewHtml(s.text(m["html"]), opts)

	case "fragment":
		var items []elem.Component
		for i, raw := range listOf(m["items"]) {
			item, err := s.Component(raw)
			if err != nil {
				return nil, fmt.Errorf("fragment item %d: %w", i, err)
			}
			items = append(items, item)
		}
		c = widget.NewFragment(items...)

	case "pair":
		key, err := s.Component(m["key"])
		if err != nil {
			return nil, fmt.Errorf("pair key: %w", err)
		}
		value, err := s.Component(m["value"])
		if err != nil {
			return nil, fmt.Errorf("pair value: %w", err)
		}
		c = widget.NewPair(key, value)

	case "transition":
		topts := s.runner.transition
		topts.ClassName = opts.ClassName
		tr := widget.NewTransition(&topts)
		if raw, ok := m["component"]; ok && raw != nil {
			inner, err := s.Component(raw)
			if err != nil {
				return nil, fmt.Errorf("transition component: %w", err)
			}
			tr.Set(inner)
		}
		c = tr

	case "elem":
		root, ok := toMap(m["root"])
		if !ok {
			return nil, errors.New("E304").WithDetail("elem spec needs a root description")
		}
		node, err := elem.FromMap(root, s)
		if err != nil {
			return nil, err
		}
		e, err := elem.New(node)
		if err != nil {
			return nil, err
		}
		e.SetContext(s)
		c = e

	default:
		return nil, errors.New("E304").WithDetailf("type %q", typ)
	}

	return &widgetRef{Component: c, spec: m}, nil
}

// text resolves a widget text value: {t: key, default: text} becomes a
// catalog message, anything else is used as is.
func (s *Session) text(v any) any {
	m, ok := toMap(v)
	if !ok {
		return v
	}
	return s.catalog.Text(stringOf(m["t"]), stringOf(m["default"]))
}

func widgetOptions(m map[string]any) *widget.Options {
	opts := &widget.Options{
		TagName:   stringOf(m["tagName"]),
		ClassName: stringOf(m["className"]),
	}
	if attrs, ok := toMap(m["attributes"]); ok {
		opts.Attributes = make(map[string]string, len(attrs))
		for k, v := range attrs {
			opts.Attributes[k] = stringOf(v)
		}
	}
	return opts
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

func listOf(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	}
	return nil
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}

func boolOf(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}
