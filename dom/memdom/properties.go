package memdom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/elemkit/dom"
)

// booleanProps are reflected as booleans; reading an unset one falls back to
// the presence of the matching attribute.
var booleanProps = map[string]string{
	"checked":   "checked",
	"disabled":  "disabled",
	"selected":  "selected",
	"hidden":    "hidden",
	"readOnly":  "readonly",
	"required":  "required",
	"multiple":  "multiple",
	"autofocus": "autofocus",
	"open":      "open",
}

// Property implements dom.Element.
func (e *Element) Property(name string) any {
	switch name {
	case "tagName":
		return strings.ToUpper(e.tag)
	case "id":
		v, _ := e.Attribute("id")
		return v
	case "className":
		return e.ClassName()
	case "textContent":
		return e.TextContent()
	case "innerHTML":
		return e.InnerHTML()
	case "value":
		return e.value()
	case "selectedIndex":
		if e.tag == "select" {
			return e.selectedIndex()
		}
	}

	if attrName, ok := booleanProps[name]; ok {
		if v, set := e.props[name]; set {
			return v
		}
		if name == "selected" && e.tag == "option" {
			return e.isSelectedOption()
		}
		return e.HasAttribute(attrName)
	}

	return e.props[name]
}

// SetProperty implements dom.Element.
func (e *Element) SetProperty(name string, value any) {
	switch name {
	case "tagName":
		return
	case "id":
		e.SetAttribute("id", toString(value))
		return
	case "className":
		e.SetClassName(toString(value))
		return
	case "textContent":
		e.SetTextContent(toString(value))
		return
	case "innerHTML":
		_ = e.SetInnerHTML(toString(value))
		return
	case "value":
		e.setValue(toString(value))
		return
	case "selectedIndex":
		if e.tag == "select" {
			e.setSelectedIndex(toInt(value))
			return
		}
	}

	if _, ok := booleanProps[name]; ok {
		b := truthy(value)
		if name == "selected" && e.tag == "option" && b {
			if sel := e.owningSelect(); sel != nil && !truthy(sel.Property("multiple")) {
				for _, o := range sel.options() {
					o.props["selected"] = false
				}
			}
		}
		if name == "checked" && b && e.tag == "input" {
			e.uncheckRadioGroup()
		}
		e.props[name] = b
		return
	}

	e.props[name] = value
}

func (e *Element) value() string {
	switch e.tag {
	case "select":
		if o := e.selectedOption(); o != nil {
			return o.optionValue()
		}
		return ""
	case "option":
		return e.optionValue()
	}
	if v, ok := e.props["value"]; ok {
		return v.(string)
	}
	if e.tag == "textarea" {
		return e.TextContent()
	}
	v, _ := e.Attribute("value")
	return v
}

func (e *Element) setValue(v string) {
	switch e.tag {
	case "select":
		idx := -1
		for i, o := range e.options() {
			if o.optionValue() == v {
				idx = i
				break
			}
		}
		e.setSelectedIndex(idx)
		return
	case "option":
		e.SetAttribute("value", v)
		return
	}
	e.props["value"] = v
}

func (e *Element) optionValue() string {
	if v, ok := e.Attribute("value"); ok {
		return v
	}
	return strings.TrimSpace(e.TextContent())
}

// options returns the option descendants of a select in document order.
func (e *Element) options() []*Element {
	var out []*Element
	e.walk(func(n dom.Node) {
		if el, ok := n.(*Element); ok && el.tag == "option" {
			out = append(out, el)
		}
	})
	return out
}

func (e *Element) owningSelect() *Element {
	for p := e.parent; p != nil; p = p.parent {
		if p.tag == "select" {
			return p
		}
	}
	return nil
}

// selectedOption mirrors browser selectedness: an explicitly selected
// option, else the first option carrying the selected attribute, else the
// first option for a single select.
func (e *Element) selectedOption() *Element {
	opts := e.options()
	for _, o := range opts {
		if v, ok := o.props["selected"]; ok && v == true {
			return o
		}
	}
	explicit := false
	for _, o := range opts {
		if _, ok := o.props["selected"]; ok {
			explicit = true
		}
	}
	for _, o := range opts {
		if _, ok := o.props["selected"]; !ok && o.HasAttribute("selected") {
			return o
		}
	}
	if !explicit && len(opts) > 0 && !truthy(e.Property("multiple")) {
		return opts[0]
	}
	return nil
}

func (e *Element) selectedIndex() int {
	sel := e.selectedOption()
	for i, o := range e.options() {
		if o == sel {
			return i
		}
	}
	return -1
}

func (e *Element) setSelectedIndex(idx int) {
	for i, o := range e.options() {
		o.props["selected"] = i == idx
	}
}

func (e *Element) isSelectedOption() bool {
	sel := e.owningSelect()
	if sel == nil {
		return e.HasAttribute("selected")
	}
	return sel.selectedOption() == e
}

// uncheckRadioGroup clears checked on other radios sharing the name within
// the same detached or attached tree.
func (e *Element) uncheckRadioGroup() {
	if t, _ := e.Attribute("type"); t != "radio" {
		return
	}
	name, ok := e.Attribute("name")
	if !ok || name == "" {
		return
	}
	root := e
	for root.parent != nil {
		root = root.parent
	}
	root.walk(func(n dom.Node) {
		el, ok := n.(*Element)
		if !ok || el == e || el.tag != "input" {
			return
		}
		if t, _ := el.Attribute("type"); t != "radio" {
			return
		}
		if n, _ := el.Attribute("name"); n == name {
			el.props["checked"] = false
		}
	})
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0
		}
		return n
	}
	return -1
}
