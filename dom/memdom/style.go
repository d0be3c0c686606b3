package memdom

import (
	"strings"
	"unicode"
)

// Style implements dom.Element. Names may be given in CSS (background-color)
// or script (backgroundColor) form.
func (e *Element) Style(name string) string {
	name = cssName(name)
	for _, d := range e.style {
		if d.name == name {
			return d.value
		}
	}
	return ""
}

// SetStyle implements dom.Element.
func (e *Element) SetStyle(name, value string) {
	name = cssName(name)
	value = strings.TrimSpace(value)
	for i := range e.style {
		if e.style[i].name == name {
			if value == "" {
				e.style = append(e.style[:i], e.style[i+1:]...)
			} else {
				e.style[i].value = value
			}
			e.syncStyleAttr()
			return
		}
	}
	if value != "" {
		e.style = append(e.style, attr{name: name, value: value})
		e.syncStyleAttr()
	}
}

// syncStyleAttr reflects the declarations into the style attribute.
func (e *Element) syncStyleAttr() {
	if len(e.style) == 0 {
		for i := range e.attrs {
			if e.attrs[i].name == "style" {
				e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
				return
			}
		}
		return
	}
	e.setAttr("style", formatStyle(e.style))
}

func parseStyle(s string) []attr {
	var decls []attr
	for _, part := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = cssName(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		replaced := false
		for i := range decls {
			if decls[i].name == name {
				decls[i].value = value
				replaced = true
			}
		}
		if !replaced {
			decls = append(decls, attr{name: name, value: value})
		}
	}
	return decls
}

func formatStyle(decls []attr) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.name)
		b.WriteString(": ")
		b.WriteString(d.value)
		b.WriteByte(';')
	}
	return b.String()
}

// cssName converts backgroundColor to background-color.
func cssName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
