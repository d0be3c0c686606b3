package elem

import (
	"fmt"

	"github.com/vango-dev/elemkit/internal/errors"
)

// Resolver supplies the behavior a decoded description cannot carry:
// event callbacks by handler name and components by spec.
type Resolver interface {
	// Callback returns the callback registered under name.
	Callback(name string) (Callback, bool)
	// Component builds the component described by spec, the decoded value
	// of a node's "component" key.
	Component(spec any) (Component, error)
}

// Resolvers is a Resolver assembled from a handler table and a component
// constructor. Either may be nil.
type Resolvers struct {
	Callbacks  map[string]Callback
	Components func(spec any) (Component, error)
}

// Callback implements Resolver.
func (r Resolvers) Callback(name string) (Callback, bool) {
	cb, ok := r.Callbacks[name]
	return cb, ok && cb != nil
}

// Component implements Resolver.
func (r Resolvers) Component(spec any) (Component, error) {
	if r.Components == nil {
		return nil, fmt.Errorf("no component constructor for %v", spec)
	}
	return r.Components(spec)
}

// discriminant keys; exactly one must be present on a decoded node.
var kindKeys = []struct {
	key  string
	kind Kind
}{
	{"tagName", KindTag},
	{"text", KindText},
	{"html", KindHTML},
	{"component", KindComponent},
}

// FromMap decodes a generic description such as the result of unmarshaling
// JSON, YAML or msgpack into a node tree. A node is a map with exactly one
// of the keys tagName, text, html or component, plus optional id and, for
// elements, className (string or list), attributes, properties, style,
// events (event name to handler name) and children. r may be nil when the
// tree has no events and no components.
func FromMap(m map[string]any, r Resolver) (*Node, error) {
	return decodeNode(m, r, "")
}

func decodeNode(m map[string]any, r Resolver, path string) (*Node, error) {
	if m == nil {
		return nil, errors.New("E204").WithDetailf("at %s", pathOrRoot(path))
	}

	n := &Node{}
	found := 0
	for _, k := range kindKeys {
		if _, ok := m[k.key]; ok {
			n.Kind = k.kind
			found++
		}
	}
	if found != 1 {
		return nil, errors.New("E201").WithDetailf("at %s: %d discriminant keys", pathOrRoot(path), found)
	}

	if raw, ok := m["id"]; ok && raw != nil {
		id, ok := raw.(string)
		if !ok {
			return nil, errors.New("E203").WithDetailf("at %s: id is %T", pathOrRoot(path), raw)
		}
		n.ID = id
	}

	switch n.Kind {
	case KindText:
		n.Text = stringOf(m["text"])
		return n, nil

	case KindHTML:
		n.Text = stringOf(m["html"])
		return n, nil

	case KindComponent:
		spec := normalize(m["component"])
		if spec == nil {
			return n, nil
		}
		if r == nil {
			return nil, errors.New("E241").WithDetailf("at %s: no resolver for component", pathOrRoot(path))
		}
		c, err := r.Component(spec)
		if err != nil {
			return nil, errors.New("E241").WithDetailf("at %s", pathOrRoot(path)).Wrap(err)
		}
		n.Component = c
		return n, nil
	}

	tag, ok := m["tagName"].(string)
	if !ok || tag == "" {
		return nil, errors.New("E201").WithDetailf("at %s: tagName must be a non-empty string", pathOrRoot(path))
	}
	n.Tag = tag

	switch cls := normalize(m["className"]).(type) {
	case nil:
	case string:
		n.ClassName = cls
	case []any:
		names := make([]string, 0, len(cls))
		for _, c := range cls {
			names = append(names, stringOf(c))
		}
		n.addClassNames(names...)
	default:
		n.ClassName = stringOf(cls)
	}

	if attrs := mapOf(m["attributes"]); len(attrs) > 0 {
		n.Attributes = make(map[string]string, len(attrs))
		for k, v := range attrs {
			n.Attributes[k] = stringOf(v)
		}
	}
	if props := mapOf(m["properties"]); len(props) > 0 {
		n.Properties = make(map[string]any, len(props))
		for k, v := range props {
			n.Properties[k] = v
		}
	}
	if style := mapOf(m["style"]); len(style) > 0 {
		n.Style = make(map[string]string, len(style))
		for k, v := range style {
			n.Style[k] = stringOf(v)
		}
	}
	// "on" is written by ToMap and only names the bound events.
	if events := mapOf(m["events"]); len(events) > 0 {
		n.Events = make(map[string]Callback, len(events))
		for _, event := range sortedKeys(events) {
			name := stringOf(events[event])
			var cb Callback
			if r != nil {
				cb, _ = r.Callback(name)
			}
			if cb == nil {
				return nil, errors.New("E205").WithDetailf("at %s: %s handler %q", pathOrRoot(path), event, name)
			}
			n.Events[event] = cb
		}
	}

	if raw, ok := normalize(m["children"]).([]any); ok {
		n.Children = make([]*Node, 0, len(raw))
		for i, c := range raw {
			at := fmt.Sprintf("%s/children/%d", path, i)
			cm, ok := c.(map[string]any)
			if !ok && c != nil {
				return nil, errors.New("E201").WithDetailf("at %s: node is %T", at, c)
			}
			child, err := decodeNode(cm, r, at)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}

	return n, nil
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// normalize converts map[any]any values, as produced by some decoders, to
// map[string]any recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[stringOf(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	}
	return v
}

func mapOf(v any) map[string]any {
	m, _ := normalize(v).(map[string]any)
	return m
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// ToMap encodes a node tree into the generic form read by FromMap.
// Components are encoded by a nil spec unless they implement Spec. Bound
// events are listed by event name under "on"; handler names are not
// recoverable, so FromMap ignores that key and the result decodes without
// events.
func ToMap(n *Node) map[string]any {
	if n == nil {
		return nil
	}
	m := make(map[string]any)
	if n.ID != "" {
		m["id"] = n.ID
	}
	switch n.Kind {
	case KindText:
		m["text"] = n.Text
	case KindHTML:
		m["html"] = n.Text
	case KindComponent:
		if s, ok := n.Component.(Spec); ok {
			m["component"] = s.Spec()
		} else {
			m["component"] = nil
		}
	case KindTag:
		m["tagName"] = n.Tag
		if n.ClassName != "" {
			m["className"] = n.ClassName
		}
		if len(n.Attributes) > 0 {
			attrs := make(map[string]any, len(n.Attributes))
			for k, v := range n.Attributes {
				attrs[k] = v
			}
			m["attributes"] = attrs
		}
		if len(n.Properties) > 0 {
			props := make(map[string]any, len(n.Properties))
			for k, v := range n.Properties {
				props[k] = v
			}
			m["properties"] = props
		}
		if len(n.Style) > 0 {
			style := make(map[string]any, len(n.Style))
			for k, v := range n.Style {
				style[k] = v
			}
			m["style"] = style
		}
		if len(n.Events) > 0 {
			events := make([]any, 0, len(n.Events))
			for _, k := range sortedKeys(n.Events) {
				events = append(events, k)
			}
			m["on"] = events
		}
		if len(n.Children) > 0 {
			children := make([]any, 0, len(n.Children))
			for _, c := range n.Children {
				children = append(children, ToMap(c))
			}
			m["children"] = children
		}
	}
	return m
}

// Spec is implemented by components that can describe themselves for
// ToMap.
type Spec interface {
	Spec() any
}
