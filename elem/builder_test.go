package elem

import (
	"errors"
	"testing"

	"github.com/vango-dev/elemkit/dom"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindTag, "Tag"},
		{KindText, "Text"},
		{KindHTML, "HTML"},
		{KindComponent, "Component"},
		{Kind(0), "Unknown"},
		{Kind(42), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagArgs(t *testing.T) {
	cb := func(any, dom.Event) {}
	c := &fakeComponent{}

	n := Tag("div",
		nil,
		ID("main"),
		Class("a", " ", "b"),
		Class("c"),
		Attr("role", "group"),
		Prop("hidden", true),
		Style("color", "red"),
		On("click", cb),
		On("input", nil),
		"text child",
		Tag("span"),
		[]*Node{Tag("i"), nil, Tag("b")},
		c,
	)

	if n.Kind != KindTag || n.Tag != "div" {
		t.Fatalf("Kind, Tag = %v, %q", n.Kind, n.Tag)
	}
	if n.ID != "main" {
		t.Errorf("ID = %q, want main", n.ID)
	}
	if n.ClassName != "a b c" {
		t.Errorf("ClassName = %q, want %q", n.ClassName, "a b c")
	}
	if n.Attributes["role"] != "group" {
		t.Errorf("Attributes = %v", n.Attributes)
	}
	if n.Properties["hidden"] != true {
		t.Errorf("Properties = %v", n.Properties)
	}
	if n.Style["color"] != "red" {
		t.Errorf("Style = %v", n.Style)
	}
	if len(n.Events) != 1 || n.Events["click"] == nil {
		t.Errorf("Events = %v, want only click", n.Events)
	}

	kinds := []Kind{KindText, KindTag, KindTag, KindTag, KindComponent}
	if len(n.Children) != len(kinds) {
		t.Fatalf("len(Children) = %d, want %d", len(n.Children), len(kinds))
	}
	for i, k := range kinds {
		if n.Children[i].Kind != k {
			t.Errorf("Children[%d].Kind = %v, want %v", i, n.Children[i].Kind, k)
		}
	}
	if n.Children[0].Text != "text child" {
		t.Errorf("text child = %q", n.Children[0].Text)
	}
	if n.Children[4].Component != Component(c) {
		t.Error("component child not wrapped")
	}
}

func TestTagClassSlice(t *testing.T) {
	n := Tag("div", []string{"a", "b"}, Class("c"))
	if n.ClassName != "a b c" {
		t.Errorf("ClassName = %q, want %q", n.ClassName, "a b c")
	}
	if _, err := New(n); err != nil {
		t.Errorf("New() error = %v", err)
	}
}

func TestTagUnsupportedArgument(t *testing.T) {
	tests := []struct {
		name string
		node *Node
	}{
		{"int", Tag("div", 42)},
		{"string map", Tag("div", map[string]string{"title": "x"})},
		{"nested", Tag("div", Tag("span", ID("s"), 3.5))},
		{"deferred", Tag("div", func(Builder) *Node { return Tag("p", true) })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.node); !errors.Is(err, ErrUnknownNodeType) {
				t.Errorf("New() error = %v, want ErrUnknownNodeType", err)
			}
			e := mustNew(t, Tag("div", ID("root")))
			if err := e.SetRootNode(tt.node); !errors.Is(err, ErrUnknownNodeType) {
				t.Errorf("SetRootNode() error = %v, want ErrUnknownNodeType", err)
			}
			if err := e.SetNodeChildren("root", []*Node{tt.node}); !errors.Is(err, ErrUnknownNodeType) {
				t.Errorf("SetNodeChildren() error = %v, want ErrUnknownNodeType", err)
			}
		})
	}
}

func TestTagOptionsNotDefaulted(t *testing.T) {
	n := Tag("p", &Options{ClassName: "x"})
	if n.Attributes != nil || n.Properties != nil || n.Style != nil || n.Events != nil {
		t.Errorf("unset options were defaulted: %+v", n)
	}

	n = Tag("p", Options{
		ClassName:  "x y",
		Attributes: map[string]string{"title": "t"},
		Style:      map[string]string{"width": "1px"},
		Events:     map[string]Callback{"click": nil},
	}, Class("z"))
	if n.ClassName != "x y z" {
		t.Errorf("ClassName = %q, want %q", n.ClassName, "x y z")
	}
	if n.Attributes["title"] != "t" || n.Style["width"] != "1px" {
		t.Errorf("options not applied: %+v", n)
	}
	if n.Events != nil {
		t.Errorf("nil callbacks kept: %v", n.Events)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Tag("div", Attr("a", "1"), Style("s", "1"), Prop("p", 1),
		Tag("span", ID("child"), Attr("b", "2")),
	)
	c := orig.Clone()

	c.Attributes["a"] = "x"
	c.Style["s"] = "x"
	c.Properties["p"] = 2
	c.Children[0].Attributes["b"] = "x"
	c.Children = append(c.Children, Text("extra"))

	if orig.Attributes["a"] != "1" || orig.Style["s"] != "1" || orig.Properties["p"] != 1 {
		t.Error("clone shares maps with original")
	}
	if orig.Children[0].Attributes["b"] != "2" {
		t.Error("clone shares children with original")
	}
	if len(orig.Children) != 1 {
		t.Error("clone shares child slice with original")
	}
	if (*Node)(nil).Clone() != nil {
		t.Error("nil Clone() != nil")
	}
}

func TestPrepareDeferred(t *testing.T) {
	calls := 0
	placeholder := Deferred(func(b Builder) *Node {
		calls++
		return b.Elem("em")
	}).WithID("slot")

	p := Prepare(Tag("div", placeholder))
	if calls != 1 {
		t.Errorf("builder calls = %d, want 1", calls)
	}
	child := p.Children[0]
	if child.Kind != KindTag || child.Tag != "em" {
		t.Errorf("deferred child = %+v", child)
	}
	if child.ID != "slot" {
		t.Errorf("deferred child ID = %q, want placeholder id", child.ID)
	}

	// The builder's own id wins over the placeholder's.
	p = Prepare(Deferred(func(b Builder) *Node { return b.Text("t").WithID("own") }).WithID("slot"))
	if p.ID != "own" {
		t.Errorf("ID = %q, want own", p.ID)
	}

	if Prepare(Deferred(func(Builder) *Node { return nil })) != nil {
		t.Error("nil builder result not propagated")
	}
}

func TestBuilderMethods(t *testing.T) {
	var b Builder
	c := &fakeComponent{}
	tests := []struct {
		name string
		node *Node
		kind Kind
	}{
		{"elem", b.Elem("div"), KindTag},
		{"text", b.Text("t"), KindText},
		{"html", b.HTML("<b></b>"), KindHTML},
		{"component", b.Component(c), KindComponent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.node.Kind, tt.kind)
			}
		})
	}
	if !b.Elem("p").IsTag() || b.Text("x").IsTag() || (*Node)(nil).IsTag() {
		t.Error("IsTag() mismatch")
	}
}
