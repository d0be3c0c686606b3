package widget

import (
	"errors"
	"testing"

	"github.com/vango-dev/elemkit/anim"
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/dom/memdom"
	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/l10n"
)

// probe renders <i>name</i> and logs its lifecycle.
type probe struct {
	name string
	id   string
	log  *[]string
	err  error
	el   dom.Element
}

func (p *probe) Render(parent dom.Element) (dom.Node, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.log != nil {
		*p.log = append(*p.log, "render "+p.name)
	}
	el := parent.OwnerDocument().CreateElement("i")
	el.SetTextContent(p.name)
	parent.AppendChild(el)
	p.el = el
	return el, nil
}

func (p *probe) Unrender() {
	if p.log != nil {
		*p.log = append(*p.log, "unrender "+p.name)
	}
	if p.el != nil {
		p.el.Remove()
		p.el = nil
	}
}

type idProbe struct {
	probe
}

func (p *idProbe) ID() string { return p.id }

func newBody() *memdom.Element {
	return memdom.NewDocument().Body()
}

func render(t *testing.T, c interface {
	Render(dom.Element) (dom.Node, error)
}, parent dom.Element) {
	t.Helper()
	if _, err := c.Render(parent); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

func useStepper(t *testing.T) *anim.Stepper {
	t.Helper()
	s := anim.NewStepper()
	t.Cleanup(anim.Use(s))
	return s
}

func TestTxt(t *testing.T) {
	txt := NewTxt("hello", nil)
	body := newBody()
	render(t, txt, body)

	if got, want := body.InnerHTML(), "<span>hello</span>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}

	txt.SetText("world")
	if got, want := body.InnerHTML(), "<span>world</span>"; got != want {
		t.Errorf("InnerHTML() after SetText = %q, want %q", got, want)
	}

	txt.Unrender()
	txt.SetText(nil)
	if txt.Text() != "" {
		t.Errorf("Text() = %v, want empty", txt.Text())
	}
	render(t, txt, body)
	if got, want := body.InnerHTML(), "<span></span>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestTxtOptions(t *testing.T) {
	var gotCtx any
	txt := NewTxt(42, &Options{
		TagName:    "h1",
		ClassName:  "title",
		Attributes: map[string]string{"title": "t"},
		Events: map[string]elem.Callback{
			"click": func(ctx any, _ dom.Event) { gotCtx = ctx },
		},
	})
	body := newBody()
	render(t, txt, body)

	if got, want := body.InnerHTML(), `<h1 title="t" class="title">42</h1>`; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
	txt.Element().(*memdom.Element).Click()
	if gotCtx != txt {
		t.Errorf("ctx = %v, want the Txt", gotCtx)
	}
}

func TestTxtFade(t *testing.T) {
	s := useStepper(t)
	txt := NewTxt("a", nil)
	body := newBody()
	render(t, txt, body)
	el := txt.Element()

	txt.SetText("b")
	if el.TextContent() != "a" {
		t.Errorf("text swapped before fade out: %q", el.TextContent())
	}
	s.Advance(anim.DefaultFadeDuration)
	if el.TextContent() != "b" {
		t.Errorf("text = %q after fade out, want b", el.TextContent())
	}
	if el.Style("opacity") != "0" {
		t.Errorf("opacity = %q, want 0 before fade in", el.Style("opacity"))
	}
	s.Flush()
	if el.Style("opacity") != "" {
		t.Errorf("opacity = %q, want cleared", el.Style("opacity"))
	}

	// Setting back to the displayed text cancels the swap.
	txt.SetText("c")
	s.Advance(anim.DefaultFadeDuration / 2)
	txt.SetText("b")
	s.Flush()
	if el.TextContent() != "b" {
		t.Errorf("text = %q, want b", el.TextContent())
	}
	if el.Style("opacity") != "" {
		t.Errorf("opacity = %q, want cleared", el.Style("opacity"))
	}

	// Unrendering mid-fade drops the pending swap.
	txt.SetText("d")
	txt.Unrender()
	s.Flush()
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestTxtLocaleUpdates(t *testing.T) {
	cat := l10n.NewCatalog("en")
	cat.Add("en", map[string]string{"hi": "Hello"})
	cat.Add("fr", map[string]string{"hi": "Bonjour"})

	txt := NewTxt(cat.Text("hi", ""), nil)
	body := newBody()
	render(t, txt, body)
	if got := body.TextContent(); got != "Hello" {
		t.Errorf("text = %q, want Hello", got)
	}

	cat.SetLocale("fr")
	if got := body.TextContent(); got != "Bonjour" {
		t.Errorf("text = %q, want Bonjour", got)
	}

	txt.SetText("plain")
	if cat.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after switching to plain text, want 0", cat.Subscribers())
	}

	txt.SetText(cat.Text("hi", ""))
	if cat.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", cat.Subscribers())
	}
	txt.Unrender()
	if cat.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after Unrender, want 0", cat.Subscribers())
	}
}

func TestButton(t *testing.T) {
	var clicked *Button
	var hovered any
	b := NewButton("Go", func(b *Button, ev dom.Event) {
		clicked = b
		if ev.Type() != "click" {
			t.Errorf("event type = %q", ev.Type())
		}
	}, &Options{
		ClassName: "primary",
		Events: map[string]elem.Callback{
			"click":     func(any, dom.Event) { t.Error("option click callback not replaced") },
			"mouseover": func(ctx any, _ dom.Event) { hovered = ctx },
		},
	})
	body := newBody()
	render(t, b, body)

	if got, want := body.InnerHTML(), `<button class="primary"><span>Go</span></button>`; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}

	el := b.Element().(*memdom.Element)
	el.Click()
	if clicked != b {
		t.Error("click callback did not receive the button")
	}
	el.Dispatch(memdom.NewEvent("mouseover", true))
	if hovered != b {
		t.Errorf("ctx = %v, want the button", hovered)
	}

	// Clicking the inner text bubbles to the button.
	clicked = nil
	b.Txt().Element().(*memdom.Element).Click()
	if clicked != b {
		t.Error("click on text did not reach the button")
	}

	b.SetText("Stop")
	if got := el.TextContent(); got != "Stop" {
		t.Errorf("text = %q, want Stop", got)
	}
	if n, err := b.Elem().GetComponent("text"); err != nil || n != b.Txt() {
		t.Errorf("GetComponent(text) = %v, %v", n, err)
	}

	b.SetClick(nil)
	el.Click()

	b.Unrender()
	if body.InnerHTML() != "" || b.Txt().Element() != nil {
		t.Error("button not fully unrendered")
	}
}

func TestCheckbox(t *testing.T) {
	c := NewCheckbox(true, nil)
	if !c.IsChecked() {
		t.Error("IsChecked() = false before render, want true")
	}

	body := newBody()
	render(t, c, body)
	if got, want := body.InnerHTML(), `<input type="checkbox"/>`; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
	if c.Element().Property("checked") != true {
		t.Error("live checked = false, want true")
	}

	c.SetChecked(false)
	if c.IsChecked() || c.Element().Property("checked") != false {
		t.Error("SetChecked(false) not applied")
	}

	c.Element().SetProperty("checked", true)
	c.Unrender()
	if !c.IsChecked() {
		t.Error("live state lost on Unrender")
	}
}

func TestRadioGroup(t *testing.T) {
	name := GenerateName()
	opts := &Options{Attributes: map[string]string{"name": name}}
	a := NewRadio(true, opts)
	b := NewRadio(false, opts)
	form := newBody()
	render(t, a, form)
	render(t, b, form)

	if got, _ := a.Element().Attribute("type"); got != "radio" {
		t.Errorf("type = %q, want radio", got)
	}
	b.SetChecked(true)
	if a.IsChecked() || !b.IsChecked() {
		t.Errorf("checked = %v, %v, want false, true", a.IsChecked(), b.IsChecked())
	}

	var gotCtx any
	_ = a.SetEvent("change", func(ctx any, _ dom.Event) { gotCtx = ctx })
	a.Element().(*memdom.Element).Dispatch(memdom.NewEvent("change", true))
	if gotCtx != a {
		t.Errorf("ctx = %v, want the radio", gotCtx)
	}

	var legacy *Radiobutton = NewRadiobutton(false, nil)
	if legacy.IsChecked() {
		t.Error("Radiobutton checked")
	}
}

func TestGenerateName(t *testing.T) {
	a, b := GenerateName(), GenerateName()
	if a == b {
		t.Errorf("GenerateName() repeated %q", a)
	}
	const prefix = "comp-radio--name-"
	if len(a) <= len(prefix) || a[:len(prefix)] != prefix {
		t.Errorf("GenerateName() = %q, want prefix %q", a, prefix)
	}
}

func TestInput(t *testing.T) {
	in := NewInput("a", nil)
	body := newBody()
	render(t, in, body)

	if got, want := body.InnerHTML(), `<input type="text" value="a"/>`; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
	if in.Value() != "a" {
		t.Errorf("Value() = %q, want a", in.Value())
	}

	in.SetValue("b")
	if got := in.Element().Property("value"); got != "b" {
		t.Errorf("live value = %v, want b", got)
	}

	// A user edit survives unrender.
	in.Element().SetProperty("value", "typed")
	in.Unrender()
	if in.Value() != "typed" {
		t.Errorf("Value() after Unrender = %q, want typed", in.Value())
	}
	render(t, in, body)
	if got := in.Element().Property("value"); got != "typed" {
		t.Errorf("live value after re-render = %v, want typed", got)
	}

	pw := NewInput("x", &Options{Attributes: map[string]string{"type": "password", "value": "ignored"}})
	render(t, pw, body)
	if got, _ := pw.Element().Attribute("type"); got != "password" {
		t.Errorf("type = %q, want password", got)
	}
	if got, _ := pw.Element().Attribute("value"); got != "x" {
		t.Errorf("value attribute = %q, want x", got)
	}
}

func TestTextarea(t *testing.T) {
	ta := NewTextarea("start", nil)
	if ta.Value() != "start" {
		t.Errorf("Value() = %q", ta.Value())
	}
	body := newBody()
	render(t, ta, body)
	if got := ta.Element().Property("value"); got != "start" {
		t.Errorf("live value = %v, want start", got)
	}

	ta.Element().SetProperty("value", "edited")
	if ta.Value() != "edited" {
		t.Errorf("Value() = %q, want edited", ta.Value())
	}
	ta.Unrender()
	ta.Unrender()
	if ta.Value() != "edited" {
		t.Errorf("Value() after Unrender = %q, want edited", ta.Value())
	}

	ta.SetValue("staged")
	render(t, ta, body)
	if got := ta.Element().Property("value"); got != "staged" {
		t.Errorf("live value = %v, want staged", got)
	}
	ta.SetValue("live")
	if got := ta.Element().Property("value"); got != "live" {
		t.Errorf("live value = %v, want live", got)
	}
}

func TestSelect(t *testing.T) {
	s := NewSelect([]SelectOption{
		{Value: "a", Text: "Alpha"},
		{Value: "b", Text: "Beta"},
		{Value: "c", Text: "Gamma"},
	}, &SelectOptions{Options: Options{ClassName: "pick"}})

	if _, ok := s.Selected(); ok {
		t.Error("Selected() ok before any selection")
	}
	s.SetSelected("b")

	body := newBody()
	render(t, s, body)
	want := `<select class="pick"><option value="a">Alpha</option><option value="b">Beta</option><option value="c">Gamma</option></select>`
	if got := body.InnerHTML(); got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
	if v, _ := s.Selected(); v != "b" {
		t.Errorf("Selected() = %q, want b", v)
	}

	s.SetSelected("c")
	if got := s.Element().Property("value"); got != "c" {
		t.Errorf("live value = %v, want c", got)
	}

	s.Element().SetProperty("value", "a")
	s.Unrender()
	if body.InnerHTML() != "" {
		t.Errorf("InnerHTML() after Unrender = %q", body.InnerHTML())
	}
	if v, ok := s.Selected(); !ok || v != "a" {
		t.Errorf("Selected() after Unrender = %q, %v, want a, true", v, ok)
	}

	render(t, s, body)
	if got := s.Element().Property("value"); got != "a" {
		t.Errorf("live value after re-render = %v, want a", got)
	}
	if len(s.Options()) != 3 {
		t.Errorf("Options() = %v", s.Options())
	}
}

func TestSelectOptionFactory(t *testing.T) {
	var made []string
	s := NewSelect([]SelectOption{{Value: "x", Text: "X"}}, &SelectOptions{
		OptionFactory: func(o SelectOption) elem.Component {
			made = append(made, o.Value)
			return NewTxt(o.Text, &Options{TagName: "option", Attributes: map[string]string{"value": o.Value, "data-x": "1"}})
		},
	})
	body := newBody()
	render(t, s, body)
	if len(made) != 1 {
		t.Errorf("factory calls = %d, want 1", len(made))
	}
	if got, want := body.InnerHTML(), `<select><option data-x="1" value="x">X</option></select>`; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestHtml(t *testing.T) {
	h := NewHtml("<b>x</b>", &Options{TagName: "section"})
	body := newBody()
	render(t, h, body)
	if got, want := body.InnerHTML(), "<section><b>x</b></section>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}

	h.SetHtml("<i>y</i>")
	if got, want := body.InnerHTML(), "<section><i>y</i></section>"; got != want {
		t.Errorf("InnerHTML() after SetHtml = %q, want %q", got, want)
	}
	if h.HTML() != "<i>y</i>" {
		t.Errorf("HTML() = %v", h.HTML())
	}

	h.Unrender()
	h.SetHtml("<u>z</u>")
	render(t, h, body)
	if got, want := body.InnerHTML(), "<section><u>z</u></section>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestHtmlFadeCancelledByUnrender(t *testing.T) {
	s := useStepper(t)
	h := NewHtml("a", nil)
	body := newBody()
	render(t, h, body)

	h.SetHtml("b")
	h.Unrender()
	s.Flush()
	if body.InnerHTML() != "" {
		t.Errorf("InnerHTML() = %q, want empty", body.InnerHTML())
	}
}

func TestFragment(t *testing.T) {
	var log []string
	a := &probe{name: "a", log: &log}
	b := &probe{name: "b", log: &log}
	c := &probe{name: "c", log: &log}
	f := NewFragment(a, nil, b, c)
	body := newBody()

	n, err := f.Render(body)
	if err != nil || n != nil {
		t.Fatalf("Render() = %v, %v", n, err)
	}
	if got, want := body.InnerHTML(), "<i>a</i><i>b</i><i>c</i>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}

	log = nil
	f.Unrender()
	want := []string{"unrender c", "unrender b", "unrender a"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
	if len(f.Components()) != 4 {
		t.Errorf("Components() = %d entries, want 4", len(f.Components()))
	}
	NewFragment().Unrender()
}

func TestFragmentRenderFailure(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	f := NewFragment(&probe{name: "a", log: &log}, &probe{name: "b", err: boom})
	body := newBody()

	if _, err := f.Render(body); !errors.Is(err, boom) {
		t.Fatalf("Render() error = %v, want boom", err)
	}
	if body.InnerHTML() != "" {
		t.Errorf("InnerHTML() = %q, want empty", body.InnerHTML())
	}
	if len(log) != 2 || log[1] != "unrender a" {
		t.Errorf("log = %v", log)
	}
}

func TestPair(t *testing.T) {
	var log []string
	k := &probe{name: "k", log: &log}
	v := &probe{name: "v", log: &log}
	p := NewPair(k, v)
	body := newBody()
	render(t, p, body)

	if got, want := body.InnerHTML(), "<i>k</i><i>v</i>"; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
	p.Unrender()
	if body.InnerHTML() != "" {
		t.Errorf("InnerHTML() = %q", body.InnerHTML())
	}
	if p.Key() != k || p.Value() != v {
		t.Error("accessors mismatch")
	}

	bad := NewPair(&probe{name: "k2", log: &log}, &probe{name: "v2", err: errors.New("x")})
	if _, err := bad.Render(body); err == nil {
		t.Error("Render() error = nil")
	}
	if body.InnerHTML() != "" {
		t.Errorf("key left rendered: %q", body.InnerHTML())
	}
}

func TestContext(t *testing.T) {
	type session struct{ n int }
	created, disposed := 0, 0
	var made *probe
	c := NewContext(
		func() *session { created++; return &session{n: created} },
		func(s *session) { disposed++ },
		func(s *session) elem.Component {
			made = &probe{name: "ctx"}
			return made
		},
	)

	if _, ok := c.Context(); ok {
		t.Error("Context() ok before render")
	}
	body := newBody()
	render(t, c, body)
	if s, ok := c.Context(); !ok || s.n != 1 {
		t.Errorf("Context() = %v, %v", s, ok)
	}
	if c.Component() != made {
		t.Error("Component() mismatch")
	}
	if _, err := c.Render(body); err == nil {
		t.Error("second Render() succeeded")
	}

	c.Unrender()
	c.Unrender()
	if created != 1 || disposed != 1 {
		t.Errorf("created, disposed = %d, %d, want 1, 1", created, disposed)
	}
	if c.Component() != nil || body.InnerHTML() != "" {
		t.Error("component not released")
	}
}

func TestContextNilComponent(t *testing.T) {
	disposed := 0
	c := NewContext(func() int { return 7 }, func(int) { disposed++ }, func(int) elem.Component { return nil })
	body := newBody()
	render(t, c, body)
	if v, ok := c.Context(); !ok || v != 7 {
		t.Errorf("Context() = %v, %v", v, ok)
	}
	c.Unrender()
	if disposed != 1 {
		t.Errorf("disposed = %d, want 1", disposed)
	}
}
