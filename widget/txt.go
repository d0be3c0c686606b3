package widget

import (
	"github.com/vango-dev/elemkit/anim"
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/l10n"
)

// Txt displays a text value in a single element, a span by default.
type Txt struct {
	*elem.RootElem

	text     any
	rendered any
	el       dom.Element
	animID   anim.Handle
	locale   *localeSubscriber
}

// localeSubscriber adapts a method to l10n.Subscriber.
type localeSubscriber struct{ fn func() }

func (s *localeSubscriber) LocaleUpdated() { s.fn() }

// NewTxt creates a Txt. opts may be nil.
func NewTxt(text any, opts *Options) *Txt {
	t := &Txt{
		RootElem: elem.MustRootElem(opts.tagName("span"), opts.elemOptions()),
		text:     normText(text),
	}
	t.locale = &localeSubscriber{fn: t.refresh}
	t.SetContext(t)
	return t
}

func normText(v any) any {
	if l10n.IsZero(v) {
		return ""
	}
	return v
}

// Text returns the current text value.
func (t *Txt) Text() any { return t.text }

// SetText sets the text value. While rendered the element fades out, swaps
// its text and fades back in. Setting the value that is still displayed
// cancels a pending swap and fades straight back in.
func (t *Txt) SetText(text any) {
	text = normText(text)
	if l10n.Same(text, t.text) {
		return
	}
	t.text = text
	if t.el == nil {
		return
	}

	t.animID = anim.Stop(t.animID)

	if l10n.Same(t.rendered, t.text) {
		t.animID = anim.Fade(t.el, 1, nil)
		return
	}

	t.animID = anim.Fade(t.el, 0, &anim.Options{Callback: func() {
		if t.el == nil {
			return
		}
		t.show(t.text)
		t.animID = anim.Fade(t.el, 1, nil)
	}})
}

// Render implements elem.Component.
func (t *Txt) Render(parent dom.Element) (dom.Node, error) {
	n, err := t.RootElem.Render(parent)
	if err != nil {
		return nil, err
	}
	t.el = t.Element()
	t.show(t.text)
	return n, nil
}

// Unrender implements elem.Component.
func (t *Txt) Unrender() {
	t.animID = anim.Stop(t.animID)
	if t.rendered != nil {
		l10n.OffLocaleUpdate(t.rendered, t.locale)
	}
	t.RootElem.Unrender()
	t.rendered = nil
	t.el = nil
}

// show displays v and moves the locale subscription to it.
func (t *Txt) show(v any) {
	if t.rendered != nil {
		l10n.OffLocaleUpdate(t.rendered, t.locale)
	}
	t.rendered = v
	t.el.SetTextContent(l10n.Translate(v))
	l10n.OnLocaleUpdate(v, t.locale)
}

func (t *Txt) refresh() {
	if t.el != nil {
		t.el.SetTextContent(l10n.Translate(t.rendered))
	}
}
