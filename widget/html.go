package widget

import (
	"fmt"

	"github.com/vango-dev/elemkit/anim"
	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/l10n"
)

// Html displays translated markup inside a single element, a div by
// default. The markup is inserted as-is; never pass user content.
type Html struct {
	*elem.RootElem
	html     any
	rendered any
	animID   anim.Handle
}

// NewHtml creates an Html.
func NewHtml(html any, opts *Options) *Html {
	h := &Html{
		RootElem: elem.MustRootElem(opts.tagName("div"), opts.elemOptions()),
		html:     normText(html),
	}
	h.SetContext(h)
	return h
}

// HTML returns the current markup value.
func (h *Html) HTML() any { return h.html }

// SetHtml sets the markup value, fading between the old and new content
// while rendered.
func (h *Html) SetHtml(html any) {
	html = normText(html)
	if l10n.Same(html, h.html) {
		return
	}
	h.html = html
	el := h.Element()
	if el == nil {
		return
	}

	h.animID = anim.Stop(h.animID)

	if l10n.Same(h.rendered, h.html) {
		h.animID = anim.Fade(el, 1, nil)
		return
	}

	h.animID = anim.Fade(el, 0, &anim.Options{Callback: func() {
		el := h.Element()
		if el == nil {
			return
		}
		if err := h.show(el); err != nil {
			logger().Warn("widget: html swap failed", "error", err)
		}
		h.animID = anim.Fade(el, 1, nil)
	}})
}

func (h *Html) show(el dom.Element) error {
	h.rendered = h.html
	return el.SetInnerHTML(l10n.Translate(h.html))
}

// Render implements elem.Component.
func (h *Html) Render(parent dom.Element) (dom.Node, error) {
	n, err := h.RootElem.Render(parent)
	if err != nil {
		return nil, err
	}
	if err := h.show(h.Element()); err != nil {
		h.RootElem.Unrender()
		return nil, fmt.Errorf("html widget: %w: %w", elem.ErrMarkup, err)
	}
	return n, nil
}

// Unrender implements elem.Component.
func (h *Html) Unrender() {
	h.animID = anim.Stop(h.animID)
	h.RootElem.Unrender()
	h.rendered = nil
}
