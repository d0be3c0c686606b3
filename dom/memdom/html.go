package memdom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/elemkit/dom"
)

// InsertHTML implements dom.Element. The markup is parsed in the context of
// the element and appended after its existing children, leaving them
// untouched.
func (e *Element) InsertHTML(markup string) (dom.Node, error) {
	nodes, err := e.parseFragment(markup)
	if err != nil {
		return nil, err
	}
	frag := &Fragment{doc: e.doc, nodes: nodes}
	for _, n := range nodes {
		e.AppendChild(n)
	}
	return frag, nil
}

// SetInnerHTML implements dom.Element.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := e.parseFragment(markup)
	if err != nil {
		return err
	}
	e.Empty()
	for _, n := range nodes {
		e.AppendChild(n)
	}
	return nil
}

// InnerHTML implements dom.Element.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for _, c := range e.children {
		if hn := toHTML(c); hn != nil {
			_ = html.Render(&buf, hn)
		}
	}
	return buf.String()
}

// OuterHTML serializes the element and its descendants.
func (e *Element) OuterHTML() string {
	return OuterHTML(e)
}

// OuterHTML serializes any memdom node. Properties are not serialized,
// only attributes, matching a browser's outerHTML.
func OuterHTML(n dom.Node) string {
	var buf bytes.Buffer
	if f, ok := n.(*Fragment); ok {
		for _, c := range f.nodes {
			buf.WriteString(OuterHTML(c))
		}
		return buf.String()
	}
	if hn := toHTML(n); hn != nil {
		_ = html.Render(&buf, hn)
	}
	return buf.String()
}

func (e *Element) parseFragment(markup string) ([]dom.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     e.tag,
		DataAtom: atom.Lookup([]byte(e.tag)),
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}
	var out []dom.Node
	for _, hn := range parsed {
		if n := e.doc.fromHTML(hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// fromHTML converts a parsed node. Comments and doctypes are dropped.
func (d *Document) fromHTML(hn *html.Node) dom.Node {
	switch hn.Type {
	case html.TextNode:
		return d.CreateTextNode(hn.Data)
	case html.ElementNode:
		el := d.NewElement(hn.Data)
		for _, a := range hn.Attr {
			el.SetAttribute(a.Key, a.Val)
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if n := d.fromHTML(c); n != nil {
				el.AppendChild(n)
			}
		}
		return el
	}
	return nil
}

func toHTML(n dom.Node) *html.Node {
	switch x := n.(type) {
	case *Text:
		return &html.Node{Type: html.TextNode, Data: x.data}
	case *Element:
		hn := &html.Node{
			Type:     html.ElementNode,
			Data:     x.tag,
			DataAtom: atom.Lookup([]byte(x.tag)),
		}
		for _, a := range x.attrs {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.name, Val: a.value})
		}
		for _, c := range x.children {
			if hc := toHTML(c); hc != nil {
				hn.AppendChild(hc)
			}
		}
		return hn
	}
	return nil
}
