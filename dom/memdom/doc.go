// Package memdom is an in-memory implementation of the dom interfaces.
//
// It models the parts of a browser DOM the elem engine and the widgets
// touch: elements with ordered attributes, reflected properties with
// browser-style coercion (checked, disabled, value, selectedIndex, ...),
// inline style declarations, class names, text nodes, listener registration
// with bubbling dispatch, and raw markup insertion. Markup is parsed and
// serialized with golang.org/x/net/html.
//
//	doc := memdom.NewDocument()
//	body := doc.Body()
//	btn := doc.CreateElement("button")
//	body.AppendChild(btn)
//	btn.AddEventListener("click", func(ev dom.Event) { ... })
//	btn.(*memdom.Element).Click()
//	fmt.Println(body.OuterHTML()) // <body><button></button></body>
//
// memdom is not safe for concurrent use; like a browser DOM it belongs to
// one event loop.
package memdom
