// Package elem renders declarative node trees into live DOM nodes and
// mutates them in place.
//
// # Nodes
//
// A Node is one of four kinds: an element (KindTag), a text node
// (KindText), raw markup (KindHTML) or a wrapped Component (KindComponent).
// Nodes are built with variadic constructors:
//
//	elem.Tag("div", elem.ID("root"), elem.Class("card", "wide"),
//	    elem.Attr("role", "group"),
//	    elem.On("click", onClick),
//	    elem.Tag("h1", "Title"),
//	    elem.Text("hi").WithID("greeting"),
//	)
//
// # Engine
//
// An Elem owns a private copy of a node tree. Render materializes it under a
// container element, top-down. While rendered, mutators (SetAttribute,
// SetNodeProperty, SetNodeChildren, ...) patch the live nodes directly;
// while unrendered they only update the staged description, which the next
// Render applies. There is no diffing: every change is an explicit call.
//
// Unrender removes every listener the Elem bound, snapshots live property,
// style and class values back into the staged tree, unrenders wrapped
// components and detaches the root from its parent.
//
// # Callbacks
//
// Event callbacks receive the Elem's context value and the platform event.
// The context defaults to the *Elem and is replaced with SetContext; RootElem
// sets it to itself and widgets embedding a RootElem set it to the widget.
//
// # Faults
//
// Construction, state, addressing and type faults are returned as errors
// that match the exported Err values with errors.Is.
package elem
