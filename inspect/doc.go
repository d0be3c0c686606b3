// Package inspect runs scripted scenarios against the element engine.
//
// A scenario is a node description plus a list of steps, stored as JSON,
// YAML or msgpack:
//
//	name: toggle
//	root:
//	  tagName: div
//	  id: root
//	  children:
//	    - tagName: button
//	      id: go
//	      events: {click: log}
//	      children: [{text: Go}]
//	steps:
//	  - {op: click, id: go}
//	  - {op: addClass, id: go, value: done}
//
// The runner renders the tree into an in-memory document, applies each
// step and records a Snapshot: the markup, listener counts and the event
// log after every step. Component nodes take a widget spec such as
// {type: button, text: Go}; see Session.Component.
package inspect
