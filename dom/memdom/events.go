package memdom

import (
	"github.com/vango-dev/elemkit/dom"
)

type listener struct {
	event   string
	fn      func(dom.Event)
	removed bool
}

// Event implements dom.Listener.
func (l *listener) Event() string { return l.event }

// AddEventListener implements dom.Element.
func (e *Element) AddEventListener(event string, fn func(dom.Event)) dom.Listener {
	l := &listener{event: event, fn: fn}
	e.listeners = append(e.listeners, l)
	return l
}

// RemoveEventListener implements dom.Element.
func (e *Element) RemoveEventListener(l dom.Listener) {
	ml, ok := l.(*listener)
	if !ok {
		return
	}
	for i, x := range e.listeners {
		if x == ml {
			x.removed = true
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners bound to the element,
// optionally restricted to one event name.
func (e *Element) ListenerCount(event string) int {
	if event == "" {
		return len(e.listeners)
	}
	n := 0
	for _, l := range e.listeners {
		if l.event == event {
			n++
		}
	}
	return n
}

// Event is a memdom event.
type Event struct {
	typ       string
	bubbles   bool
	target    dom.Node
	current   dom.Node
	prevented bool
	stopped   bool
}

var _ dom.Event = (*Event)(nil)

// NewEvent creates an event of the given type.
func NewEvent(typ string, bubbles bool) *Event {
	return &Event{typ: typ, bubbles: bubbles}
}

func (ev *Event) Type() string            { return ev.typ }
func (ev *Event) Target() dom.Node        { return ev.target }
func (ev *Event) CurrentTarget() dom.Node { return ev.current }
func (ev *Event) PreventDefault()         { ev.prevented = true }
func (ev *Event) DefaultPrevented() bool  { return ev.prevented }
func (ev *Event) StopPropagation()        { ev.stopped = true }

// Dispatch fires ev at the element, bubbling to its ancestors when the
// event bubbles. It returns false if a listener prevented the default.
func (e *Element) Dispatch(ev *Event) bool {
	ev.target = e
	for cur := e; cur != nil; cur = cur.parent {
		ev.current = cur
		snapshot := append([]*listener(nil), cur.listeners...)
		for _, l := range snapshot {
			if l.removed || l.event != ev.typ {
				continue
			}
			l.fn(ev)
		}
		if ev.stopped || !ev.bubbles {
			break
		}
	}
	return !ev.prevented
}
