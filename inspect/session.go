package inspect

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/elemkit/dom"
	"github.com/vango-dev/elemkit/dom/memdom"
	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/instrument"
	"github.com/vango-dev/elemkit/internal/errors"
	"github.com/vango-dev/elemkit/l10n"
	"github.com/vango-dev/elemkit/widget"
)

// Session is a rendered scenario that steps can be applied to. Its methods
// are safe for concurrent use; steps are applied one at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	runner   *Runner
	scenario *Scenario
	catalog  *l10n.Catalog
	body     *memdom.Element
	elem     *elem.Elem
	log      []string
	steps    []StepResult
	closed   bool
}

var _ elem.Resolver = (*Session)(nil)

// Open decodes the scenario root and renders it into a fresh document.
func (r *Runner) Open(ctx context.Context, sc *Scenario) (*Session, error) {
	_, span := instrument.StartSpan(ctx, r.tracer, "elemkit.open",
		attribute.String("elemkit.scenario", sc.Name))

	locale := sc.Locale
	if locale == "" {
		locale = "en"
	}
	s := &Session{
		ID:       newSessionID(),
		runner:   r,
		scenario: sc,
		catalog:  l10n.NewCatalog(locale),
		body:     memdom.NewDocument().Body(),
	}
	s.catalog.SetLogger(r.logger)
	for loc, msgs := range sc.Messages {
		s.catalog.Add(loc, msgs)
	}

	node, err := elem.FromMap(sc.Root, s)
	if err == nil {
		s.elem, err = elem.New(node)
	}
	if err != nil {
		err = errors.New("E300").WithDetailf("scenario %q root", sc.Name).Wrap(err)
		instrument.EndSpan(span, err)
		return nil, err
	}
	s.elem.SetContext(s)

	if _, err := s.elem.Render(s.body); err != nil {
		instrument.EndSpan(span, err)
		return nil, err
	}
	instrument.EndSpan(span, nil)

	r.logger.Debug("inspect: session opened", "session", s.ID, "scenario", sc.Name)
	return s, nil
}

func newSessionID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Scenario returns the scenario the session was opened with.
func (s *Session) Scenario() *Scenario { return s.scenario }

// Callback implements elem.Resolver. The built-in handlers are log, which
// writes the event to the session log, stop, which also stops propagation,
// and prevent, which also prevents the default.
func (s *Session) Callback(name string) (elem.Callback, bool) {
	switch name {
	case "log":
		return func(_ any, ev dom.Event) { s.logEvent(ev) }, true
	case "stop":
		return func(_ any, ev dom.Event) {
			s.logEvent(ev)
			ev.StopPropagation()
		}, true
	case "prevent":
		return func(_ any, ev dom.Event) {
			s.logEvent(ev)
			ev.PreventDefault()
		}, true
	}
	cb, ok := s.runner.callbacks[name]
	return cb, ok && cb != nil
}

// logf appends to the event log. Callbacks only run inside Apply, which
// holds the lock.
func (s *Session) logf(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

// logEvent logs the event type and the element handling it.
func (s *Session) logEvent(ev dom.Event) {
	n := ev.Target()
	if ct, ok := ev.(interface{ CurrentTarget() dom.Node }); ok {
		n = ct.CurrentTarget()
	}
	s.logf("%s %s", ev.Type(), describe(n))
}

func describe(n dom.Node) string {
	el, ok := n.(dom.Element)
	if !ok {
		return "node"
	}
	tag := strings.ToLower(el.TagName())
	if cls := el.ClassName(); cls != "" {
		tag += "." + strings.ReplaceAll(cls, " ", ".")
	}
	return tag
}

// Apply applies one step and records its result. A failing step is
// recorded too; the error wraps the cause under code E303.
func (s *Session) Apply(ctx context.Context, st Step) (StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return StepResult{}, errors.New("E306").WithDetailf("session %s is closed", s.ID)
	}

	idx := len(s.steps)
	mark := len(s.log)
	_, span := instrument.StartSpan(ctx, s.runner.tracer, "elemkit.step "+st.Op,
		attribute.Int("elemkit.step", idx),
		attribute.String("elemkit.op", st.Op),
		attribute.String("elemkit.id", st.ID),
	)

	err := s.apply(st)
	s.runner.recordStep(st.Op, err)
	if err != nil {
		err = errors.New("E303").WithDetailf("step %d (%s)", idx, st.Op).Wrap(err)
	}
	instrument.EndSpan(span, err)

	res := StepResult{
		Index:        idx,
		Op:           st.Op,
		ID:           st.ID,
		Markup:       s.body.InnerHTML(),
		Listeners:    s.elem.Listeners(),
		DOMListeners: countListeners(s.body),
		Log:          append([]string(nil), s.log[mark:]...),
	}
	if err != nil {
		res.Error = err.Error()
		s.runner.logger.Warn("inspect: step failed", "session", s.ID, "step", idx, "op", st.Op, "error", err)
	} else {
		s.runner.logger.Debug("inspect: step applied", "session", s.ID, "step", idx, "op", st.Op, "id", st.ID)
	}
	s.steps = append(s.steps, res)
	return res, err
}

func (s *Session) apply(st Step) error {
	e := s.elem
	id := st.ID

	switch st.Op {
	case "render":
		_, err := e.Render(s.body)
		return err

	case "unrender":
		e.Unrender()
		return nil

	case "setClassName":
		if id == "" {
			return e.SetClassName(stringOf(st.Value))
		}
		return e.SetNodeClassName(id, stringOf(st.Value))

	case "addClass":
		if id == "" {
			return e.AddClass(stringOf(st.Value))
		}
		return e.AddNodeClass(id, stringOf(st.Value))

	case "removeClass":
		if id == "" {
			return e.RemoveClass(stringOf(st.Value))
		}
		return e.RemoveNodeClass(id, stringOf(st.Value))

	case "setAttribute":
		if id == "" {
			return e.SetAttribute(st.Name, stringOf(st.Value))
		}
		return e.SetNodeAttribute(id, st.Name, stringOf(st.Value))

	case "removeAttribute":
		if id == "" {
			return e.RemoveAttribute(st.Name)
		}
		return e.RemoveNodeAttribute(id, st.Name)

	case "setProperty":
		if id == "" {
			return e.SetProperty(st.Name, st.Value)
		}
		return e.SetNodeProperty(id, st.Name, st.Value)

	case "setStyle":
		if id == "" {
			return e.SetStyle(st.Name, stringOf(st.Value))
		}
		return e.SetNodeStyle(id, st.Name, stringOf(st.Value))

	case "setDisabled":
		if id == "" {
			return e.SetDisabled(boolOf(st.Value))
		}
		return e.SetNodeDisabled(id, boolOf(st.Value))

	case "setEvent":
		name := stringOf(st.Value)
		cb, ok := s.Callback(name)
		if !ok {
			return errors.New("E205").WithDetailf("handler %q", name)
		}
		if id == "" {
			return e.SetEvent(st.Name, cb)
		}
		return e.SetNodeEvent(id, st.Name, cb)

	case "removeEvent":
		if id == "" {
			return e.RemoveEvent(st.Name)
		}
		return e.RemoveNodeEvent(id, st.Name)

	case "setChildren":
		if id == "" && e.Root() != nil {
			id = e.Root().ID
		}
		children := make([]*elem.Node, 0, len(st.Children))
		for _, m := range st.Children {
			n, err := elem.FromMap(m, s)
			if err != nil {
				return err
			}
			children = append(children, n)
		}
		return e.SetNodeChildren(id, children)

	case "setRoot":
		m, ok := toMap(st.Value)
		if !ok {
			return errors.New("E204").WithDetail("setRoot needs a node description")
		}
		n, err := elem.FromMap(m, s)
		if err != nil {
			return err
		}
		return e.SetRootNode(n)

	case "click", "dispatch":
		name := st.Name
		if name == "" {
			if st.Op != "click" {
				return errors.New("E302").WithDetail("dispatch needs an event name")
			}
			name = "click"
		}
		el, err := s.liveElement(id)
		if err != nil {
			return err
		}
		el.Dispatch(memdom.NewEvent(name, true))
		return nil

	case "setLocale":
		s.catalog.SetLocale(stringOf(st.Value))
		return nil

	case "setText", "setValue", "setChecked", "setSelected", "set", "fade", "slideLeft", "slideRight":
		return s.applyWidget(st)
	}

	return errors.New("E302").WithDetailf("op %q", st.Op)
}

func (s *Session) liveElement(id string) (*memdom.Element, error) {
	var n dom.Node
	if id == "" {
		n = s.elem.Element()
	} else {
		var err error
		if n, err = s.elem.GetNode(id); err != nil {
			return nil, err
		}
	}
	el, ok := n.(*memdom.Element)
	if !ok {
		return nil, errors.New("E230").WithDetailf("id %q is not a rendered element", id)
	}
	return el, nil
}

func (s *Session) applyWidget(st Step) error {
	c, err := s.elem.GetComponent(st.ID)
	if err != nil {
		return err
	}
	w := unwrap(c)

	switch st.Op {
	case "setText":
		switch t := w.(type) {
		case *widget.Html:
			t.SetHtml(s.text(st.Value))
			return nil
		case interface{ SetText(any) }:
			t.SetText(s.text(st.Value))
			return nil
		}

	case "setValue":
		if t, ok := w.(interface{ SetValue(string) }); ok {
			t.SetValue(stringOf(st.Value))
			return nil
		}

	case "setChecked":
		if t, ok := w.(interface{ SetChecked(bool) }); ok {
			t.SetChecked(boolOf(st.Value))
			return nil
		}

	case "setSelected":
		if t, ok := w.(*widget.Select); ok {
			t.SetSelected(stringOf(st.Value))
			return nil
		}

	default:
		tr, ok := w.(*widget.Transition)
		if !ok {
			break
		}
		var next elem.Component
		if st.Value != nil {
			if next, err = s.Component(st.Value); err != nil {
				return err
			}
		}
		switch st.Op {
		case "set":
			tr.Set(next)
		case "fade":
			tr.Fade(next)
		case "slideLeft":
			tr.SlideLeft(next)
		case "slideRight":
			tr.SlideRight(next)
		}
		return nil
	}

	return errors.New("E231").WithDetailf("id %q: %T does not support %s", st.ID, w, st.Op)
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Snapshot{
		Scenario:     s.scenario.Name,
		Session:      s.ID,
		Locale:       s.catalog.Locale(),
		Rendered:     s.elem.Rendered(),
		Markup:       s.body.InnerHTML(),
		Listeners:    s.elem.Listeners(),
		DOMListeners: countListeners(s.body),
		Tree:         elem.ToMap(s.elem.Root()),
		Steps:        append([]StepResult(nil), s.steps...),
		Log:          append([]string(nil), s.log...),
	}
}

// Close unrenders the scenario. Later steps fail with E306.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.elem.Unrender()
	s.closed = true
	s.runner.logger.Debug("inspect: session closed", "session", s.ID, "steps", len(s.steps))
}

func countListeners(el *memdom.Element) int {
	n := el.ListenerCount("")
	for _, c := range el.Children() {
		n += countListeners(c)
	}
	return n
}
