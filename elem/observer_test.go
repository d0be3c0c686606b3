package elem

import (
	"testing"

	"github.com/vango-dev/elemkit/dom"
)

type countingObserver struct {
	rendered   map[Kind]int
	unrendered map[Kind]int
	listeners  int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{rendered: map[Kind]int{}, unrendered: map[Kind]int{}}
}

func (o *countingObserver) NodeRendered(k Kind)    { o.rendered[k]++ }
func (o *countingObserver) NodeUnrendered(k Kind)  { o.unrendered[k]++ }
func (o *countingObserver) ListenerBound(string)   { o.listeners++ }
func (o *countingObserver) ListenerRemoved(string) { o.listeners-- }

func TestObserver(t *testing.T) {
	obs := newCountingObserver()
	SetObserver(obs)
	defer SetObserver(nil)

	e := mustNew(t, Tag("div",
		Tag("button", On("click", func(any, dom.Event) {}), "x"),
		HTML("<b></b>"),
		Comp(&fakeComponent{}),
	))
	body := newBody()
	mustRender(t, e, body)

	if obs.rendered[KindTag] != 2 || obs.rendered[KindText] != 1 || obs.rendered[KindHTML] != 1 || obs.rendered[KindComponent] != 1 {
		t.Errorf("rendered = %v", obs.rendered)
	}
	if obs.listeners != 1 {
		t.Errorf("listeners = %d, want 1", obs.listeners)
	}

	e.Unrender()
	for k, v := range obs.rendered {
		if obs.unrendered[k] != v {
			t.Errorf("unrendered[%v] = %d, want %d", k, obs.unrendered[k], v)
		}
	}
	if obs.listeners != 0 {
		t.Errorf("listeners after Unrender = %d, want 0", obs.listeners)
	}
}
