package anim

import (
	"github.com/vango-dev/elemkit/dom"
)

// Instant applies the final state of every animation immediately and runs
// the callback before returning. It returns the zero Handle.
type Instant struct{}

var _ Animator = Instant{}

// Fade implements Animator.
func (Instant) Fade(el dom.Element, opacity float64, opts *Options) Handle {
	o := opts.orDefault()
	if el != nil {
		setOpacity(el, opacity)
	}
	if o.Callback != nil {
		o.Callback()
	}
	return 0
}

// SwipeIn implements Animator.
func (Instant) SwipeIn(el dom.Element, _ Direction, opts *Options) Handle {
	o := opts.orDefault()
	if el != nil {
		setOffset(el, 0)
		setOpacity(el, 1)
	}
	if o.Callback != nil {
		o.Callback()
	}
	return 0
}

// SwipeOut implements Animator.
func (Instant) SwipeOut(el dom.Element, dir Direction, opts *Options) Handle {
	o := opts.orDefault()
	if el != nil {
		dist := o.Distance
		if dist == 0 {
			dist = DefaultDistance
		}
		setOffset(el, float64(dir)*dist)
		setOpacity(el, 0)
	}
	if o.Callback != nil {
		o.Callback()
	}
	return 0
}

// Stop implements Animator.
func (Instant) Stop(Handle) {}
