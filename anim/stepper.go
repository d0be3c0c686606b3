package anim

import (
	"sync"
	"time"

	"github.com/vango-dev/elemkit/dom"
)

// Stepper is an Animator advanced by explicit calls to Advance. It lets an
// event loop (or a test) own the clock. Callbacks run inside Advance and may
// start new animations; those begin at the next Advance.
type Stepper struct {
	mu     sync.Mutex
	next   Handle
	active []*track
}

// track interpolates opacity and offset linearly.
type track struct {
	handle   Handle
	el       dom.Element
	elapsed  time.Duration
	duration time.Duration
	callback func()

	fromOpacity, toOpacity float64
	fromOffset, toOffset   float64
	clearOffset            bool
}

var _ Animator = (*Stepper)(nil)

// NewStepper returns an idle Stepper.
func NewStepper() *Stepper {
	return &Stepper{}
}

// Fade implements Animator.
func (s *Stepper) Fade(el dom.Element, opacity float64, opts *Options) Handle {
	o := opts.orDefault()
	if o.Duration == 0 {
		o.Duration = DefaultFadeDuration
	}
	off := Offset(el)
	return s.start(&track{
		el:          el,
		duration:    o.Duration,
		callback:    o.Callback,
		fromOpacity: Opacity(el),
		toOpacity:   opacity,
		fromOffset:  off,
		toOffset:    off,
	})
}

// SwipeIn implements Animator.
func (s *Stepper) SwipeIn(el dom.Element, dir Direction, opts *Options) Handle {
	o := swipeDefaults(opts)
	t := &track{
		el:          el,
		duration:    o.Duration,
		callback:    o.Callback,
		fromOpacity: 0,
		toOpacity:   1,
		fromOffset:  -float64(dir) * o.Distance,
		clearOffset: true,
	}
	if o.FromCurrent {
		t.fromOpacity = Opacity(el)
		t.fromOffset = Offset(el)
	} else {
		t.apply(0)
	}
	return s.start(t)
}

// SwipeOut implements Animator.
func (s *Stepper) SwipeOut(el dom.Element, dir Direction, opts *Options) Handle {
	o := swipeDefaults(opts)
	t := &track{
		el:          el,
		duration:    o.Duration,
		callback:    o.Callback,
		fromOpacity: 1,
		toOpacity:   0,
		toOffset:    float64(dir) * o.Distance,
	}
	if o.FromCurrent {
		t.fromOpacity = Opacity(el)
		t.fromOffset = Offset(el)
	} else {
		t.apply(0)
	}
	return s.start(t)
}

func swipeDefaults(opts *Options) Options {
	o := opts.orDefault()
	if o.Duration == 0 {
		o.Duration = DefaultSwipeDuration
	}
	if o.Distance == 0 {
		o.Distance = DefaultDistance
	}
	return o
}

func (s *Stepper) start(t *track) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	t.handle = s.next
	s.active = append(s.active, t)
	return t.handle
}

// Stop implements Animator.
func (s *Stepper) Stop(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.active {
		if t.handle == h {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

// Pending returns the number of running animations.
func (s *Stepper) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Running reports whether h is still running.
func (s *Stepper) Running(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.active {
		if t.handle == h {
			return true
		}
	}
	return false
}

// Advance moves every running animation forward by d, applying the
// interpolated state and completing those that reach their duration.
func (s *Stepper) Advance(d time.Duration) {
	s.mu.Lock()
	running := append([]*track(nil), s.active...)
	s.mu.Unlock()

	var done []*track
	for _, t := range running {
		if !s.Running(t.handle) {
			continue
		}
		t.elapsed += d
		if t.elapsed >= t.duration {
			t.finish()
			s.Stop(t.handle)
			done = append(done, t)
			continue
		}
		t.apply(float64(t.elapsed) / float64(t.duration))
	}

	for _, t := range done {
		if t.callback != nil {
			t.callback()
		}
	}
}

// Flush completes every running animation, including those started by
// completion callbacks.
func (s *Stepper) Flush() {
	for s.Pending() > 0 {
		s.Advance(time.Hour)
	}
}

func (t *track) apply(p float64) {
	if t.el == nil {
		return
	}
	setOpacity(t.el, t.fromOpacity+(t.toOpacity-t.fromOpacity)*p)
	setOffset(t.el, t.fromOffset+(t.toOffset-t.fromOffset)*p)
}

func (t *track) finish() {
	if t.el == nil {
		return
	}
	setOpacity(t.el, t.toOpacity)
	if t.clearOffset {
		setOffset(t.el, 0)
		return
	}
	setOffset(t.el, t.toOffset)
}
