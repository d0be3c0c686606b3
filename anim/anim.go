// Package anim animates element opacity and horizontal position.
//
// Animations are driven by an Animator. The package level functions use the
// current default, which is Instant unless replaced with Use. Callbacks run
// on whatever goroutine drives the animator; for Instant that is the caller.
package anim

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vango-dev/elemkit/dom"
)

// Defaults applied when an Options field is zero.
const (
	DefaultFadeDuration  = 200 * time.Millisecond
	DefaultSwipeDuration = 150 * time.Millisecond
	DefaultDistance      = 64.0
)

// Direction is the direction of horizontal movement.
type Direction int

const (
	Left  Direction = -1
	None  Direction = 0
	Right Direction = 1
)

// Handle identifies a running animation. The zero Handle is no animation.
type Handle uint64

// Options configures one animation.
type Options struct {
	// Callback runs once when the animation completes. It does not run when
	// the animation is stopped.
	Callback func()
	Duration time.Duration
	// Distance in pixels for swipes.
	Distance float64
	// FromCurrent starts a swipe from the element's current position and
	// opacity instead of resetting them first.
	FromCurrent bool
}

func (o *Options) orDefault() Options {
	if o == nil {
		return Options{}
	}
	return *o
}

// Animator runs animations on elements.
type Animator interface {
	// Fade animates opacity to the target in [0, 1]. Reaching 1 clears the
	// inline opacity.
	Fade(el dom.Element, opacity float64, opts *Options) Handle
	// SwipeIn moves the element into place while fading it in. It starts
	// Distance pixels against dir unless FromCurrent is set, and clears
	// left and opacity on completion.
	SwipeIn(el dom.Element, dir Direction, opts *Options) Handle
	// SwipeOut moves the element Distance pixels in dir while fading it
	// out.
	SwipeOut(el dom.Element, dir Direction, opts *Options) Handle
	// Stop cancels an animation, leaving the element as it is. Stopping the
	// zero Handle or a finished animation is a no-op.
	Stop(h Handle)
}

type holder struct{ Animator }

var current atomic.Pointer[holder]

// Use installs a as the default animator and returns a function restoring
// the previous one. nil installs Instant.
func Use(a Animator) (restore func()) {
	if a == nil {
		a = Instant{}
	}
	prev := current.Swap(&holder{a})
	return func() { current.Store(prev) }
}

// Default returns the default animator.
func Default() Animator {
	if h := current.Load(); h != nil {
		return h.Animator
	}
	return Instant{}
}

// Fade runs Fade on the default animator.
func Fade(el dom.Element, opacity float64, opts *Options) Handle {
	return Default().Fade(el, opacity, opts)
}

// SwipeIn runs SwipeIn on the default animator.
func SwipeIn(el dom.Element, dir Direction, opts *Options) Handle {
	return Default().SwipeIn(el, dir, opts)
}

// SwipeOut runs SwipeOut on the default animator.
func SwipeOut(el dom.Element, dir Direction, opts *Options) Handle {
	return Default().SwipeOut(el, dir, opts)
}

// Stop stops h on the default animator and returns the zero Handle, so
// callers can write h = anim.Stop(h).
func Stop(h Handle) Handle {
	if h != 0 {
		Default().Stop(h)
	}
	return 0
}

// Opacity reads the inline opacity of el; unset reads as 1.
func Opacity(el dom.Element) float64 {
	if el == nil {
		return 1
	}
	return parseFloat(el.Style("opacity"), 1)
}

// Offset reads the inline left position of el in pixels; unset reads as 0.
func Offset(el dom.Element) float64 {
	if el == nil {
		return 0
	}
	return parseFloat(strings.TrimSuffix(el.Style("left"), "px"), 0)
}

func setOpacity(el dom.Element, v float64) {
	if v >= 1 {
		el.SetStyle("opacity", "")
		return
	}
	if v < 0 {
		v = 0
	}
	el.SetStyle("opacity", strconv.FormatFloat(v, 'f', -1, 64))
}

func setOffset(el dom.Element, px float64) {
	if px == 0 {
		el.SetStyle("left", "")
		return
	}
	el.SetStyle("left", strconv.FormatFloat(px, 'f', -1, 64)+"px")
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
