// Package l10n adapts values that may be localized strings.
//
// Any value can be displayed: a LocaleString is translated, anything else is
// formatted with fmt.Sprint. Values that also implement Notifier announce
// locale changes, which displaying components subscribe to while rendered.
package l10n

import (
	"fmt"
	"reflect"
)

// EventLocaleUpdate is the event a Notifier emits when its translation
// changes.
const EventLocaleUpdate = "localeUpdate"

// LocaleString is a value with a locale dependent representation.
type LocaleString interface {
	Translate() string
}

// Subscriber receives change notifications. Subscribers are compared by
// identity, so implementations should be pointers.
type Subscriber interface {
	LocaleUpdated()
}

// Notifier is implemented by values that announce events.
type Notifier interface {
	On(event string, s Subscriber)
	Off(event string, s Subscriber)
}

// Translate returns the display string of v. nil translates to "".
func Translate(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case LocaleString:
		return t.Translate()
	case string:
		return t
	}
	return fmt.Sprint(v)
}

// OnLocaleUpdate subscribes s to locale updates of v. It is a no-op for
// values that are not a Notifier.
func OnLocaleUpdate(v any, s Subscriber) {
	if n, ok := v.(Notifier); ok {
		n.On(EventLocaleUpdate, s)
	}
}

// OffLocaleUpdate removes a subscription made with OnLocaleUpdate.
func OffLocaleUpdate(v any, s Subscriber) {
	if n, ok := v.(Notifier); ok {
		n.Off(EventLocaleUpdate, s)
	}
}

// Same reports whether a and b are the same display value. Values of
// incomparable types are never the same unless both are nil.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// IsZero reports whether v displays as nothing: nil or the empty string.
func IsZero(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
