package elem

import (
	"log/slog"
	"sync/atomic"
)

// Observer receives engine lifecycle notifications. Implementations must be
// cheap; they run synchronously inside Render, Unrender and the mutators.
type Observer interface {
	NodeRendered(kind Kind)
	NodeUnrendered(kind Kind)
	ListenerBound(event string)
	ListenerRemoved(event string)
}

type observerHolder struct{ Observer }

type nopObserver struct{}

func (nopObserver) NodeRendered(Kind)      {}
func (nopObserver) NodeUnrendered(Kind)    {}
func (nopObserver) ListenerBound(string)   {}
func (nopObserver) ListenerRemoved(string) {}

var (
	currentObserver atomic.Pointer[observerHolder]
	currentLogger   atomic.Pointer[slog.Logger]
)

// SetObserver installs the process-wide engine observer. nil restores the
// no-op observer.
func SetObserver(o Observer) {
	if o == nil {
		currentObserver.Store(nil)
		return
	}
	currentObserver.Store(&observerHolder{o})
}

func observer() Observer {
	if h := currentObserver.Load(); h != nil {
		return h.Observer
	}
	return nopObserver{}
}

// SetLogger sets the logger used for engine diagnostics. nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	currentLogger.Store(l)
}

func logger() *slog.Logger {
	if l := currentLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
