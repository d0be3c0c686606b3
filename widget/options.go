package widget

import (
	"log/slog"
	"maps"

	"github.com/vango-dev/elemkit/elem"
)

// Options configures the root element of a widget. Fields left zero are not
// applied.
type Options struct {
	// TagName overrides the widget's default tag.
	TagName    string
	ClassName  string
	Attributes map[string]string
	Properties map[string]any
	Style      map[string]string
	Events     map[string]elem.Callback
}

func (o *Options) tagName(def string) string {
	if o == nil || o.TagName == "" {
		return def
	}
	return o.TagName
}

// elemOptions copies o into element options. The maps are cloned so later
// changes by the caller do not leak into the widget.
func (o *Options) elemOptions() *elem.Options {
	if o == nil {
		return &elem.Options{}
	}
	return &elem.Options{
		ClassName:  o.ClassName,
		Attributes: maps.Clone(o.Attributes),
		Properties: maps.Clone(o.Properties),
		Style:      maps.Clone(o.Style),
		Events:     maps.Clone(o.Events),
	}
}

var logger = slog.Default

// SetLogger sets the logger used for failures inside animation callbacks,
// which have no caller to return an error to. nil restores slog.Default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger = slog.Default
		return
	}
	logger = func() *slog.Logger { return l }
}
