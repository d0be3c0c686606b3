package l10n

import (
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog holds translations per locale and tracks the current locale.
// Messages obtained from a Catalog follow its locale and notify their
// subscribers when it changes.
type Catalog struct {
	mu       sync.RWMutex
	locale   string
	fallback string
	messages map[string]map[string]string
	subs     []subscription
	logger   *slog.Logger
}

type subscription struct {
	msg *Message
	sub Subscriber
}

// NewCatalog creates a catalog whose current and fallback locale is locale.
func NewCatalog(locale string) *Catalog {
	return &Catalog{
		locale:   locale,
		fallback: locale,
		messages: make(map[string]map[string]string),
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger used to report missing translations.
func (c *Catalog) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
}

// SetFallback sets the locale consulted when the current locale lacks a key.
func (c *Catalog) SetFallback(locale string) {
	c.mu.Lock()
	c.fallback = locale
	c.mu.Unlock()
}

// Add merges translations for a locale.
func (c *Catalog) Add(locale string, msgs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.messages[locale]
	if m == nil {
		m = make(map[string]string, len(msgs))
		c.messages[locale] = m
	}
	for k, v := range msgs {
		m[k] = v
	}
}

// Load merges translations for a locale from a YAML or JSON document
// mapping keys to strings. Nested mappings are flattened with dots.
func (c *Catalog) Load(locale string, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("l10n: parse %s translations: %w", locale, err)
	}
	flat := make(map[string]string)
	flatten("", raw, flat)
	c.Add(locale, flat)
	return nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

// Locale returns the current locale.
func (c *Catalog) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// SetLocale changes the current locale and notifies the subscribers of
// every message whose translation changed.
func (c *Catalog) SetLocale(locale string) {
	c.mu.Lock()
	if c.locale == locale {
		c.mu.Unlock()
		return
	}
	prev := c.locale
	subs := append([]subscription(nil), c.subs...)
	before := make([]string, len(subs))
	for i, s := range subs {
		before[i] = c.lookup(prev, s.msg)
	}
	c.locale = locale
	after := make([]string, len(subs))
	for i, s := range subs {
		after[i] = c.lookup(locale, s.msg)
	}
	c.mu.Unlock()

	for i, s := range subs {
		if before[i] != after[i] {
			s.sub.LocaleUpdated()
		}
	}
}

// Text returns a message for key, displaying def when no locale has it.
func (c *Catalog) Text(key, def string) *Message {
	return &Message{catalog: c, key: key, def: def}
}

// lookup must be called with c.mu held.
func (c *Catalog) lookup(locale string, m *Message) string {
	if s, ok := c.messages[locale][m.key]; ok {
		return s
	}
	if s, ok := c.messages[c.fallback][m.key]; ok {
		return s
	}
	if m.def == "" {
		c.logger.Debug("l10n: missing translation", "key", m.key, "locale", locale)
	}
	return m.def
}

func (c *Catalog) on(m *Message, s Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, x := range c.subs {
		if x.msg == m && x.sub == s {
			return
		}
	}
	c.subs = append(c.subs, subscription{msg: m, sub: s})
}

func (c *Catalog) off(m *Message, s Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, x := range c.subs {
		if x.msg == m && x.sub == s {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (c *Catalog) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// Message is a catalog backed LocaleString.
type Message struct {
	catalog *Catalog
	key     string
	def     string
}

var (
	_ LocaleString = (*Message)(nil)
	_ Notifier     = (*Message)(nil)
)

// Key returns the translation key.
func (m *Message) Key() string { return m.key }

// Translate implements LocaleString.
func (m *Message) Translate() string {
	c := m.catalog
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookup(c.locale, m)
}

// String implements fmt.Stringer.
func (m *Message) String() string { return m.Translate() }

// On implements Notifier. Only EventLocaleUpdate is emitted.
func (m *Message) On(event string, s Subscriber) {
	if event == EventLocaleUpdate && s != nil {
		m.catalog.on(m, s)
	}
}

// Off implements Notifier.
func (m *Message) Off(event string, s Subscriber) {
	if event == EventLocaleUpdate && s != nil {
		m.catalog.off(m, s)
	}
}
