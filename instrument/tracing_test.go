package instrument

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordedSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordedSpan) SetName(name string) { s.name = name }

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) { s.status = code }

func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }

func (s *recordedSpan) End(...trace.SpanEndOption) { s.ended = true }

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	s.SetAttributes(cfg.Attributes()...)
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return p.tracer }

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

func TestTracingMiddleware(t *testing.T) {
	tp := newRecordingProvider()

	var inHandler trace.Span
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Tracing(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		inHandler = trace.SpanFromContext(r.Context())
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	spans := tp.tracer.spans
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}

	ok := spans[0]
	if inHandler != trace.Span(ok) {
		t.Error("handler did not see the request span")
	}
	if ok.name != "elemkit GET /sessions/{id}" {
		t.Errorf("span name = %q", ok.name)
	}
	if got := ok.attrs["http.target"].AsString(); got != "/sessions/abc" {
		t.Errorf("http.target = %q", got)
	}
	if got := ok.attrs["test.attr"].AsString(); got != "ok" {
		t.Errorf("test.attr = %q", got)
	}
	if ok.attrs["elemkit.request_id"].AsString() == "" {
		t.Error("request id attribute missing")
	}
	if ok.status != codes.Ok || !ok.ended {
		t.Errorf("status = %v, ended = %v", ok.status, ok.ended)
	}

	fail := spans[1]
	if fail.status != codes.Error {
		t.Errorf("status = %v, want Error", fail.status)
	}
	if got := fail.attrs["http.status_code"].AsInt64(); got != 500 {
		t.Errorf("http.status_code = %d, want 500", got)
	}
}

func TestTracingFilter(t *testing.T) {
	tp := newRecordingProvider()
	h := Tracing(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/metrics" }),
	)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if len(tp.tracer.spans) != 0 {
		t.Errorf("filtered request traced: %d spans", len(tp.tracer.spans))
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if len(tp.tracer.spans) != 1 || tp.tracer.spans[0].name != "elemkit GET unmatched" {
		t.Errorf("spans = %+v", tp.tracer.spans)
	}
}

func TestStartEndSpan(t *testing.T) {
	tp := newRecordingProvider()
	tracer := TracingConfig{Provider: tp}.Tracer()

	_, span := StartSpan(context.Background(), tracer, "step", attribute.String("op", "click"))
	EndSpan(span, stderrors.New("boom"))

	s := tp.tracer.spans[0]
	if s.name != "step" || s.attrs["op"].AsString() != "click" {
		t.Errorf("span = %q %v", s.name, s.attrs)
	}
	if s.status != codes.Error || len(s.errs) != 1 || !s.ended {
		t.Errorf("status = %v, errs = %v, ended = %v", s.status, s.errs, s.ended)
	}

	// A nil tracer falls back to the global provider.
	_, span = StartSpan(context.Background(), nil, "noop")
	EndSpan(span, nil)
}
