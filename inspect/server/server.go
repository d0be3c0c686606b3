package server

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/inspect"
	"github.com/vango-dev/elemkit/instrument"
	"github.com/vango-dev/elemkit/internal/errors"
)

// Config configures the inspector server.
type Config struct {
	// Addr is the listen address (default ":7070").
	Addr string

	// Runner opens sessions and runs scenarios. Default: inspect.NewRunner().
	Runner *inspect.Runner

	// Metrics, when set, instruments requests and counts open sessions.
	Metrics *instrument.Metrics

	// Gatherer backs the metrics endpoint.
	// Default: prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer

	// MetricsPath is where metrics are served. Empty disables the endpoint.
	MetricsPath string

	// Tracing enables the OpenTelemetry middleware.
	Tracing        bool
	TracingOptions []instrument.TracingOption

	// Store, when set, enables POST /sessions/{id}/snapshots.
	Store inspect.Store

	// CheckOrigin validates websocket origins. Default: allow all.
	CheckOrigin func(r *http.Request) bool

	// MaxBodyBytes limits scenario and step bodies (default 1 MiB).
	MaxBodyBytes int64

	// ShutdownTimeout bounds Shutdown (default 10s).
	ShutdownTimeout time.Duration

	Logger *slog.Logger
}

// Server serves inspector sessions over HTTP and websockets.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*entry

	httpServer *http.Server
}

// New creates a Server, filling unset config fields with defaults.
func New(config Config) *Server {
	if config.Addr == "" {
		config.Addr = ":7070"
	}
	if config.Runner == nil {
		config.Runner = inspect.NewRunner()
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if config.CheckOrigin == nil {
		config.CheckOrigin = func(*http.Request) bool { return true }
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = 1 << 20
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		logger:   config.Logger.With("component", "inspect-server"),
		sessions: make(map[string]*entry),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.config.Metrics != nil {
		r.Use(s.config.Metrics.Middleware)
	}
	if s.config.Tracing {
		r.Use(instrument.Tracing(s.config.TracingOptions...))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/run", s.handleRun)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleOpen)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleSnapshot)
			r.Delete("/", s.handleClose)
			r.Post("/steps", s.handleStep)
			r.Get("/ws", s.handleWebSocket)
			if s.config.Store != nil {
				r.Post("/snapshots", s.handleSave)
			}
		})
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "address", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	entries := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()
	for _, e := range entries {
		s.closeEntry(e)
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete", "sessions", len(entries))
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// SessionInfo summarizes an open session.
type SessionInfo struct {
	ID       string `json:"id" yaml:"id" msgpack:"id"`
	Scenario string `json:"scenario" yaml:"scenario" msgpack:"scenario"`
	Clients  int    `json:"clients" yaml:"clients" msgpack:"clients"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	infos := make([]SessionInfo, 0, len(s.sessions))
	for id, e := range s.sessions {
		infos = append(infos, SessionInfo{ID: id, Scenario: e.session.Scenario().Name, Clients: e.clientCount()})
	}
	s.mu.RUnlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	s.respond(w, r, http.StatusOK, infos)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	sc, err := s.readScenario(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.config.Runner.Open(r.Context(), sc)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	e := newEntry(sess)
	s.mu.Lock()
	s.sessions[sess.ID] = e
	s.mu.Unlock()
	if s.config.Metrics != nil {
		s.config.Metrics.SessionOpened()
	}
	s.logger.Info("session opened", "session", sess.ID, "scenario", sc.Name)

	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.respond(w, r, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sc, err := s.readScenario(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.config.Runner.Run(r.Context(), sc)
	if err != nil && snap == nil {
		s.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if err != nil || snap.Failed() {
		status = http.StatusUnprocessableEntity
	}
	s.respond(w, r, status, snap)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, e.session.Snapshot())
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var st inspect.Step
	if err := s.readBody(w, r, &st); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.apply(r.Context(), e, st)
	if err != nil {
		var ee *errors.Error
		if stderrors.As(err, &ee) && ee.Code == "E306" {
			s.fail(w, r, err)
			return
		}
		s.respond(w, r, http.StatusUnprocessableEntity, res)
		return
	}
	s.respond(w, r, http.StatusOK, res)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		s.fail(w, r, notFound(id))
		return
	}
	s.closeEntry(e)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap := e.session.Snapshot()
	name := r.URL.Query().Get("name")
	if name == "" {
		name = snap.Scenario + "-" + snap.Session + ".json"
	}
	if err := s.config.Store.Put(r.Context(), name, snap); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, map[string]string{"name": name})
}

// apply runs a step and streams its result to the session's websocket
// clients.
func (s *Server) apply(ctx context.Context, e *entry, st inspect.Step) (inspect.StepResult, error) {
	res, err := e.session.Apply(ctx, st)
	if res.Op != "" {
		e.broadcast(s.logger, Message{Type: MessageStep, Step: &res})
	}
	return res, err
}

func (s *Server) closeEntry(e *entry) {
	e.session.Close()
	e.closeClients()
	if s.config.Metrics != nil {
		s.config.Metrics.SessionClosed()
	}
	s.logger.Info("session closed", "session", e.session.ID)
}

func (s *Server) lookup(r *http.Request) (*entry, error) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return e, nil
}

func notFound(id string) error {
	return errors.New("E306").WithDetailf("session %q", id)
}

func (s *Server) readScenario(w http.ResponseWriter, r *http.Request) (*inspect.Scenario, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		return nil, errors.New("E300").WithDetail("read body").Wrap(err)
	}
	sc, err := inspect.Parse(requestFormat(r), data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = r.URL.Query().Get("name")
	}
	if sc.Name == "" {
		sc.Name = "scenario"
	}
	return sc, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		return errors.New("E300").WithDetail("read body").Wrap(err)
	}
	if err := elem.Unmarshal(requestFormat(r), data, v); err != nil {
		return errors.New("E300").WithDetail("decode step").Wrap(err)
	}
	return nil
}

// requestFormat picks the body encoding from the Content-Type header.
func requestFormat(r *http.Request) elem.Format {
	return formatOf(r.Header.Get("Content-Type"))
}

// responseFormat honours ?format= and then the Accept header.
func responseFormat(r *http.Request) elem.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		switch elem.Format(f) {
		case elem.FormatYAML, elem.FormatMsgpack:
			return elem.Format(f)
		}
		return elem.FormatJSON
	}
	return formatOf(r.Header.Get("Accept"))
}

func formatOf(header string) elem.Format {
	for _, part := range strings.Split(header, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml":
			return elem.FormatYAML
		case "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
			return elem.FormatMsgpack
		case "application/json":
			return elem.FormatJSON
		}
	}
	return elem.FormatJSON
}

func contentType(f elem.Format) string {
	switch f {
	case elem.FormatYAML:
		return "application/yaml"
	case elem.FormatMsgpack:
		return "application/msgpack"
	}
	return "application/json"
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	format := responseFormat(r)
	data, err := elem.Marshal(format, v)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// ErrorBody is the response for failed requests.
type ErrorBody struct {
	Code   string `json:"code,omitempty" yaml:"code,omitempty" msgpack:"code,omitempty"`
	Error  string `json:"error" yaml:"error" msgpack:"error"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty" msgpack:"detail,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	body := ErrorBody{Error: err.Error()}
	status := http.StatusInternalServerError
	var ee *errors.Error
	if stderrors.As(err, &ee) {
		body.Code = ee.Code
		body.Detail = ee.Detail
		status = statusOf(ee.Code)
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.respond(w, r, status, body)
}

func statusOf(code string) int {
	switch code {
	case "E306", "E220":
		return http.StatusNotFound
	case "E300", "E301", "E302", "E304", "E206":
		return http.StatusBadRequest
	case "E303":
		return http.StatusUnprocessableEntity
	case "E305":
		return http.StatusBadGateway
	}
	if strings.HasPrefix(code, "E2") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
