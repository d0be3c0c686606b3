package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/inspect"
	"github.com/vango-dev/elemkit/instrument"
)

const demo = `{
  "name": "demo",
  "root": {
    "tagName": "div",
    "id": "root",
    "children": [
      {"tagName": "button", "id": "go", "events": {"click": "log"}, "children": [{"text": "Go"}]}
    ]
  },
  "steps": [
    {"op": "click", "id": "go"},
    {"op": "addClass", "id": "go", "value": "on"}
  ]
}`

const demoYAML = `name: demo
root:
  tagName: div
  id: root
  children:
    - tagName: button
      id: go
      children: [{text: Go}]
`

func newTestServer(t *testing.T, config Config) (*Server, *httptest.Server) {
	t.Helper()
	s := New(config)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown(context.Background())
	})
	return s, ts
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func openSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/sessions", "application/json", demo)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /sessions status = %d", resp.StatusCode)
	}
	var snap inspect.Snapshot
	decode(t, resp, &snap)
	if snap.Session == "" {
		t.Fatal("snapshot has no session id")
	}
	if got := resp.Header.Get("Location"); got != "/sessions/"+snap.Session {
		t.Errorf("Location = %q", got)
	}
	return snap.Session
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}

func TestSessionLifecycle(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := openSession(t, ts)
	base := ts.URL + "/sessions/" + id

	resp := do(t, http.MethodGet, base, "", "")
	var snap inspect.Snapshot
	decode(t, resp, &snap)
	if snap.Markup != "<div><button>Go</button></div>" || !snap.Rendered {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Listeners != 1 {
		t.Errorf("Listeners = %d, want 1", snap.Listeners)
	}

	resp = do(t, http.MethodPost, base+"/steps", "application/json", `{"op": "addClass", "id": "go", "value": "on"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST steps status = %d", resp.StatusCode)
	}
	var res inspect.StepResult
	decode(t, resp, &res)
	if res.Markup != `<div><button class="on">Go</button></div>` || res.Index != 0 {
		t.Errorf("step result = %+v", res)
	}

	resp = do(t, http.MethodPost, base+"/steps", "application/yaml", "op: click\nid: go\n")
	decode(t, resp, &res)
	if len(res.Log) != 1 || res.Log[0] != "click button.on" {
		t.Errorf("click log = %q", res.Log)
	}

	resp = do(t, http.MethodGet, ts.URL+"/sessions", "", "")
	var infos []SessionInfo
	decode(t, resp, &infos)
	if len(infos) != 1 || infos[0].ID != id || infos[0].Scenario != "demo" {
		t.Errorf("sessions = %+v", infos)
	}

	resp = do(t, http.MethodDelete, base, "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, base, "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d, want 404", resp.StatusCode)
	}
}

func TestErrors(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := openSession(t, ts)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"unknown session", http.MethodGet, "/sessions/nope", "", "", http.StatusNotFound, "E306"},
		{"close unknown", http.MethodDelete, "/sessions/nope", "", "", http.StatusNotFound, "E306"},
		{"step unknown session", http.MethodPost, "/sessions/nope/steps", "application/json", `{"op":"click"}`, http.StatusNotFound, "E306"},
		{"bad scenario", http.MethodPost, "/sessions", "application/json", `{`, http.StatusBadRequest, "E300"},
		{"missing root", http.MethodPost, "/sessions", "application/json", `{"name":"x"}`, http.StatusBadRequest, "E300"},
		{"bad step body", http.MethodPost, "/sessions/" + id + "/steps", "application/json", `[`, http.StatusBadRequest, "E300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, tt.contentType, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body ErrorBody
			decode(t, resp, &body)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func TestStepFailure(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := openSession(t, ts)

	resp := do(t, http.MethodPost, ts.URL+"/sessions/"+id+"/steps", "application/json", `{"op": "explode"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	var res inspect.StepResult
	decode(t, resp, &res)
	if !strings.Contains(res.Error, "E303") || res.Op != "explode" {
		t.Errorf("result = %+v", res)
	}
}

func TestRun(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/run", "application/json", demo)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var snap inspect.Snapshot
	decode(t, resp, &snap)
	if snap.Markup != `<div><button class="on">Go</button></div>` || len(snap.Steps) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Log) != 1 || snap.Log[0] != "click button" {
		t.Errorf("Log = %q", snap.Log)
	}

	failing := strings.Replace(demo, `"addClass"`, `"nope"`, 1)
	resp = do(t, http.MethodPost, ts.URL+"/run", "application/json", failing)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("failing run status = %d, want 422", resp.StatusCode)
	}
}

func TestResponseFormats(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/sessions?format=msgpack", "application/yaml", demoYAML)
	if ct := resp.Header.Get("Content-Type"); ct != "application/msgpack" {
		t.Fatalf("Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	var snap inspect.Snapshot
	if err := elem.Unmarshal(elem.FormatMsgpack, data, &snap); err != nil {
		t.Fatalf("msgpack decode: %v", err)
	}
	if snap.Markup != "<div><button>Go</button></div>" {
		t.Errorf("Markup = %q", snap.Markup)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/sessions/"+snap.Session, nil)
	req.Header.Set("Accept", "application/yaml")
	yresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer yresp.Body.Close()
	body, _ := io.ReadAll(yresp.Body)
	if yresp.Header.Get("Content-Type") != "application/yaml" || !bytes.Contains(body, []byte("scenario: demo")) {
		t.Errorf("yaml response = %q", body)
	}
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func readMessage(t *testing.T, conn *websocket.Conn, format elem.Format) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg Message
	if err := elem.Unmarshal(format, data, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	return msg
}

func TestWebSocketStream(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := openSession(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/sessions/"+id+"/ws"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	msg := readMessage(t, conn, elem.FormatJSON)
	if msg.Type != MessageSnapshot || msg.Snapshot == nil || msg.Snapshot.Session != id {
		t.Fatalf("first message = %+v", msg)
	}

	// Steps applied over HTTP are streamed.
	do(t, http.MethodPost, ts.URL+"/sessions/"+id+"/steps", "application/json", `{"op":"addClass","id":"go","value":"on"}`)
	msg = readMessage(t, conn, elem.FormatJSON)
	if msg.Type != MessageStep || msg.Step == nil || msg.Step.Op != "addClass" {
		t.Fatalf("step message = %+v", msg)
	}

	// So are steps sent over the socket.
	if err := conn.WriteJSON(inspect.Step{Op: "click", ID: "go"}); err != nil {
		t.Fatal(err)
	}
	msg = readMessage(t, conn, elem.FormatJSON)
	if msg.Type != MessageStep || msg.Step.Index != 1 || len(msg.Step.Log) != 1 {
		t.Fatalf("click message = %+v", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"go"}`)); err != nil {
		t.Fatal(err)
	}
	msg = readMessage(t, conn, elem.FormatJSON)
	if msg.Type != MessageError || !strings.Contains(msg.Error, "E300") {
		t.Fatalf("error message = %+v", msg)
	}

	do(t, http.MethodDelete, ts.URL+"/sessions/"+id, "", "")
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("after DELETE err = %v, want normal close", err)
	}
}

func TestWebSocketMsgpack(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := openSession(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/sessions/"+id+"/ws?format=msgpack"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	msg := readMessage(t, conn, elem.FormatMsgpack)
	if msg.Type != MessageSnapshot || msg.Snapshot.Markup != "<div><button>Go</button></div>" {
		t.Fatalf("snapshot = %+v", msg)
	}

	data, err := elem.Marshal(elem.FormatMsgpack, inspect.Step{Op: "setAttribute", ID: "go", Name: "title", Value: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatal(err)
	}
	msg = readMessage(t, conn, elem.FormatMsgpack)
	if msg.Step == nil || msg.Step.Markup != `<div><button title="x">Go</button></div>` {
		t.Errorf("step = %+v", msg.Step)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "/sessions/nope/ws"), nil)
	if err == nil {
		t.Fatal("Dial succeeded for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(instrument.WithRegistry(reg))
	_, ts := newTestServer(t, Config{
		Runner:      inspect.NewRunner(inspect.WithRecorder(metrics)),
		Metrics:     metrics,
		Gatherer:    reg,
		MetricsPath: "/metrics",
	})

	id := openSession(t, ts)
	do(t, http.MethodPost, ts.URL+"/sessions/"+id+"/steps", "application/json", `{"op":"click","id":"go"}`)

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		"elemkit_active_sessions 1",
		`elemkit_scenario_steps_total{op="click",status="success"} 1`,
		`elemkit_http_requests_total{method="POST",route="/sessions/{id}/steps",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}

	do(t, http.MethodDelete, ts.URL+"/sessions/"+id, "", "")
	resp = do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "elemkit_active_sessions 0") {
		t.Error("active sessions not decremented")
	}
}

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := inspect.NewFSStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, ts := newTestServer(t, Config{Store: store})
	id := openSession(t, ts)

	resp := do(t, http.MethodPost, ts.URL+"/sessions/"+id+"/snapshots?name=demo.yaml", "", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, err := os.ReadFile(filepath.Join(dir, "demo.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("session: "+id)) {
		t.Errorf("saved snapshot = %s", data)
	}
}

func TestSaveWithoutStore(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	id := openSession(t, ts)
	resp := do(t, http.MethodPost, ts.URL+"/sessions/"+id+"/snapshots", "", "")
	if resp.StatusCode != http.StatusMethodNotAllowed && resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 or 405", resp.StatusCode)
	}
}
