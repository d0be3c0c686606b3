package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/inspect"
	"github.com/vango-dev/elemkit/internal/errors"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// MessageSnapshot carries the full session state. It is sent once
	// when a client connects.
	MessageSnapshot MessageType = "snapshot"

	// MessageStep carries the result of a step applied by any client.
	MessageStep MessageType = "step"

	// MessageError reports a message the server could not decode.
	MessageError MessageType = "error"
)

// Message is sent to websocket clients. Text frames carry JSON; clients
// that connect with ?format=msgpack get binary msgpack frames.
type Message struct {
	Type     MessageType         `json:"type" msgpack:"type"`
	Snapshot *inspect.Snapshot   `json:"snapshot,omitempty" msgpack:"snapshot,omitempty"`
	Step     *inspect.StepResult `json:"step,omitempty" msgpack:"step,omitempty"`
	Error    string              `json:"error,omitempty" msgpack:"error,omitempty"`
}

const writeWait = 5 * time.Second

var errMissingOp = errors.New("E300").WithDetail("step has no op")

// entry is an open session and the websocket clients watching it.
type entry struct {
	session *inspect.Session

	mu      sync.Mutex
	clients map[*websocket.Conn]elem.Format
}

func newEntry(s *inspect.Session) *entry {
	return &entry{session: s, clients: make(map[*websocket.Conn]elem.Format)}
}

func (e *entry) clientCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.clients)
}

func (e *entry) add(conn *websocket.Conn, format elem.Format) {
	e.mu.Lock()
	e.clients[conn] = format
	e.mu.Unlock()
}

func (e *entry) remove(conn *websocket.Conn) {
	e.mu.Lock()
	delete(e.clients, conn)
	e.mu.Unlock()
	conn.Close()
}

// send writes msg to one client.
func (e *entry) send(conn *websocket.Conn, msg Message) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	format, ok := e.clients[conn]
	if !ok {
		return nil
	}
	return write(conn, format, msg)
}

// broadcast writes msg to every client, dropping those that fail.
func (e *entry) broadcast(logger *slog.Logger, msg Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for conn, format := range e.clients {
		if err := write(conn, format, msg); err != nil {
			logger.Debug("websocket client dropped", "session", e.session.ID, "error", err)
			delete(e.clients, conn)
			conn.Close()
		}
	}
}

// closeClients sends a close frame to every client and forgets them.
func (e *entry) closeClients() {
	e.mu.Lock()
	defer e.mu.Unlock()
	deadline := time.Now().Add(writeWait)
	for conn := range e.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"), deadline)
		conn.Close()
		delete(e.clients, conn)
	}
}

func write(conn *websocket.Conn, format elem.Format, msg Message) error {
	data, err := elem.Marshal(format, msg)
	if err != nil {
		return err
	}
	kind := websocket.TextMessage
	if format == elem.FormatMsgpack {
		kind = websocket.BinaryMessage
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(kind, data)
}

// handleWebSocket streams a session. The client first receives a snapshot,
// then one step message per applied step. Clients may send steps too: text
// frames are decoded as JSON, binary frames as msgpack.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	format := elem.FormatJSON
	if r.URL.Query().Get("format") == string(elem.FormatMsgpack) {
		format = elem.FormatMsgpack
	}
	conn.SetReadLimit(s.config.MaxBodyBytes)
	e.add(conn, format)
	defer e.remove(conn)

	if err := e.send(conn, Message{Type: MessageSnapshot, Snapshot: e.session.Snapshot()}); err != nil {
		return
	}

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error", "session", e.session.ID, "error", err)
			}
			return
		}

		in := elem.FormatJSON
		if kind == websocket.BinaryMessage {
			in = elem.FormatMsgpack
		}
		var st inspect.Step
		if err := elem.Unmarshal(in, data, &st); err != nil || st.Op == "" {
			if err == nil {
				err = errMissingOp
			}
			if e.send(conn, Message{Type: MessageError, Error: err.Error()}) != nil {
				return
			}
			continue
		}
		// Failures are carried in the broadcast step result.
		_, _ = s.apply(r.Context(), e, st)
	}
}
