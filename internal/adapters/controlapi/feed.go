package controlapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// diagnosticEvent is the JSON shape broadcast to connected WebSocket
// clients, mirroring ports.DiagnosticSink.Emit's (level, msg, fields...)
// signature.
type diagnosticEvent struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Fields []any  `json:"fields,omitempty"`
}

// Feed broadcasts diagnostic events emitted by the running driver loop to
// every connected WebSocket client, grounded in the teacher's WSManager
// (internal/adapters/web/websocket/ws_manager.go): a connection set guarded
// by a mutex, broadcast-on-write, cleanup-on-disconnect.
type Feed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewFeed constructs an empty Feed.
func NewFeed() *Feed {
	return &Feed{clients: make(map[*websocket.Conn]struct{})}
}

// HandleWebSocket upgrades the request and registers the connection until
// it disconnects.
func (f *Feed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.clients[conn] = struct{}{}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.clients, conn)
		f.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Emit implements ports.DiagnosticSink: it fans the event out to every
// connected client. Each write is synchronous and made while the feed's
// lock is held, so a slow client delays the caller until its write returns.
func (f *Feed) Emit(level, msg string, fields ...any) {
	payload, err := json.Marshal(diagnosticEvent{Level: level, Msg: msg, Fields: fields})
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		_ = conn.WriteMessage(websocket.TextMessage, payload)
	}
}
