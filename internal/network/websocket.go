// Package network exposes a WebSocket client to guest code through the
// host-function bridge.
package network

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rove/internal/runtime"
)

// Module is the guest-visible network object.
type Module struct {
	runtime.ScriptableObject

	mu    sync.RWMutex
	conns map[string]*WebSocketConn
}

// WebSocketConn represents a WebSocket connection
type WebSocketConn struct {
	ID         string
	URL        string
	Conn       *websocket.Conn
	mu         sync.Mutex
	closed     bool
	messagesCh chan []byte
}

// New creates an empty network module.
func New() *Module {
	return &Module{conns: make(map[string]*WebSocketConn)}
}

func (m *Module) ClassName() string { return "Network" }

// Connect dials a WebSocket server and returns the connection ID.
func (m *Module) Connect(url string) (string, error) {
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return "", fmt.Errorf("websocket dial failed: %v", err)
	}

	wsConn := &WebSocketConn{
		ID:         uuid.NewString(),
		URL:        url,
		Conn:       conn,
		messagesCh: make(chan []byte, 100),
	}

	go wsConn.readMessages()

	m.mu.Lock()
	m.conns[wsConn.ID] = wsConn
	m.mu.Unlock()

	return wsConn.ID, nil
}

// Send writes a text message on the connection.
func (m *Module) Send(id, message string) (bool, error) {
	conn, err := m.get(id)
	if err != nil {
		return false, err
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.closed {
		return false, fmt.Errorf("websocket connection is closed")
	}
	return true, conn.Conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// Receive waits up to timeoutMs for the next text or binary message.
func (m *Module) Receive(id string, timeoutMs int) (string, error) {
	conn, err := m.get(id)
	if err != nil {
		return "", err
	}

	select {
	case msg := <-conn.messagesCh:
		return string(msg), nil
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return "", fmt.Errorf("receive timeout")
	}
}

// CloseConn closes a connection and forgets its ID.
func (m *Module) CloseConn(id string) (bool, error) {
	m.mu.Lock()
	conn, ok := m.conns[id]
	if ok {
		delete(m.conns, id)
	}
	m.mu.Unlock()

	if !ok {
		return false, fmt.Errorf("websocket connection %s not found", id)
	}

	conn.mu.Lock()
	conn.closed = true
	conn.mu.Unlock()

	conn.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	return true, conn.Conn.Close()
}

func (m *Module) get(id string) (*WebSocketConn, error) {
	m.mu.RLock()
	conn, ok := m.conns[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("websocket connection %s not found", id)
	}
	return conn, nil
}

// openIDs snapshots the open connection IDs.
func (m *Module) openIDs() []runtime.Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]runtime.Value, 0, len(m.conns))
	for id := range m.conns {
		ids = append(ids, id)
	}
	return ids
}

// readMessages continuously reads messages from the WebSocket
func (ws *WebSocketConn) readMessages() {
	defer close(ws.messagesCh)

	for {
		ws.mu.Lock()
		if ws.closed {
			ws.mu.Unlock()
			return
		}
		ws.mu.Unlock()

		messageType, message, err := ws.Conn.ReadMessage()
		if err != nil {
			ws.mu.Lock()
			ws.closed = true
			ws.mu.Unlock()
			return
		}

		if messageType == websocket.TextMessage || messageType == websocket.BinaryMessage {
			select {
			case ws.messagesCh <- message:
			default:
				// Channel full, drop oldest message
				<-ws.messagesCh
				ws.messagesCh <- message
			}
		}
	}
}
