package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/logger"
)

// WebSocketMessage represents a message sent over WebSocket.
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WebSocketManager handles WebSocket connections.
type WebSocketManager struct {
	sync.RWMutex
	clients       map[string]*websocket.Conn
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	server        *Server
	log           logger.Logger
}

// NewWebSocketManager creates a new WebSocket manager.
func NewWebSocketManager(log logger.Logger, server *Server) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan WebSocketMessage, 100),
		server:        server,
		log:           log,
	}

	// Start broadcast handler
	go manager.handleBroadcasts()

	return manager
}

// Broadcast queues a message for every connected client. Non-blocking: when
// the queue is full the message is dropped, the next layout push supersedes
// it anyway.
func (m *WebSocketManager) Broadcast(msg WebSocketMessage) {
	select {
	case m.broadcastChan <- msg:
	default:
	}
}

// handleBroadcasts processes messages from the broadcast channel.
func (m *WebSocketManager) handleBroadcasts() {
	for msg := range m.broadcastChan {
		m.RLock()
		for id, conn := range m.clients {
			if err := conn.WriteJSON(msg); err != nil {
				m.log.WithField("client", id).WithError(err).Error("failed to send WebSocket message")
				conn.Close()
				// The client handler removes the connection once it
				// detects the close.
			}
		}
		m.RUnlock()
	}
}

// HandleWebSocket upgrades the connection and serves the overlay bridge.
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.WithError(err).Error("failed to upgrade connection to WebSocket")
		return
	}

	id := uuid.NewString()

	m.Lock()
	m.clients[id] = conn
	clientCount := len(m.clients)
	m.Unlock()

	m.log.WithField("client", id).Infof("WebSocket client connected, total: %d", clientCount)

	go m.handleClient(id, conn)
}

// handleClient processes inbound messages from one page.
func (m *WebSocketManager) handleClient(id string, conn *websocket.Conn) {
	defer func() {
		m.Lock()
		delete(m.clients, id)
		remaining := len(m.clients)
		m.Unlock()
		conn.Close()
		m.log.WithField("client", id).Infof("WebSocket client disconnected, remaining: %d", remaining)
	}()

	conn.SetPingHandler(func(string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.WithError(err).Error("WebSocket read error")
			}
			return
		}

		var msg WebSocketMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			m.log.WithError(err).Warn("discarding malformed WebSocket message")
			continue
		}

		m.handleMessage(id, msg)
	}
}

// handleMessage routes one inbound message. The only inbound type today is
// "measure": the page reporting its DOM geometry.
func (m *WebSocketManager) handleMessage(id string, msg WebSocketMessage) {
	switch msg.Type {
	case "measure":
		raw, err := json.Marshal(msg.Payload)
		if err != nil {
			return
		}

		var measurement chart.Measurement
		if err := json.Unmarshal(raw, &measurement); err != nil {
			m.log.WithField("client", id).WithError(err).Warn("discarding malformed measurement")
			return
		}

		m.server.applyMeasurement(measurement)
		m.server.BroadcastLayout()
	default:
		m.log.WithField("client", id).Debugf("ignoring WebSocket message type %q", msg.Type)
	}
}
