package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Observer message types mirror the streaming event types, plus a
// local error envelope.
const (
	MsgRunStarted      MessageType = "run_started"
	MsgSegmentProgress MessageType = "segment_progress"
	MsgRunCompleted    MessageType = "run_completed"
	MsgRunError        MessageType = "run_error"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket observers of validation runs. Any number of
// reviewers may watch the same run; every observer receives every
// progress event in order.
type Hub struct {
	// runID -> observers
	observers map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
}

// Connection represents one observer's WebSocket connection
type Connection struct {
	RunID      string
	ReviewerID string
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to fan out to a run's observers
type BroadcastMessage struct {
	RunID   string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		observers:  make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.observers[conn.RunID] == nil {
				h.observers[conn.RunID] = make(map[*Connection]bool)
			}
			h.observers[conn.RunID][conn] = true
			log.Printf("Reviewer %s observing run %s", conn.ReviewerID, conn.RunID)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.observers[conn.RunID]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					log.Printf("Reviewer %s stopped observing run %s", conn.ReviewerID, conn.RunID)
				}
				if len(conns) == 0 {
					delete(h.observers, conn.RunID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.observers[msg.RunID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case runID := <-h.disconnect:
			h.mu.Lock()
			for conn := range h.observers[runID] {
				close(conn.Send)
			}
			delete(h.observers, runID)
			h.mu.Unlock()
		}
	}
}

// Register adds an observer connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes an observer connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRun sends a message to all observers of a run (implements service.Broadcaster)
func (h *Hub) BroadcastToRun(runID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		RunID: runID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectRun closes every observer of a finished run (implements service.Broadcaster)
func (h *Hub) DisconnectRun(runID string) {
	h.disconnect <- runID
}
