package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgLeaderboardUpdate MessageType = "leaderboard_update"
	MsgError             MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket subscriptions to leaderboard updates. A client
// subscribed to a quiz also receives global updates.
type Hub struct {
	// quizID -> connections; "" holds global-only subscribers
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	QuizID string // Empty for global-only subscribers
	UserID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	QuizID  string // Empty means every subscriber
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.QuizID] == nil {
				h.conns[conn.QuizID] = make(map[*Connection]bool)
			}
			h.conns[conn.QuizID][conn] = true
			h.mu.Unlock()
			log.Printf("User %s subscribed to leaderboard updates (quiz=%q)", conn.UserID, conn.QuizID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.QuizID]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.conns, conn.QuizID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("User %s unsubscribed from leaderboard updates", conn.UserID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.QuizID == "" {
				for _, conns := range h.conns {
					sendAll(conns, data)
				}
			} else if conns, ok := h.conns[msg.QuizID]; ok {
				sendAll(conns, data)
			}
			h.mu.RUnlock()
		}
	}
}

func sendAll(conns map[*Connection]bool, data []byte) {
	for conn := range conns {
		select {
		case conn.Send <- data:
		default:
			// Drop message if buffer full
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastGlobal sends a message to every subscriber (implements service.Broadcaster)
func (h *Hub) BroadcastGlobal(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToQuiz sends a message to subscribers of one quiz (implements service.Broadcaster)
func (h *Hub) BroadcastToQuiz(quizID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		QuizID: quizID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
