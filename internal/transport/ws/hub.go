package ws

import (
	"encoding/json"
	"log"
	"sync"

	"numduel/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgPlayerJoined  MessageType = "player_joined"
	MsgGameStarted   MessageType = "game_started"
	MsgOpponentMoved MessageType = "opponent_moved"
	MsgGameFinished  MessageType = "game_finished"
	MsgError         MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per game. The original web client
// subscribed straight to the hosted database for game updates; the hub
// replaces that with server-pushed events.
type Hub struct {
	// game id -> slot -> connection
	conns map[string]map[model.SlotID]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one player's WebSocket connection
type Connection struct {
	GameID string
	Slot   model.SlotID
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast within a game
type BroadcastMessage struct {
	GameID  string
	Exclude model.SlotID // Empty means deliver to both seats
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[model.SlotID]*Connection),
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
			if h.conns[conn.GameID] == nil {
				h.conns[conn.GameID] = make(map[model.SlotID]*Connection)
			}
			h.conns[conn.GameID][conn.Slot] = conn
			log.Printf("Seat %s connected to game %s", conn.Slot, conn.GameID)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if seats, ok := h.conns[conn.GameID]; ok {
				if existing, ok := seats[conn.Slot]; ok && existing == conn {
					delete(seats, conn.Slot)
					close(conn.Send)
					log.Printf("Seat %s disconnected from game %s", conn.Slot, conn.GameID)
					if len(seats) == 0 {
						delete(h.conns, conn.GameID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			if seats, ok := h.conns[msg.GameID]; ok {
				for slot, conn := range seats {
					if msg.Exclude != "" && slot == msg.Exclude {
						continue
					}
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			}
			h.mu.RUnlock()
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

// BroadcastToGame sends a message to both seats (implements service.Broadcaster)
func (h *Hub) BroadcastToGame(gameID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		GameID: gameID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToOpponent sends a message to the seat opposing slot (implements service.Broadcaster)
func (h *Hub) BroadcastToOpponent(gameID string, slot model.SlotID, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		GameID:  gameID,
		Exclude: slot,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
