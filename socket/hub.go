package socket

import (
	"context"
	"encoding/json"
	"sync"

	"doctrack/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	DocumentsChangedType = "DOCUMENTS_CHANGED" // A document of the room's user was created, updated or deleted
	ConnectedType        = "CONNECTED"         // Sent once when a socket joins

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	sendBufferSize      = 16
	broadcastBufferSize = 256
)

type WSMessage struct {
	Type    string          `json:"type"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ChangePayload tells a client which document changed. Clients re-fetch the
// full list instead of patching local state.
type ChangePayload struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// Hub fans change events out to every socket of the affected user. One room
// per user id.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client
	mu         sync.Mutex
	done       chan struct{}

	// OnDrop is called when an event cannot be queued. Optional.
	OnDrop func()
}

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string
	Send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		Broadcast:  make(chan WSMessage, broadcastBufferSize),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Publish queues a document change for userID. It never blocks: when the
// broadcast buffer is full the event is dropped.
func (h *Hub) Publish(userID, documentID, action string) {
	payload, err := json.Marshal(ChangePayload{ID: documentID, Action: action})
	if err != nil {
		logger.Sugar.Errorf("Error marshalling change payload: %v", err)
		return
	}
	select {
	case h.Broadcast <- WSMessage{Type: DocumentsChangedType, UserID: userID, Payload: payload}:
	default:
		logger.Sugar.Warnf("Change feed is full, dropping %s event for user %s", action, userID)
		if h.OnDrop != nil {
			h.OnDrop()
		}
	}
}

// Run processes registrations and broadcasts until ctx is done, then closes
// every socket.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.UserID] == nil {
				h.Rooms[client.UserID] = make(map[*Client]bool)
			}
			h.Rooms[client.UserID][client] = true
			h.mu.Unlock()

			hello, _ := json.Marshal(WSMessage{Type: ConnectedType, UserID: client.UserID})
			client.Send <- hello

		case client := <-h.Unregister:
			h.remove(client)

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}

			// Copy the recipients so no lock is held while sending.
			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.Rooms[msg.UserID]))
			for client := range h.Rooms[msg.UserID] {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					// Lagging client; drop it rather than block the hub.
					logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.UserID)
					h.remove(client)
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Connected returns the number of open sockets for userID.
func (h *Hub) Connected(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Rooms[userID])
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Rooms[client.UserID][client]; !ok {
		return
	}
	delete(h.Rooms[client.UserID], client)
	close(client.Send)
	if len(h.Rooms[client.UserID]) == 0 {
		delete(h.Rooms, client.UserID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.Rooms {
		for client := range clients {
			close(client.Send)
		}
		delete(h.Rooms, userID)
	}
}
