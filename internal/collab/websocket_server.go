// Package collab - WebSocket hub broadcasting group-edit events to every
// observer attached to an editing session.
package collab

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 8192
	sendBufferSize  = 256
	broadcastBuffer = 1024
)

// Hub maintains connected clients per editing session and broadcasts
// GroupEvent messages between them. Session membership is mutated only
// from Run's goroutine; GetStatistics and broadcastMessage read it under
// mu so callers on other goroutines never touch the map directly.
type Hub struct {
	sessions map[string]map[string]*Client

	broadcast chan *BroadcastMessage

	register   chan *Client
	unregister chan *Client

	sessionMgr *SessionManager

	mu sync.RWMutex
}

// BroadcastMessage is one message queued for delivery to a session's
// clients, optionally excluding the sender.
type BroadcastMessage struct {
	SessionID string
	Message   *Message
	ExcludeID string
}

// NewHub creates a hub bound to sessionMgr.
func NewHub(sessionMgr *SessionManager) *Hub {
	return &Hub{
		broadcast:  make(chan *BroadcastMessage, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sessions:   make(map[string]map[string]*Client),
		sessionMgr: sessionMgr,
	}
}

// Run is the hub's event loop; it must be started as its own goroutine.
func (h *Hub) Run() {
	log.Println("[HUB] starting collaboration hub")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case bm := <-h.broadcast:
			h.broadcastMessage(bm)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.SessionID] == nil {
		h.sessions[client.SessionID] = make(map[string]*Client)
	}
	h.sessions[client.SessionID][client.ID] = client
	client.IsAlive = true
	client.LastHeartbeat = time.Now()

	log.Printf("[HUB] collaborator %s joined session %s (total: %d)",
		client.ID, client.SessionID, len(h.sessions[client.SessionID]))

	h.broadcastCollaboratorJoin(client)
	h.sendSessionState(client)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[client.SessionID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID]; !exists {
		return
	}

	close(client.Send)
	delete(clients, client.ID)
	if len(clients) == 0 {
		delete(h.sessions, client.SessionID)
	}

	log.Printf("[HUB] collaborator %s left session %s (remaining: %d)",
		client.ID, client.SessionID, len(clients))

	h.broadcastCollaboratorLeave(client)
	h.sessionMgr.RemoveCollaborator(client.SessionID, client.ID)
}

func (h *Hub) broadcastMessage(bm *BroadcastMessage) {
	h.mu.RLock()
	clients := h.sessions[bm.SessionID]
	h.mu.RUnlock()

	if clients == nil {
		return
	}

	for id, client := range clients {
		if id == bm.ExcludeID || !client.IsAlive {
			continue
		}
		select {
		case client.Send <- bm.Message:
		default:
			log.Printf("[HUB] client %s send buffer full, closing connection", id)
			h.unregister <- client
		}
	}
}

func (h *Hub) broadcastCollaboratorJoin(newClient *Client) {
	msg := &Message{
		ID:        generateID(),
		Type:      EventCollaboratorJoin,
		SessionID: newClient.SessionID,
		UserID:    newClient.ID,
		Payload:   newClient.Collaborator,
		Timestamp: time.Now().UnixMilli(),
	}

	h.broadcast <- &BroadcastMessage{SessionID: newClient.SessionID, Message: msg, ExcludeID: newClient.ID}
}

func (h *Hub) broadcastCollaboratorLeave(client *Client) {
	msg := &Message{
		ID:        generateID(),
		Type:      EventCollaboratorLeave,
		SessionID: client.SessionID,
		UserID:    client.ID,
		Payload:   map[string]string{"user_id": client.ID},
		Timestamp: time.Now().UnixMilli(),
	}

	h.broadcast <- &BroadcastMessage{SessionID: client.SessionID, Message: msg}
}

// sendSessionState sends the current group/connection state to a newly
// joined client so it can render without waiting for the next edit.
func (h *Hub) sendSessionState(client *Client) {
	session, err := h.sessionMgr.GetSession(client.SessionID)
	if err != nil {
		log.Printf("[HUB] failed to get session state: %v", err)
		return
	}

	msg := &Message{
		ID:        generateID(),
		Type:      EventState,
		SessionID: client.SessionID,
		UserID:    client.ID,
		Payload: SessionInfoResponse{
			Session:     *session,
			Groups:      session.GroupState.Groups(),
			Connections: session.GroupState.Connections(),
		},
		Timestamp: time.Now().UnixMilli(),
	}

	select {
	case client.Send <- msg:
	default:
		log.Printf("[HUB] failed to send session state to client %s", client.ID)
	}
}

// Broadcast queues msg for delivery to every client in sessionID except
// excludeUserID.
func (h *Hub) Broadcast(sessionID string, msg *Message, excludeUserID string) {
	h.broadcast <- &BroadcastMessage{SessionID: sessionID, Message: msg, ExcludeID: excludeUserID}
}

// GetSessionClients returns all clients currently registered for sessionID.
func (h *Hub) GetSessionClients(sessionID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.sessions[sessionID]
	result := make([]*Client, 0, len(clients))
	for _, client := range clients {
		result = append(result, client)
	}
	return result
}

// ReadPump reads messages from the WebSocket connection, applies
// group-edit events against the session manager, and rebroadcasts.
func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.LastHeartbeat = time.Now()
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] read error for client %s: %v", c.ID, err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[WS] failed to parse message from client %s: %v", c.ID, err)
			continue
		}
		if msg.Timestamp == 0 {
			msg.Timestamp = time.Now().UnixMilli()
		}

		c.handleMessage(&msg, hub)
	}
}

// WritePump writes queued messages and periodic pings to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				log.Printf("[WS] write error for client %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage applies a group-edit event to the shared session and
// rebroadcasts it to the rest of the session's clients, or answers a
// heartbeat directly.
func (c *Client) handleMessage(msg *Message, hub *Hub) {
	if c.Collaborator != nil {
		c.Collaborator.LastSeen = time.Now().UnixMilli()
	}

	if msg.Type == EventHeartbeat {
		c.handleHeartbeat()
		return
	}

	session, err := hub.sessionMgr.GetSession(msg.SessionID)
	if err != nil {
		c.sendError(err)
		return
	}

	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		c.sendError(err)
		return
	}
	var ge GroupEvent
	if err := json.Unmarshal(payload, &ge); err != nil {
		c.sendError(err)
		return
	}

	if err := hub.sessionMgr.ApplyEvent(session, c.ID, msg.Type, ge); err != nil {
		c.sendError(err)
		return
	}

	hub.Broadcast(c.SessionID, msg, c.ID)
}

func (c *Client) sendError(err error) {
	msg := &Message{
		ID:        generateID(),
		Type:      EventError,
		SessionID: c.SessionID,
		UserID:    c.ID,
		Payload:   ErrorResponse{Code: "EVENT_FAILED", Message: err.Error()},
		Timestamp: time.Now().UnixMilli(),
	}
	select {
	case c.Send <- msg:
	default:
	}
}

func (c *Client) handleHeartbeat() {
	c.LastHeartbeat = time.Now()

	ack := &Message{
		ID:        generateID(),
		Type:      EventAck,
		SessionID: c.SessionID,
		UserID:    c.ID,
		Payload:   map[string]int64{"timestamp": time.Now().UnixMilli()},
		Timestamp: time.Now().UnixMilli(),
	}
	select {
	case c.Send <- ack:
	default:
	}
}

// GetStatistics counts active sessions and connected collaborators
// on demand; the hub has no need to track a moving rate or latency
// distribution since group edits are synchronous, in-process mutations
// rather than a high-volume annotation stream.
func (h *Hub) GetStatistics() Statistics {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.sessions {
		total += len(clients)
	}
	return Statistics{
		ActiveSessions:     len(h.sessions),
		TotalCollaborators: total,
	}
}
