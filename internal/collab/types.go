// Package collab broadcasts edits to a shared groups.Session over
// WebSocket to every observer attached to the same editing session.
package collab

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/TheDaniel418/isopgem-cores/internal/groups"
)

// EventType identifies the kind of payload carried by a Message.
type EventType string

const (
	// Group-edit events, one per groups.Session mutator.
	EventSelect       EventType = "select"
	EventClear        EventType = "clear"
	EventSelectLayer  EventType = "select_by_layer"
	EventConnect      EventType = "connect"
	EventClosePolygon EventType = "close_polygon"
	EventSetOp        EventType = "set_op"
	EventSetColor     EventType = "set_color"
	EventSetActive    EventType = "set_active"

	// Presence and control events.
	EventCollaboratorJoin  EventType = "collaborator_join"
	EventCollaboratorLeave EventType = "collaborator_leave"
	EventHeartbeat         EventType = "heartbeat"
	EventError             EventType = "error"
	EventAck               EventType = "ack"
	EventState             EventType = "state"
)

// Message is a WebSocket envelope: an event type, the editing session it
// applies to, the collaborator that sent it, and a type-specific payload.
type Message struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	UserID    string      `json:"user_id"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// GroupEvent is the decoded form of a group-edit Message payload. Exactly
// one field group is populated per EventType; unused fields are left zero.
type GroupEvent struct {
	Indices   []int        `json:"indices,omitempty"`
	Replace   bool         `json:"replace,omitempty"`
	Layer     int          `json:"layer,omitempty"`
	Centered  bool         `json:"centered,omitempty"`
	Op        string       `json:"op,omitempty"`
	Sources   []string     `json:"sources,omitempty"`
	Result    string       `json:"result,omitempty"`
	GroupName string       `json:"group_name,omitempty"`
	Color     ColorPayload `json:"color,omitempty"`
}

// ColorPayload is the wire shape of a color, mirroring
// groups.Visualization's colorJSON but exported for API consumers.
type ColorPayload struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Permission is a collaborator's access level within an editing session.
type Permission string

const (
	PermissionOwner  Permission = "owner"
	PermissionEditor Permission = "editor"
	PermissionViewer Permission = "viewer"
)

// Collaborator is one connected participant in an editing session.
type Collaborator struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Initials   string     `json:"initials"`
	Color      string     `json:"color"`
	Permission Permission `json:"permission"`
	JoinedAt   int64      `json:"joined_at"`
	LastSeen   int64      `json:"last_seen"`
}

// EditSession is a shared groups.Session plus the generation parameters
// that produced its dot set and the collaborators observing it.
type EditSession struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	OwnerID       string                   `json:"owner_id"`
	GenType       string                   `json:"gen_type"` // "regular" or "centered"
	Sides         int                      `json:"sides"`
	Index         int                      `json:"index"`
	Star          bool                     `json:"star"`
	Collaborators map[string]*Collaborator `json:"collaborators"`
	CreatedAt     int64                    `json:"created_at"`
	ExpiresAt     int64                    `json:"expires_at,omitempty"`
	MaxUsers      int                      `json:"max_users,omitempty"`

	// GroupState is the live overlay. It is rebuilt from a Visualization
	// snapshot on Redis reload, the same contract groups.Restore documents,
	// rather than serialized directly.
	GroupState *groups.Session `json:"-"`
}

// Client represents one WebSocket connection into the hub.
type Client struct {
	ID            string
	SessionID     string
	Conn          *websocket.Conn
	Send          chan *Message
	Collaborator  *Collaborator
	LastHeartbeat time.Time
	IsAlive       bool
}

// SessionCreateRequest creates a new editing session over a freshly
// generated figurate dot set.
type SessionCreateRequest struct {
	Name     string `json:"name"`
	UserName string `json:"user_name"`
	GenType  string `json:"gen_type"`
	Sides    int    `json:"sides"`
	Index    int    `json:"index"`
	Star     bool   `json:"star,omitempty"`
	MaxUsers int    `json:"max_users,omitempty"`
}

// SessionCreateResponse reports the created session and the owner's
// collaborator ID, plus a shareable URL.
type SessionCreateResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	URL       string `json:"url"`
}

// SessionInfoResponse reports an editing session's metadata and current
// group/connection state.
type SessionInfoResponse struct {
	Session     EditSession         `json:"session"`
	Groups      map[string][]int    `json:"groups"`
	Connections []groups.Connection `json:"connections"`
}

// ErrorResponse is the JSON shape of an API error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Statistics summarizes hub activity across all editing sessions.
type Statistics struct {
	ActiveSessions     int `json:"active_sessions"`
	TotalCollaborators int `json:"total_collaborators"`
}
