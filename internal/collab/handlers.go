// Package collab - HTTP handlers for the collaboration API.
// Provides REST endpoints for editing-session management and the
// WebSocket upgrade that carries group-edit broadcasts.
package collab

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CollabServer exposes HTTP and WebSocket endpoints over a Hub and
// SessionManager.
type CollabServer struct {
	hub        *Hub
	sessionMgr *SessionManager
	baseURL    string
}

// NewCollabServer creates a collaboration server, starting its hub loop.
func NewCollabServer(redisAddr, redisPassword string, redisDB int, baseURL string) *CollabServer {
	sessionMgr := NewSessionManager(redisAddr, redisPassword, redisDB)
	hub := NewHub(sessionMgr)

	go hub.Run()

	return &CollabServer{hub: hub, sessionMgr: sessionMgr, baseURL: baseURL}
}

// RegisterRoutes registers the collaboration routes on router.
func (s *CollabServer) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/collab/sessions", s.HandleCreateSession).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/v1/collab/sessions/{id}", s.HandleGetSession).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/v1/collab/sessions", s.HandleListSessions).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/v1/collab/stats", s.HandleGetStats).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/v1/collab/session/{id}", s.HandleWebSocket)

	log.Println("[API] collaboration routes registered")
}

// HandleCreateSession creates a new editing session over a freshly
// generated figurate dot set.
func (s *CollabServer) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		s.setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	}
	s.setCORSHeaders(w)

	var req SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if req.Name == "" {
		req.Name = "Untitled session"
	}
	if req.UserName == "" {
		req.UserName = "Anonymous"
	}
	if req.GenType == "" {
		req.GenType = "regular"
	}

	session, owner, err := s.sessionMgr.CreateSession(req.Name, req.UserName, req.GenType, req.Sides, req.Index, req.Star, req.MaxUsers)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "CREATE_FAILED", "Failed to create session", err.Error())
		return
	}

	response := SessionCreateResponse{
		SessionID: session.ID,
		UserID:    owner.ID,
		URL:       GenerateSessionURL(s.baseURL, session.ID),
	}

	s.sendJSON(w, http.StatusCreated, response)
	log.Printf("[API] session created: %s by %s", session.ID, req.UserName)
}

// HandleGetSession retrieves an editing session's metadata and current
// group/connection state.
func (s *CollabServer) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		s.setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	}
	s.setCORSHeaders(w)

	sessionID := mux.Vars(r)["id"]

	session, err := s.sessionMgr.GetSession(sessionID)
	if err != nil {
		s.sendError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found", err.Error())
		return
	}

	s.sendJSON(w, http.StatusOK, SessionInfoResponse{
		Session:     *session,
		Groups:      session.GroupState.Groups(),
		Connections: session.GroupState.Connections(),
	})
}

// HandleListSessions lists all sessions currently held in memory.
func (s *CollabServer) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		s.setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	}
	s.setCORSHeaders(w)

	sessions := s.sessionMgr.GetAllSessions()

	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// HandleGetStats returns hub activity statistics.
func (s *CollabServer) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		s.setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	}
	s.setCORSHeaders(w)

	s.sendJSON(w, http.StatusOK, s.hub.GetStatistics())
}

// HandleWebSocket upgrades the connection and joins the caller into the
// named editing session's broadcast group.
func (s *CollabServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	userName := r.URL.Query().Get("user_name")
	if userName == "" {
		userName = "Anonymous"
	}

	permission := Permission(r.URL.Query().Get("permission"))
	if !ValidatePermission(permission) {
		permission = PermissionViewer
	}

	if _, err := s.sessionMgr.GetSession(sessionID); err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	_, user, err := s.sessionMgr.JoinSession(sessionID, userName, permission)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		ID:            user.ID,
		SessionID:     sessionID,
		Conn:          conn,
		Send:          make(chan *Message, sendBufferSize),
		Collaborator:  user,
		LastHeartbeat: time.Now(),
		IsAlive:       true,
	}

	s.hub.register <- client

	go client.WritePump()
	go client.ReadPump(s.hub)

	log.Printf("[WS] collaborator %s connected to session %s", userName, sessionID)
}

func (s *CollabServer) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (s *CollabServer) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *CollabServer) sendError(w http.ResponseWriter, status int, code, message, details string) {
	response := ErrorResponse{Code: code, Message: message, Details: details}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// Close shuts down the collaboration server's session manager.
func (s *CollabServer) Close() error {
	return s.sessionMgr.Close()
}
