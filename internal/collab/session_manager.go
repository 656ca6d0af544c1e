// Package collab - session lifecycle and Redis-backed persistence for
// shared editing sessions over a groups.Session.
package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TheDaniel418/isopgem-cores/internal/figurate"
	"github.com/TheDaniel418/isopgem-cores/internal/groups"
)

const (
	sessionKeyPrefix = "isopgem:collab:session:"

	defaultMaxUsers      = 100
	defaultSessionExpiry = 24 * time.Hour
	sessionCleanupPeriod = 5 * time.Minute
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrSessionFull       = errors.New("session is full")
	ErrInvalidPermission = errors.New("invalid permission")
)

// persistedSession is the Redis wire form of an EditSession: metadata plus
// a Visualization snapshot of the live groups.Session, since *groups.Session
// itself carries unexported fields.
type persistedSession struct {
	Meta     EditSession          `json:"meta"`
	Snapshot groups.Visualization `json:"snapshot"`
}

// SessionManager manages editing sessions with Redis persistence, falling
// back to in-memory-only operation when Redis is unreachable.
type SessionManager struct {
	redis *redis.Client

	sessions map[string]*EditSession
	mu       sync.RWMutex

	ctx context.Context

	useRedis bool
}

// NewSessionManager creates a session manager. If redisAddr is empty or
// unreachable, sessions live only in process memory.
func NewSessionManager(redisAddr string, redisPassword string, redisDB int) *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*EditSession),
		ctx:      context.Background(),
	}

	if redisAddr == "" {
		log.Println("[SESSION] redis not configured, using in-memory storage")
		return sm
	}

	sm.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	if err := sm.redis.Ping(sm.ctx).Err(); err != nil {
		log.Printf("[SESSION] redis connection failed: %v (falling back to in-memory)", err)
		return sm
	}

	log.Printf("[SESSION] connected to redis at %s", redisAddr)
	sm.useRedis = true
	go sm.cleanupExpiredSessions()

	return sm
}

// CreateSession generates a fresh figurate dot set per (genType, sides,
// index, star) and creates an editing session over it, owned by a new
// collaborator.
func (sm *SessionManager) CreateSession(name, ownerName, genType string, sides, index int, star bool, maxUsers int) (*EditSession, *Collaborator, error) {
	if maxUsers <= 0 {
		maxUsers = defaultMaxUsers
	}

	dots, err := figurate.Generate(sides, index, genType == "centered", star)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate dot set: %w", err)
	}

	sessionID := generateID()
	userID := generateID()

	owner := &Collaborator{
		ID:         userID,
		Name:       ownerName,
		Initials:   generateInitials(ownerName),
		Color:      generateColor(userID),
		Permission: PermissionOwner,
		JoinedAt:   time.Now().UnixMilli(),
		LastSeen:   time.Now().UnixMilli(),
	}

	session := &EditSession{
		ID:            sessionID,
		Name:          name,
		OwnerID:       userID,
		GenType:       genType,
		Sides:         sides,
		Index:         index,
		Star:          star,
		Collaborators: map[string]*Collaborator{userID: owner},
		CreatedAt:     time.Now().UnixMilli(),
		ExpiresAt:     time.Now().Add(defaultSessionExpiry).UnixMilli(),
		MaxUsers:      maxUsers,
		GroupState:    groups.NewSession(dots),
	}

	if err := sm.saveSession(session); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Printf("[SESSION] created session %s (%s) with owner %s", sessionID, name, ownerName)

	return session, owner, nil
}

// GetSession retrieves an editing session by ID, rebuilding its
// groups.Session from a Redis snapshot if it was evicted from memory.
func (sm *SessionManager) GetSession(sessionID string) (*EditSession, error) {
	sm.mu.RLock()
	if session, ok := sm.sessions[sessionID]; ok {
		sm.mu.RUnlock()
		return session, nil
	}
	sm.mu.RUnlock()

	if !sm.useRedis {
		return nil, ErrSessionNotFound
	}

	session, err := sm.loadSessionFromRedis(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	sm.mu.Lock()
	sm.sessions[sessionID] = session
	sm.mu.Unlock()

	return session, nil
}

// JoinSession adds a collaborator to an existing session.
func (sm *SessionManager) JoinSession(sessionID, userName string, permission Permission) (*EditSession, *Collaborator, error) {
	session, err := sm.GetSession(sessionID)
	if err != nil {
		return nil, nil, err
	}

	if len(session.Collaborators) >= session.MaxUsers {
		return nil, nil, ErrSessionFull
	}

	userID := generateID()
	user := &Collaborator{
		ID:         userID,
		Name:       userName,
		Initials:   generateInitials(userName),
		Color:      generateColor(userID),
		Permission: permission,
		JoinedAt:   time.Now().UnixMilli(),
		LastSeen:   time.Now().UnixMilli(),
	}

	session.Collaborators[userID] = user

	if err := sm.saveSession(session); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Printf("[SESSION] user %s joined session %s", userName, sessionID)

	return session, user, nil
}

// RemoveCollaborator removes a collaborator from a session.
func (sm *SessionManager) RemoveCollaborator(sessionID, userID string) error {
	session, err := sm.GetSession(sessionID)
	if err != nil {
		return err
	}

	delete(session.Collaborators, userID)

	if len(session.Collaborators) == 0 {
		session.ExpiresAt = time.Now().Add(5 * time.Minute).UnixMilli()
	}

	return sm.saveSession(session)
}

// ApplyEvent mutates session's groups.Session for the given GroupEvent and
// persists the result. It returns ErrInvalidPermission if the acting
// collaborator lacks edit rights for a mutating event.
func (sm *SessionManager) ApplyEvent(session *EditSession, userID string, evt EventType, ge GroupEvent) error {
	user, ok := session.Collaborators[userID]
	if !ok {
		return ErrUserNotFound
	}
	if evt != EventSetActive && !CanEdit(user.Permission) {
		return ErrInvalidPermission
	}

	g := session.GroupState
	switch evt {
	case EventSelect:
		g.Select(ge.Indices, ge.Replace)
	case EventClear:
		g.Clear()
	case EventSelectLayer:
		g.SelectByLayer(ge.Layer, ge.Centered)
	case EventConnect:
		g.Connect()
	case EventClosePolygon:
		g.ClosePolygon()
	case EventSetOp:
		op, err := parseSetOp(ge.Op)
		if err != nil {
			return err
		}
		if err := g.ApplySetOp(op, ge.Sources, ge.Result); err != nil {
			return err
		}
	case EventSetColor:
		g.SetColor(ge.GroupName, fromColorPayload(ge.Color))
	case EventSetActive:
		g.SetActive(ge.GroupName)
	default:
		return fmt.Errorf("unsupported group event: %s", evt)
	}

	user.LastSeen = time.Now().UnixMilli()
	return sm.saveSession(session)
}

func parseSetOp(op string) (groups.SetOp, error) {
	switch op {
	case "union":
		return groups.Union, nil
	case "intersection":
		return groups.Intersection, nil
	case "difference":
		return groups.Difference, nil
	case "symmetric_difference":
		return groups.SymmetricDifference, nil
	default:
		return 0, fmt.Errorf("unknown set operation %q", op)
	}
}

// saveSession persists an editing session to memory and, if configured,
// Redis.
func (sm *SessionManager) saveSession(session *EditSession) error {
	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	if sm.useRedis {
		return sm.saveSessionToRedis(session)
	}
	return nil
}

func (sm *SessionManager) saveSessionToRedis(session *EditSession) error {
	snapshot := session.GroupState.Freeze(session.ID, session.Name, "", session.GenType, session.Sides, session.Index,
		time.UnixMilli(session.CreatedAt), time.Now())

	data, err := json.Marshal(persistedSession{Meta: *session, Snapshot: snapshot})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionKeyPrefix + session.ID
	expiry := time.Until(time.UnixMilli(session.ExpiresAt))

	if err := sm.redis.Set(sm.ctx, key, data, expiry).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (sm *SessionManager) loadSessionFromRedis(sessionID string) (*EditSession, error) {
	key := sessionKeyPrefix + sessionID

	data, err := sm.redis.Get(sm.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	dots, err := figurate.Generate(p.Meta.Sides, p.Meta.Index, p.Meta.GenType == "centered", p.Meta.Star)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate dot set: %w", err)
	}

	g, err := groups.Restore(p.Snapshot, dots)
	if err != nil {
		return nil, fmt.Errorf("failed to restore group state: %w", err)
	}

	session := p.Meta
	session.GroupState = g
	return &session, nil
}

// cleanupExpiredSessions evicts sessions past ExpiresAt periodically.
func (sm *SessionManager) cleanupExpiredSessions() {
	ticker := time.NewTicker(sessionCleanupPeriod)
	defer ticker.Stop()

	for range ticker.C {
		sm.mu.Lock()

		now := time.Now().UnixMilli()
		for id, session := range sm.sessions {
			if session.ExpiresAt > 0 && session.ExpiresAt < now {
				delete(sm.sessions, id)
				log.Printf("[SESSION] cleaned up expired session %s", id)

				if sm.useRedis {
					sm.redis.Del(sm.ctx, sessionKeyPrefix+id)
				}
			}
		}

		sm.mu.Unlock()
	}
}

// GetAllSessions returns all sessions currently held in memory.
func (sm *SessionManager) GetAllSessions() []*EditSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*EditSession, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Close closes the Redis connection, if any.
func (sm *SessionManager) Close() error {
	if sm.useRedis && sm.redis != nil {
		return sm.redis.Close()
	}
	return nil
}
