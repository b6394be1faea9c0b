// Package server tracks live play sessions and coordinates shutdown.
package server

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// SessionEventType identifies the type of session event.
type SessionEventType int

const (
	EventServerShutdown SessionEventType = iota
)

// SessionEvent is sent from the hub to a session.
type SessionEvent struct {
	Type SessionEventType
}

// Session is one connected player. Each session owns its own game.
type Session struct {
	ID       string
	Username string
	Started  time.Time
	EventsCh chan SessionEvent // Closed when the session is unregistered
}

// Hub keeps the set of live sessions. Safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *log.Logger
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Register adds a session for username and returns it.
func (h *Hub) Register(username string) *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		Username: username,
		Started:  time.Now(),
		EventsCh: make(chan SessionEvent, 4),
	}

	h.mu.Lock()
	h.sessions[sess.ID] = sess
	count := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("session started", "session", sess.ID, "user", username, "active", count)
	return sess
}

// Unregister removes a session and closes its event channel.
// Unknown or already removed ids are ignored.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	sess, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
		close(sess.EventsCh)
	}
	count := len(h.sessions)
	h.mu.Unlock()

	if ok {
		h.logger.Info("session ended", "session", id, "user", sess.Username,
			"duration", time.Since(sess.Started).Round(time.Second), "active", count)
	}
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown notifies every session and waits until all of them have
// unregistered or the timeout expires.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, sess := range h.sessions {
		select {
		case sess.EventsCh <- SessionEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			h.logger.Warn("shutdown timed out", "remaining", h.Count())
			return
		case <-ticker.C:
		}
	}
}
