// Package session holds per-session rolling conversation history in memory.
// History is scoped to a session by construction; there is no global shared
// state, so concurrent users can never leak context into each other's
// conversations.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain/entities"
)

// Session describes a conversation session handed back to the client.
type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type record struct {
	lastActiveAt time.Time
	exchanges    []entities.Exchange
}

// Store is an in-memory session registry with bounded per-session history.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*record

	maxTurns int
	maxChars int
	ttl      time.Duration

	logger   *zap.Logger
	stopChan chan struct{}
}

// NewStore creates a session store. History is bounded both by turn count
// and by a total character budget, truncated oldest-first.
func NewStore(maxTurns, maxChars int, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*record),
		maxTurns: maxTurns,
		maxChars: maxChars,
		ttl:      ttl,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Create registers a new session and returns its descriptor.
func (s *Store) Create() Session {
	id := uuid.New().String()
	now := time.Now()

	s.mu.Lock()
	s.sessions[id] = &record{lastActiveAt: now}
	s.mu.Unlock()

	s.logger.Info("Session created", zap.String("sessionID", id))
	return Session{ID: id, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
}

// Exists reports whether a live session with the given id is registered.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Append records a completed exchange on the session and re-applies the
// history bounds. Appending to an unknown or expired session is a no-op;
// the turn itself already succeeded and history is best-effort.
func (s *Store) Append(id string, exchange entities.Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return
	}

	rec.lastActiveAt = time.Now()
	rec.exchanges = append(rec.exchanges, exchange)
	rec.exchanges = truncate(rec.exchanges, s.maxTurns, s.maxChars)
}

// History returns a copy of the session's bounded history, or nil when the
// session is unknown. Callers pass the copy straight to the dialogue engine.
func (s *Store) History(id string) []entities.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil
	}

	rec.lastActiveAt = time.Now()
	out := make([]entities.Exchange, len(rec.exchanges))
	copy(out, rec.exchanges)
	return out
}

// Expire drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Expire() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.sessions {
		if rec.lastActiveAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor begins periodic expiry sweeps in the background.
func (s *Store) StartJanitor(interval time.Duration) {
	go s.janitorLoop(interval)
	s.logger.Info("Session janitor started", zap.Duration("interval", interval))
}

// StopJanitor stops the background sweeps.
func (s *Store) StopJanitor() {
	close(s.stopChan)
	s.logger.Info("Session janitor stopped")
}

func (s *Store) janitorLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if removed := s.Expire(); removed > 0 {
				s.logger.Info("Expired idle sessions", zap.Int("removed", removed))
			}
		}
	}
}

// truncate drops exchanges from the oldest end until both the turn count
// and the character budget hold. A single pair larger than the whole budget
// is dropped too, so one overlong exchange cannot blow the context window.
func truncate(exchanges []entities.Exchange, maxTurns, maxChars int) []entities.Exchange {
	if len(exchanges) > maxTurns {
		exchanges = exchanges[len(exchanges)-maxTurns:]
	}

	total := 0
	for _, ex := range exchanges {
		total += len(ex.User) + len(ex.Bot)
	}
	for len(exchanges) > 0 && total > maxChars {
		total -= len(exchanges[0].User) + len(exchanges[0].Bot)
		exchanges = exchanges[1:]
	}

	return exchanges
}
