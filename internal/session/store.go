package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/questions"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// DefaultTTL is how long a session survives after creation
const DefaultTTL = time.Hour

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

// Store holds sessions by id
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore creates an empty store. A zero ttl means DefaultTTL.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Params are the immutable parts of a new session
type Params struct {
	Kind        Kind
	Fields      []questions.Field
	OriginalPDF []byte
	PDFText     string
	FormHTML    string
}

// Create registers a new session under a random id
func (s *Store) Create(p Params) *Session {
	sess := &Session{
		ID:          uuid.NewString(),
		Kind:        p.Kind,
		Fields:      p.Fields,
		CreatedAt:   s.now(),
		OriginalPDF: p.OriginalPDF,
		PDFText:     p.PDFText,
		FormHTML:    p.FormHTML,
		answers:     make(webform.AnswerMap),
		images:      make(map[string]Image),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Created new session",
		zap.String("session_id", sess.ID),
		zap.String("kind", string(sess.Kind)),
		zap.Int("fields", len(sess.Fields)))
	return sess
}

// Get returns a live session
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(sess) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session; unknown ids are ignored
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and reports how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Expired sessions removed", zap.Int("count", removed))
	}
	return removed
}

// Run sweeps periodically until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) expired(sess *Session) bool {
	return s.now().Sub(sess.CreatedAt) > s.ttl
}
