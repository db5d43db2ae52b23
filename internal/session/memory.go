package session

// #region imports
import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// #endregion

// #region memory-store

// MemoryStore keeps sessions in a process-local map. Entries are created
// lazily on first Save and evicted by the TTL sweeper once idle longer
// than the configured window.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewMemoryStore creates an in-memory store with the given idle TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// #endregion

// #region store-impl

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id string) (Session, error) {
	if id == "" {
		id = DefaultID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return New(id), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	if sess.ID == "" {
		sess.ID = DefaultID
	}
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// #endregion

// #region sweeper

// sweepInterval is how often the TTL sweeper scans for idle sessions.
const sweepInterval = 5 * time.Minute

// StartSweeper runs a background goroutine that evicts sessions idle
// longer than the store TTL. It stops when ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("session sweeper started", "interval", sweepInterval, "ttl", s.ttl)
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(time.Now().UTC()); n > 0 {
					slog.Info("session sweeper evicted idle sessions", "count", n)
				}
			case <-ctx.Done():
				slog.Info("session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Sweep removes sessions whose last update is older than the TTL relative
// to now, returning the number evicted. Exposed for tests.
func (s *MemoryStore) Sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// #endregion
