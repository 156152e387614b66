// apps/go-server/internal/store/memory.go
//
// In-memory registry of live board sessions.
// A session wraps one setup.Game (the board orchestrator) plus the metadata
// the HTTP layer needs to route requests to it.
//
// Characteristics:
//   - Sessions keyed by ID in a map, guarded by an RWMutex.
//   - Sessions idle longer than the TTL are removed by Sweep.
//   - State is lost when the process restarts; boards are not persisted.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/setup"
)

var ErrNotFound = errors.New("session not found")

// Session is one player's board session.
type Session struct {
	ID        string
	Mode      string // "random" | "daily"
	Date      string // YYYY-MM-DD the session was created (UTC)
	Game      *setup.Game
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen reports when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store defines the registry interface for board sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID and marks it as used.
	// Returns ErrNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session; deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all sessions, oldest first.
	List(ctx context.Context) []*Session

	// Sweep removes sessions idle for longer than ttl and returns their ids.
	Sweep(ctx context.Context, ttl time.Duration) []string
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session without id")
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.Touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.Touch()
	return s, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) List(ctx context.Context) []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Sweep skips sessions with a setup in flight so a slow remote never loses a board mid-build.
func (m *memory) Sweep(ctx context.Context, ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []string
	for id, s := range m.sessions {
		if s.Game != nil && s.Game.Busy() {
			continue
		}
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
// onEvict receives the ids removed by each non-empty sweep.
func RunSweeper(ctx context.Context, st Store, ttl, interval time.Duration, onEvict func(ids []string)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ids := st.Sweep(ctx, ttl); len(ids) > 0 && onEvict != nil {
				onEvict(ids)
			}
		}
	}
}
