package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/gradebook/internal/domain/session"
)

var _ Store = (*MemoryStore)(nil)

type entry struct {
	mu   sync.RWMutex
	sess *session.Session
}

// MemoryStore implements Store with a map of per-session locked entries.
// Sessions are evicted oldest first once maxSessions is reached.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	order       []string // creation order, oldest first
	maxSessions int
	newID       func() string
	closed      bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		newID:   newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers sess under a fresh id.
func (s *MemoryStore) Create(ctx context.Context, sess *session.Session) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", "", ErrClosed
	}

	var evicted string
	if s.maxSessions > 0 && len(s.entries) >= s.maxSessions {
		evicted = s.order[0]
		s.order = s.order[1:]
		delete(s.entries, evicted)
	}

	id := s.newID()
	if _, exists := s.entries[id]; exists {
		return "", evicted, fmt.Errorf("duplicate session id %q", id)
	}
	s.entries[id] = &entry{sess: sess}
	s.order = append(s.order, id)
	return id, evicted, nil
}

// Update runs fn holding the session's write lock.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*session.Session) error) error {
	e, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// View runs fn holding the session's read lock.
func (s *MemoryStore) View(ctx context.Context, id string, fn func(*session.Session) error) error {
	e, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.sess)
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.entries, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

// Count returns the number of live sessions.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close drops every session and refuses new ones.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
	s.order = nil
	s.closed = true
	return nil
}

func (s *MemoryStore) lookup(ctx context.Context, id string) (*entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}
