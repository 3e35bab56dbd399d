package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sweepInterval is the minimum time between two sweeps of expired records.
const sweepInterval = time.Minute

// MemoryStore is an in-process Store. Expired records are dropped when they
// are read, and swept from Create at most once per sweepInterval.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]Record
	byUser    map[string]map[string]struct{}
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Record),
		byUser:   make(map[string]map[string]struct{}),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, userID string, ttl time.Duration) (Record, error) {
	rec := Record{ID: uuid.NewString(), UserID: userID, ExpiresAt: s.now().Add(ttl)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[rec.ID] = rec
	if s.byUser[userID] == nil {
		s.byUser[userID] = make(map[string]struct{})
	}
	s.byUser[userID][rec.ID] = struct{}{}
	return rec, nil
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, rec := range s.sessions {
		if now.Before(rec.ExpiresAt) {
			continue
		}
		s.removeLocked(id, rec)
	}
}

func (s *MemoryStore) removeLocked(id string, rec Record) {
	delete(s.sessions, id)
	if ids := s.byUser[rec.UserID]; ids != nil {
		delete(ids, id)
		if len(ids) == 0 {
			delete(s.byUser, rec.UserID)
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	if !s.now().Before(rec.ExpiresAt) {
		_ = s.Revoke(context.Background(), id)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.sessions[id]; ok {
		s.removeLocked(id, rec)
	}
	return nil
}

func (s *MemoryStore) RevokeUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.byUser[userID] {
		delete(s.sessions, id)
	}
	delete(s.byUser, userID)
	return nil
}
