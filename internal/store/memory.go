package store

import (
	"context"
	"sync"
	"time"

	"revisionai/internal/models"
)

type memoryEntry struct {
	key       models.AnswerKey
	expiresAt time.Time
}

// MemoryStore keeps answer keys in process memory. Keys are lost on restart
// and are not shared between replicas. Each key expires ttl after its last
// Put; expired keys read as absent and are dropped on the next Put.
type MemoryStore struct {
	mu   sync.RWMutex
	keys map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		keys: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (models.AnswerKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.keys[sessionID]
	if !ok || !s.now().Before(entry.expiresAt) {
		return models.AnswerKey{}, nil
	}
	return cloneKey(entry.key), nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, key models.AnswerKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.keys {
		if !now.Before(entry.expiresAt) {
			delete(s.keys, id)
		}
	}
	s.keys[sessionID] = memoryEntry{key: cloneKey(key), expiresAt: now.Add(s.ttl)}
	return nil
}

// Len reports how many keys are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
