package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	tokens    Tokens
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.RWMutex
	slots map[string]memoryEntry
}

// NewMemoryStore создаёт хранилище сессий в памяти процесса.
// Используется в локальном окружении и тестах, когда Redis не сконфигурирован.
func NewMemoryStore() Store {
	return &memoryStore{slots: make(map[string]memoryEntry)}
}

func (s *memoryStore) Get(_ context.Context, sid string) (Tokens, error) {
	s.mu.RLock()
	entry, ok := s.slots[sid]
	s.mu.RUnlock()

	if !ok {
		return Tokens{}, ErrNoSession
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.slots, sid)
		s.mu.Unlock()
		return Tokens{}, ErrNoSession
	}

	return entry.tokens, nil
}

func (s *memoryStore) Save(_ context.Context, sid string, tokens Tokens, ttl time.Duration) error {
	entry := memoryEntry{tokens: tokens}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.slots[sid] = entry
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.slots, sid)
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Close() error { return nil }
