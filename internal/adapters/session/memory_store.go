// Package session holds SessionStore implementations: small key-value maps partitioned
// by session id that expire after a period of inactivity.
package session

import (
	"bytes"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/cleanup"
	"github.com/mikey/lead-email-generator/internal/core"
)

type memoryValue struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the SessionStore interface
type MemoryStore struct {
	sessions map[string]map[string]memoryValue
	mu       sync.RWMutex
	ttl      time.Duration
	logger   *zap.Logger
	cleaner  *cleanup.Task
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(logger *zap.Logger, ttl, cleanupFreq time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]map[string]memoryValue),
		ttl:      ttl,
		logger:   logger,
	}
	s.cleaner = cleanup.Start("session store", s.Cleanup, cleanupFreq, logger)
	return s
}

// Get returns a copy of the value stored under key
func (s *MemoryStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.sessions[sessionID][key]
	if !ok || time.Now().After(v.expiresAt) {
		return nil, core.ErrNotFound
	}
	return bytes.Clone(v.data), nil
}

// Set stores a copy of value under key
func (s *MemoryStore) Set(_ context.Context, sessionID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]memoryValue)
		s.sessions[sessionID] = values
	}
	values[key] = memoryValue{data: bytes.Clone(value), expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Delete removes key from the session
func (s *MemoryStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if values, ok := s.sessions[sessionID]; ok {
		delete(values, key)
		if len(values) == 0 {
			delete(s.sessions, sessionID)
		}
	}
	return nil
}

// Cleanup removes expired values and empty sessions
func (s *MemoryStore) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredCount := 0
	for id, values := range s.sessions {
		for key, v := range values {
			if now.After(v.expiresAt) {
				delete(values, key)
				expiredCount++
			}
		}
		if len(values) == 0 {
			delete(s.sessions, id)
		}
	}

	s.logger.Debug("Cleaned up expired session values", zap.Int("expired_count", expiredCount))
	return nil
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	s.cleaner.Stop()
}
