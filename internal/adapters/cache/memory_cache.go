// Package cache holds ResolutionCache implementations. Entries are keyed by the
// SHA-256 of the company name and expire after a fixed TTL.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/cleanup"
	"github.com/mikey/lead-email-generator/internal/core"
)

type memoryEntry struct {
	mapping   core.DomainMapping
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the ResolutionCache interface
type MemoryCache struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	ttl     time.Duration
	logger  *zap.Logger
	cleaner *cleanup.Task
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(logger *zap.Logger, ttl, cleanupFreq time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		logger:  logger,
	}
	c.cleaner = cleanup.Start("resolution cache", c.Cleanup, cleanupFreq, logger)
	return c
}

// Get retrieves the cached mapping for a company
func (c *MemoryCache) Get(_ context.Context, company string) (*core.DomainMapping, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[core.CompanyKey(company)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, core.ErrNotFound
	}

	mapping := entry.mapping
	return &mapping, nil
}

// Set stores a mapping for a company
func (c *MemoryCache) Set(_ context.Context, company string, mapping core.DomainMapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[core.CompanyKey(company)] = memoryEntry{
		mapping:   mapping,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Delete removes a cached mapping
func (c *MemoryCache) Delete(_ context.Context, company string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, core.CompanyKey(company))
	return nil
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Stop stops the background cleanup task
func (c *MemoryCache) Stop() {
	c.cleaner.Stop()
}
