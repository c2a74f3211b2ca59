package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

const DefaultMaxEntries = 1000

type memoryEntry struct {
	value []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu sync.Mutex
	entries map[string]memoryEntry
	order []string // insertion order, oldest first
	maxEntries int
}

// NewMemory returns a bounded in-process Cache. Insertion beyond
// maxEntries evicts the oldest-inserted entry first; this is a coarse
// bound, not LRU. Pattern deletion is approximated by substring
// containment after stripping the wildcard token, so key naming schemes
// must avoid ambiguous substrings.
func NewMemory(maxEntries int) Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &memoryCache{
		entries: make(map[string]memoryEntry),
		maxEntries: maxEntries,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, ErrCacheMiss
	}

	if time.Now().After(entry.expiresAt) {
		c.removeLocked(key)
		return nil, ErrCacheMiss
	}

	return entry.value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			c.removeLocked(c.order[0])
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = memoryEntry{
		value: valueJSON,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		c.removeLocked(key)
	}

	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	needle := strings.ReplaceAll(pattern, "*", "")

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.Contains(key, needle) {
			c.removeLocked(key)
		}
	}

	return nil
}

func (c *memoryCache) removeLocked(key string) {
	if _, exists := c.entries[key]; !exists {
		return
	}

	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
