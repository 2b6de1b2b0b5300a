// Package cache holds recent scrape-and-summarize responses so repeat
// requests for the same URL can skip a browser launch.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/simba-tools/simbadesk/models"
)

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.ScrapeURLResponse
	createdAt time.Time
}

// Cache is a simple in-memory cache for scrape responses.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// New creates a Cache with the given maximum number of entries. A
// background goroutine evicts entries older than 1 hour every 5
// minutes.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}
	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the URL, provider, output format, and
// extract mode.
func Key(url, provider, outputFormat, extractMode string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(provider))
	h.Write([]byte("|"))
	h.Write([]byte(outputFormat))
	h.Write([]byte("|"))
	h.Write([]byte(extractMode))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached response if it exists and is younger than
// maxAgeMs milliseconds. maxAgeMs <= 0 disables the lookup.
func (c *Cache) Get(key string, maxAgeMs int) (*models.ScrapeURLResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.response, true
}

// Set stores a response. At capacity one arbitrary entry is evicted to
// make room (map iteration order is random in Go).
func (c *Cache) Set(key string, resp *models.ScrapeURLResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[key] = &entry{
		response:  resp,
		createdAt: time.Now(),
	}
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
