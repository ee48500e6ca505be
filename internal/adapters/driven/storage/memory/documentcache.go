package memory

import (
	"context"
	"sync"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
)

// Ensure DocumentCache implements the interface.
var _ driven.DocumentCache = (*DocumentCache)(nil)

// DocumentCache is an in-memory implementation of driven.DocumentCache.
type DocumentCache struct {
	mu      sync.RWMutex
	entries map[string]domain.DocumentEntry
}

// NewDocumentCache creates a new in-memory document cache.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{
		entries: make(map[string]domain.DocumentEntry),
	}
}

// Save stores or updates an entry.
func (c *DocumentCache) Save(_ context.Context, entry *domain.DocumentEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.ID] = *entry
	return nil
}

// Get retrieves an entry by ID.
func (c *DocumentCache) Get(_ context.Context, id string) (*domain.DocumentEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// List returns the entries of a corpus ordered by upload time.
func (c *DocumentCache) List(_ context.Context, corpusID string) ([]domain.DocumentEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]domain.DocumentEntry, 0)
	for _, e := range c.entries {
		if e.CorpusID == corpusID {
			result = append(result, e)
		}
	}
	domain.SortEntries(result)
	return result, nil
}

// Delete removes an entry.
func (c *DocumentCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

// Replace swaps every entry of a corpus for the given set.
func (c *DocumentCache) Replace(_ context.Context, corpusID string, entries []domain.DocumentEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purge(corpusID)
	for _, e := range entries {
		e.CorpusID = corpusID
		c.entries[e.ID] = e
	}
	return nil
}

// Purge removes every entry of a corpus.
func (c *DocumentCache) Purge(_ context.Context, corpusID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purge(corpusID)
	return nil
}

func (c *DocumentCache) purge(corpusID string) {
	for id, e := range c.entries {
		if e.CorpusID == corpusID {
			delete(c.entries, id)
		}
	}
}
