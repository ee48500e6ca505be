package driven

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// DocumentCache holds the last known document entries per corpus.
// It is a cache of the remote listing plus entries that never reached
// the remote service.
type DocumentCache interface {
	// Save inserts or updates an entry by ID.
	Save(ctx context.Context, entry *domain.DocumentEntry) error

	// Get retrieves an entry by ID.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.DocumentEntry, error)

	// List returns all entries of a corpus ordered by upload time.
	List(ctx context.Context, corpusID string) ([]domain.DocumentEntry, error)

	// Delete removes an entry. Deleting an absent entry is not an error.
	Delete(ctx context.Context, id string) error

	// Replace swaps every entry of a corpus for the given set in one transaction.
	Replace(ctx context.Context, corpusID string, entries []domain.DocumentEntry) error

	// Purge removes every entry of a corpus.
	Purge(ctx context.Context, corpusID string) error
}
