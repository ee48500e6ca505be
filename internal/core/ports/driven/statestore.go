package driven

import "github.com/khalid0211/FileRAG/internal/core/domain"

// StateStore persists the single active StoreRecord.
type StateStore interface {
	// Load returns the persisted record.
	// Returns domain.ErrNotFound if no record exists.
	Load() (*domain.StoreRecord, error)

	// Save replaces the persisted record. The write is atomic: a crash
	// leaves either the previous record or the new one, never a mix.
	Save(record *domain.StoreRecord) error

	// Clear removes the persisted record. Clearing an absent record is not an error.
	Clear() error
}
