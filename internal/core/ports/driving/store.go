package driving

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// StoreService manages the lifecycle of the single remote corpus.
type StoreService interface {
	// Ensure verifies the recorded corpus still exists remotely.
	// Returns domain.ErrNoStoreConfigured when nothing is recorded and
	// domain.ErrStoreStale (after clearing local state) when the remote
	// corpus is gone.
	Ensure(ctx context.Context) (*domain.StoreRecord, error)

	// Create creates a remote corpus and records it locally.
	// Returns domain.ErrAlreadyExists if a corpus is already recorded.
	Create(ctx context.Context, displayName string) (*domain.StoreRecord, error)

	// Delete deletes the remote corpus with its documents, then clears
	// local state. On remote failure local state is left untouched.
	Delete(ctx context.Context) error

	// Info returns the local record together with the remote counts.
	Info(ctx context.Context) (*domain.StoreInfo, error)

	// Current returns the locally recorded corpus without contacting the
	// remote service.
	Current() (*domain.StoreRecord, error)
}
