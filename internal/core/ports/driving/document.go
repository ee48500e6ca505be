package driving

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// DocumentService manages documents in the active corpus.
type DocumentService interface {
	// Upload uploads one file and waits for it to be indexed.
	// A failed upload is kept as a failed entry and returned together
	// with an error matching domain.ErrUploadFailed.
	Upload(ctx context.Context, content []byte, fileName string) (*domain.DocumentEntry, error)

	// UploadBatch uploads files sequentially in input order. A file that
	// could not be read (UploadFile.Err) is recorded as a failed entry.
	// A failure never aborts the remaining files.
	UploadBatch(ctx context.Context, files []domain.UploadFile, progress domain.ProgressFunc) []domain.UploadResult

	// List returns the documents of the active corpus. When the remote
	// service is unreachable the last known list is returned marked stale.
	List(ctx context.Context) (*domain.DocumentListing, error)

	// Delete removes a document addressed by local ID, remote ID or name.
	Delete(ctx context.Context, ref string) error
}
