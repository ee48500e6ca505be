package driven

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// SearchService is the remote managed AI search service.
// It owns storage, chunking, embedding, retrieval and answer generation;
// this application only orchestrates it.
//
// Implementations return errors that match domain.ErrNotFound when the
// addressed corpus or document does not exist, domain.ErrTransport for
// network or unexpected failures, domain.ErrUnauthorized for rejected
// credentials and domain.ErrRateLimited when throttled.
type SearchService interface {
	// CreateCorpus creates a new corpus and returns its identifier.
	CreateCorpus(ctx context.Context, displayName string) (string, error)

	// DeleteCorpus deletes a corpus and every document in it.
	DeleteCorpus(ctx context.Context, corpusID string) error

	// GetCorpus returns the remote view of a corpus.
	GetCorpus(ctx context.Context, corpusID string) (*domain.CorpusInfo, error)

	// UploadDocument uploads content and blocks until the remote service
	// has finished indexing it. Returns the remote document identifier.
	UploadDocument(ctx context.Context, corpusID string, content []byte, fileName string) (string, error)

	// ListDocuments returns every document in the corpus.
	ListDocuments(ctx context.Context, corpusID string) ([]domain.RemoteDocument, error)

	// DeleteDocument removes a document from the corpus.
	DeleteDocument(ctx context.Context, corpusID, documentID string) error

	// Query asks a question grounded on the corpus.
	Query(ctx context.Context, corpusID, question string) (*domain.QueryResult, error)
}
