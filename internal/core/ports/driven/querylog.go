package driven

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// QueryLog is the append-only history of questions and answers.
type QueryLog interface {
	// Append durably adds an entry at the end of the log.
	Append(ctx context.Context, entry domain.QueryLogEntry) error

	// ReadAll returns every entry in append order.
	ReadAll(ctx context.Context) ([]domain.QueryLogEntry, error)

	// AppendRating durably records feedback on an answer.
	AppendRating(ctx context.Context, rating domain.Rating) error

	// Ratings returns every recorded rating in append order.
	Ratings(ctx context.Context) ([]domain.Rating, error)
}
