package driving

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// HistoryService manages the append-only query history.
type HistoryService interface {
	// Record appends a question/answer pair with a strictly increasing timestamp.
	Record(ctx context.Context, question, answer string, sources []string) (*domain.QueryLogEntry, error)

	// ExportAll serialises the whole history in append order.
	ExportAll(ctx context.Context, format domain.ExportFormat) ([]byte, error)

	// Entries returns the whole history in append order.
	Entries(ctx context.Context) ([]domain.QueryLogEntry, error)

	// Count returns the number of recorded queries.
	Count(ctx context.Context) (int, error)

	// Rate records user feedback on an answer.
	Rate(ctx context.Context, question string, score int, note string) error
}
