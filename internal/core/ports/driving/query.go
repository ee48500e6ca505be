package driving

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// QueryService answers questions against the active corpus.
type QueryService interface {
	// Ask sends a question to the remote service and records the answer
	// in the history. A history failure is reported as Answer.Warning.
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}
