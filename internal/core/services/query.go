package services

import (
	"context"
	"errors"
	"strings"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers questions against the active corpus.
type QueryService struct {
	search  driven.SearchService
	stores  driving.StoreService
	history driving.HistoryService
}

// NewQueryService creates a new query service.
func NewQueryService(
	search driven.SearchService,
	stores driving.StoreService,
	history driving.HistoryService,
) *QueryService {
	return &QueryService{
		search:  search,
		stores:  stores,
		history: history,
	}
}

// Ask sends a question to the remote service and records the answer.
func (s *QueryService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	logger.Section("Ask")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.NewOpError("ask", "", domain.ErrInvalidInput, errors.New("question is empty"))
	}

	record, err := s.stores.Current()
	if err != nil {
		return nil, err
	}

	logger.Debug("Question: %q", question)
	result, err := s.search.Query(ctx, record.CorpusID, question)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A missing corpus is reported as stale, clearing local state.
			if _, ensureErr := s.stores.Ensure(ctx); ensureErr != nil {
				return nil, ensureErr
			}
		}
		return nil, domain.NewOpError("ask", record.CorpusID, transportKind(err), err)
	}
	logger.Debug("Answer with %d sources", len(result.Sources))

	answer := &domain.Answer{
		Question: question,
		Text:     result.Answer,
		Sources:  result.Sources,
	}

	entry, err := s.history.Record(ctx, question, result.Answer, result.Sources)
	if entry != nil {
		answer.Timestamp = entry.Timestamp
	}
	if err != nil {
		answer.Warning = err
	}
	return answer, nil
}
