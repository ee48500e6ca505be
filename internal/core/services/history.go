package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

const historyRule = "================================================================================"

// HistoryService manages the append-only query history.
type HistoryService struct {
	mu     sync.Mutex
	log    driven.QueryLog
	now    func() time.Time
	last   time.Time
	seeded bool
}

// NewHistoryService creates a new history service.
func NewHistoryService(log driven.QueryLog) *HistoryService {
	return &HistoryService{
		log: log,
		now: time.Now,
	}
}

// Record appends a question/answer pair. The returned error, when not
// nil, is a *domain.Warning: the entry is returned either way.
func (s *HistoryService) Record(
	ctx context.Context,
	question, answer string,
	sources []string,
) (*domain.QueryLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seed(ctx)

	ts := s.now().UTC()
	if !ts.After(s.last) {
		ts = s.last.Add(time.Microsecond)
	}
	s.last = ts

	entry := domain.QueryLogEntry{
		ID:        uuid.New().String(),
		Timestamp: ts,
		Question:  question,
		Answer:    answer,
		Sources:   append([]string{}, sources...),
	}
	if err := s.log.Append(ctx, entry); err != nil {
		logger.Warn("query was answered but not recorded in history: %v", err)
		return &entry, &domain.Warning{Op: "record query", Err: err}
	}
	logger.Debug("Recorded query %s at %s", entry.ID, ts.Format(time.RFC3339Nano))
	return &entry, nil
}

// seed initialises the last timestamp from the persisted log once.
func (s *HistoryService) seed(ctx context.Context) {
	if s.seeded {
		return
	}
	entries, err := s.log.ReadAll(ctx)
	if err != nil {
		logger.Debug("Could not read history to seed timestamps: %v", err)
		return
	}
	for _, e := range entries {
		if e.Timestamp.After(s.last) {
			s.last = e.Timestamp
		}
	}
	s.seeded = true
}

// Entries returns the whole history in append order.
func (s *HistoryService) Entries(ctx context.Context) ([]domain.QueryLogEntry, error) {
	entries, err := s.log.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded queries.
func (s *HistoryService) Count(ctx context.Context) (int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Rate records user feedback on an answer.
func (s *HistoryService) Rate(ctx context.Context, question string, score int, note string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.NewOpError("rate answer", "", domain.ErrInvalidInput, fmt.Errorf("question is empty"))
	}
	if score < domain.MinRating || score > domain.MaxRating {
		return domain.NewOpError("rate answer", question, domain.ErrInvalidInput,
			fmt.Errorf("score %d outside %d-%d", score, domain.MinRating, domain.MaxRating))
	}

	rating := domain.Rating{
		Timestamp: s.now().UTC(),
		Question:  question,
		Score:     score,
		Note:      strings.TrimSpace(note),
	}
	if err := s.log.AppendRating(ctx, rating); err != nil {
		return fmt.Errorf("rate answer: %w", err)
	}
	return nil
}

// ExportAll serialises the whole history in append order.
func (s *HistoryService) ExportAll(ctx context.Context, format domain.ExportFormat) ([]byte, error) {
	if format == "" {
		format = domain.ExportText
	}
	if !format.IsValid() {
		return nil, domain.NewOpError("export history", string(format), domain.ErrInvalidInput, nil)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.QueryLogEntry{}
	}

	switch format {
	case domain.ExportJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export history: %w", err)
		}
		return append(data, '\n'), nil
	case domain.ExportYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("export history: %w", err)
		}
		return data, nil
	default:
		ratings, err := s.log.Ratings(ctx)
		if err != nil {
			return nil, fmt.Errorf("export history: read ratings: %w", err)
		}
		return renderText(entries, ratings), nil
	}
}

// renderText produces the human-readable history download.
func renderText(entries []domain.QueryLogEntry, ratings []domain.Rating) []byte {
	var b bytes.Buffer
	b.WriteString("# FileRAG Query History\n")
	fmt.Fprintf(&b, "# Entries: %d\n", len(entries))
	b.WriteString(historyRule + "\n\n")

	for _, e := range entries {
		b.WriteString("\n" + historyRule + "\n")
		fmt.Fprintf(&b, "Timestamp: %s\n", e.Timestamp.Format(time.RFC3339Nano))
		fmt.Fprintf(&b, "Query: %s\n", e.Question)
		fmt.Fprintf(&b, "\nAnswer: %s\n", e.Answer)
		if len(e.Sources) > 0 {
			b.WriteString("\nSources:\n")
			for i, src := range e.Sources {
				fmt.Fprintf(&b, "  %d. Document: %s\n", i+1, src)
			}
		} else {
			b.WriteString("\nSources: No sources found\n")
		}
		if e.Found() {
			b.WriteString("Status: Found\n")
		} else {
			b.WriteString("Status: Not Found\n")
		}
		b.WriteString(historyRule + "\n\n")
	}

	for _, r := range ratings {
		b.WriteString("\n" + strings.Repeat("*", len(historyRule)) + "\n")
		fmt.Fprintf(&b, "RATING SUBMITTED: %s\n", r.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(&b, "Question: %s\n", r.Question)
		fmt.Fprintf(&b, "Rating: %s (%d/%d)\n", strings.Repeat("*", r.Score), r.Score, domain.MaxRating)
		if r.Note != "" {
			fmt.Fprintf(&b, "Note: %s\n", r.Note)
		}
		b.WriteString(strings.Repeat("*", len(historyRule)) + "\n\n")
	}
	return b.Bytes()
}
