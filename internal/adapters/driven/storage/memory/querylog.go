package memory

import (
	"context"
	"sync"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
)

// Ensure QueryLog implements the interface.
var _ driven.QueryLog = (*QueryLog)(nil)

// QueryLog is an in-memory implementation of driven.QueryLog.
// AppendErr, when set, makes every append fail.
type QueryLog struct {
	mu        sync.RWMutex
	entries   []domain.QueryLogEntry
	ratings   []domain.Rating
	AppendErr error
}

// NewQueryLog creates a new in-memory query log.
func NewQueryLog() *QueryLog {
	return &QueryLog{}
}

// SetAppendErr sets the error returned by appends. Nil restores normal behaviour.
func (l *QueryLog) SetAppendErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.AppendErr = err
}

// Append adds an entry.
func (l *QueryLog) Append(_ context.Context, entry domain.QueryLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.AppendErr != nil {
		return l.AppendErr
	}
	l.entries = append(l.entries, entry)
	return nil
}

// ReadAll returns a copy of all entries.
func (l *QueryLog) ReadAll(_ context.Context) ([]domain.QueryLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.QueryLogEntry{}, l.entries...), nil
}

// AppendRating adds a rating.
func (l *QueryLog) AppendRating(_ context.Context, rating domain.Rating) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.AppendErr != nil {
		return l.AppendErr
	}
	l.ratings = append(l.ratings, rating)
	return nil
}

// Ratings returns a copy of all ratings.
func (l *QueryLog) Ratings(_ context.Context) ([]domain.Rating, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Rating{}, l.ratings...), nil
}
