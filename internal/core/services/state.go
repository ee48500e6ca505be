package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// stateMu serialises read-modify-write sequences on the StoreRecord
// across the store and document services.
var stateMu sync.Mutex

// loadRecord returns the active record or domain.ErrNoStoreConfigured.
func loadRecord(state driven.StateStore, op string) (*domain.StoreRecord, error) {
	record, err := state.Load()
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewOpError(op, "", domain.ErrNoStoreConfigured, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load store record: %w", op, err)
	}
	if record.IsZero() {
		return nil, domain.NewOpError(op, "", domain.ErrNoStoreConfigured, nil)
	}
	return record, nil
}

// adjustDocumentCount applies delta to the record of corpusID.
// The count is advisory, so failures are logged rather than returned.
// A record that was cleared or replaced in the meantime is left alone.
func adjustDocumentCount(state driven.StateStore, corpusID string, delta int) {
	stateMu.Lock()
	defer stateMu.Unlock()

	record, err := state.Load()
	if err != nil || record.CorpusID != corpusID {
		return
	}
	record.DocumentCount += delta
	if record.DocumentCount < 0 {
		record.DocumentCount = 0
	}
	if err := state.Save(record); err != nil {
		logger.Warn("update document count of %s: %v", corpusID, err)
	}
}
