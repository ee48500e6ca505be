package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// Ensure StoreService implements the interface.
var _ driving.StoreService = (*StoreService)(nil)

// StoreService manages the lifecycle of the single remote corpus.
type StoreService struct {
	search driven.SearchService
	state  driven.StateStore
	cache  driven.DocumentCache
	now    func() time.Time
}

// NewStoreService creates a new store service.
func NewStoreService(
	search driven.SearchService,
	state driven.StateStore,
	cache driven.DocumentCache,
) *StoreService {
	return &StoreService{
		search: search,
		state:  state,
		cache:  cache,
		now:    time.Now,
	}
}

// Current returns the locally recorded corpus.
func (s *StoreService) Current() (*domain.StoreRecord, error) {
	return loadRecord(s.state, "load store")
}

// Ensure verifies the recorded corpus still exists remotely.
func (s *StoreService) Ensure(ctx context.Context) (*domain.StoreRecord, error) {
	_, record, err := s.ensureWithInfo(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *StoreService) ensureWithInfo(ctx context.Context) (*domain.CorpusInfo, *domain.StoreRecord, error) {
	logger.Section("Ensure Store")

	record, err := loadRecord(s.state, "ensure store")
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Checking remote corpus %s", record.CorpusID)
	info, err := s.search.GetCorpus(ctx, record.CorpusID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("Remote corpus %s is gone, clearing local state", record.CorpusID)
		if clearErr := s.clearLocal(ctx, record.CorpusID); clearErr != nil {
			return nil, nil, domain.NewOpError("ensure store", record.CorpusID, domain.ErrStoreStale, clearErr)
		}
		return nil, nil, domain.NewOpError("ensure store", record.CorpusID, domain.ErrStoreStale, nil)
	}
	if err != nil {
		return nil, nil, domain.NewOpError("ensure store", record.CorpusID, transportKind(err), err)
	}
	return info, record, nil
}

// Create creates a remote corpus and records it locally.
func (s *StoreService) Create(ctx context.Context, displayName string) (*domain.StoreRecord, error) {
	logger.Section("Create Store")

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = domain.DefaultStoreName
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	existing, err := s.state.Load()
	switch {
	case err == nil && !existing.IsZero():
		return nil, domain.NewOpError("create store", existing.CorpusID, domain.ErrAlreadyExists, nil)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("create store: load store record: %w", err)
	}

	corpusID, err := s.search.CreateCorpus(ctx, displayName)
	if err != nil {
		return nil, domain.NewOpError("create store", displayName, transportKind(err), err)
	}
	logger.Debug("Created remote corpus %s", corpusID)

	record := &domain.StoreRecord{
		CorpusID:    corpusID,
		DisplayName: displayName,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.state.Save(record); err != nil {
		// Compensate so no unrecorded corpus is left behind.
		if delErr := s.search.DeleteCorpus(ctx, corpusID); delErr != nil {
			logger.Warn("remote corpus %s was created but could not be recorded or removed: %v", corpusID, delErr)
		}
		return nil, fmt.Errorf("create store: save store record: %w", err)
	}

	if err := s.cache.Purge(ctx, corpusID); err != nil {
		logger.Warn("purge document cache of %s: %v", corpusID, err)
	}

	logger.Info("Store %q recorded as %s", displayName, corpusID)
	return record, nil
}

// Delete deletes the remote corpus and clears local state.
func (s *StoreService) Delete(ctx context.Context) error {
	logger.Section("Delete Store")

	stateMu.Lock()
	defer stateMu.Unlock()

	record, err := loadRecord(s.state, "delete store")
	if err != nil {
		return err
	}

	err = s.search.DeleteCorpus(ctx, record.CorpusID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("Remote corpus %s already gone", record.CorpusID)
	case err != nil:
		return domain.NewOpError("delete store", record.CorpusID, domain.ErrRemoteDeleteFailed, err)
	}

	if err := s.state.Clear(); err != nil {
		return fmt.Errorf("delete store: clear store record: %w", err)
	}
	if err := s.cache.Purge(ctx, record.CorpusID); err != nil {
		logger.Warn("purge document cache of %s: %v", record.CorpusID, err)
	}

	logger.Info("Store %s deleted", record.CorpusID)
	return nil
}

// Info returns the local record together with the remote counts.
func (s *StoreService) Info(ctx context.Context) (*domain.StoreInfo, error) {
	info, record, err := s.ensureWithInfo(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.StoreInfo{Record: *record, Remote: info}, nil
}

// clearLocal removes the record and its cached documents.
func (s *StoreService) clearLocal(ctx context.Context, corpusID string) error {
	stateMu.Lock()
	defer stateMu.Unlock()

	current, err := s.state.Load()
	if err == nil && current.CorpusID != corpusID {
		return nil
	}
	if err := s.state.Clear(); err != nil {
		return fmt.Errorf("clear store record: %w", err)
	}
	if err := s.cache.Purge(ctx, corpusID); err != nil {
		return fmt.Errorf("purge document cache: %w", err)
	}
	return nil
}

// transportKind picks the domain kind for a remote failure.
// Errors already classified by the adapter keep their kind.
func transportKind(err error) error {
	for _, kind := range []error{
		domain.ErrNotFound,
		domain.ErrUnauthorized,
		domain.ErrRateLimited,
		domain.ErrInvalidInput,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return domain.ErrTransport
}
