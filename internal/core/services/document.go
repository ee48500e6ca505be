package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages documents in the active corpus.
type DocumentService struct {
	mu     sync.Mutex
	search driven.SearchService
	state  driven.StateStore
	cache  driven.DocumentCache
	now    func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	search driven.SearchService,
	state driven.StateStore,
	cache driven.DocumentCache,
) *DocumentService {
	return &DocumentService{
		search: search,
		state:  state,
		cache:  cache,
		now:    time.Now,
	}
}

// Upload uploads one file and waits for it to be indexed.
func (s *DocumentService) Upload(ctx context.Context, content []byte, fileName string) (*domain.DocumentEntry, error) {
	return s.upload(ctx, domain.UploadFile{Name: fileName, Content: content})
}

func (s *DocumentService) upload(ctx context.Context, f domain.UploadFile) (*domain.DocumentEntry, error) {
	logger.Section("Upload Document")

	name := cleanFileName(f.Name)
	if name == "" {
		return nil, domain.NewOpError("upload document", f.Name, domain.ErrInvalidInput, errors.New("file name is empty"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := loadRecord(s.state, "upload document")
	if err != nil {
		return nil, err
	}

	entry, err := s.entryForUpload(ctx, record.CorpusID, name)
	if err != nil {
		return nil, err
	}
	entry.UploadedAt = s.now().UTC()
	entry.Status = domain.DocumentPending
	entry.Error = ""
	entry.SizeBytes = int64(len(f.Content))

	rejected := f.Err
	if rejected == nil && len(f.Content) == 0 {
		rejected = errors.New("file is empty")
	}
	if rejected != nil {
		return s.fail(ctx, entry, rejected)
	}

	if err := s.cache.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("upload document %s: save entry: %w", name, err)
	}

	logger.Debug("Uploading %s (%d bytes) to %s", name, len(f.Content), record.CorpusID)
	remoteID, err := s.search.UploadDocument(ctx, record.CorpusID, f.Content, name)
	if err != nil {
		return s.fail(ctx, entry, err)
	}

	entry.RemoteID = remoteID
	entry.Status = domain.DocumentActive
	if err := s.cache.Save(ctx, entry); err != nil {
		logger.Warn("record upload of %s: %v", name, err)
	}
	adjustDocumentCount(s.state, record.CorpusID, 1)

	logger.Info("Uploaded %s as %s", name, remoteID)
	return entry, nil
}

// fail records entry as failed with cause as the reason.
func (s *DocumentService) fail(ctx context.Context, entry *domain.DocumentEntry, cause error) (*domain.DocumentEntry, error) {
	entry.Status = domain.DocumentFailed
	entry.Error = cause.Error()
	if err := s.cache.Save(ctx, entry); err != nil {
		logger.Warn("record failed upload of %s: %v", entry.Name, err)
	}
	return entry, domain.NewOpError("upload document", entry.Name, domain.ErrUploadFailed, cause)
}

// entryForUpload returns the entry to reuse for a retry or a fresh one.
// A failed entry that still has a remote document loses it first.
func (s *DocumentService) entryForUpload(ctx context.Context, corpusID, name string) (*domain.DocumentEntry, error) {
	entries, err := s.cache.List(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("upload document %s: read cache: %w", name, err)
	}
	for i := range entries {
		if entries[i].Name != name {
			continue
		}
		if entries[i].Status != domain.DocumentFailed {
			return nil, domain.NewOpError("upload document", name, domain.ErrAlreadyExists, nil)
		}
		entry := entries[i]
		if entry.RemoteID != "" {
			logger.Debug("Removing failed remote document %s before retry", entry.RemoteID)
			err := s.search.DeleteDocument(ctx, corpusID, entry.RemoteID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewOpError("upload document", name, transportKind(err), err)
			}
			entry.RemoteID = ""
		}
		return &entry, nil
	}
	return &domain.DocumentEntry{
		ID:       uuid.New().String(),
		CorpusID: corpusID,
		Name:     name,
	}, nil
}

// UploadBatch uploads files sequentially in input order.
func (s *DocumentService) UploadBatch(
	ctx context.Context,
	files []domain.UploadFile,
	progress domain.ProgressFunc,
) []domain.UploadResult {
	results := make([]domain.UploadResult, 0, len(files))
	for i, f := range files {
		entry, err := s.upload(ctx, f)
		result := domain.UploadResult{Name: f.Name, Entry: entry, Err: err}
		results = append(results, result)
		if progress != nil {
			progress(i+1, len(files), result)
		}
	}
	return results
}

// List returns the documents of the active corpus.
func (s *DocumentService) List(ctx context.Context) (*domain.DocumentListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := loadRecord(s.state, "list documents")
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.List(ctx, record.CorpusID)
	if err != nil {
		return nil, fmt.Errorf("list documents: read cache: %w", err)
	}

	remote, err := s.search.ListDocuments(ctx, record.CorpusID)
	if err != nil {
		logger.Warn("remote listing unavailable, showing cached documents: %v", err)
		return &domain.DocumentListing{
			Entries: cached,
			Stale:   true,
			Cause:   domain.NewOpError("list documents", record.CorpusID, domain.ErrStale, err),
		}, nil
	}

	merged := mergeListing(record.CorpusID, cached, remote, s.now)
	if err := s.cache.Replace(ctx, record.CorpusID, merged); err != nil {
		logger.Warn("refresh document cache: %v", err)
	}
	return &domain.DocumentListing{Entries: merged}, nil
}

// Delete removes a document addressed by local ID, remote ID or name.
func (s *DocumentService) Delete(ctx context.Context, ref string) error {
	logger.Section("Delete Document")

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := loadRecord(s.state, "delete document")
	if err != nil {
		return err
	}

	entries, err := s.cache.List(ctx, record.CorpusID)
	if err != nil {
		return fmt.Errorf("delete document: read cache: %w", err)
	}
	target := findEntry(entries, strings.TrimSpace(ref))
	if target == nil {
		return domain.NewOpError("delete document", ref, domain.ErrNotFound, nil)
	}

	if target.RemoteID != "" {
		logger.Debug("Deleting remote document %s", target.RemoteID)
		err := s.search.DeleteDocument(ctx, record.CorpusID, target.RemoteID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.NewOpError("delete document", target.Name, transportKind(err), err)
		}
	}

	if err := s.cache.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("delete document %s: remove entry: %w", target.Name, err)
	}
	if target.Status == domain.DocumentActive {
		adjustDocumentCount(s.state, record.CorpusID, -1)
	}

	logger.Info("Deleted %s", target.Name)
	return nil
}

// findEntry resolves ref by local ID first, then remote ID, then name.
func findEntry(entries []domain.DocumentEntry, ref string) *domain.DocumentEntry {
	if ref == "" {
		return nil
	}
	for _, match := range []func(e *domain.DocumentEntry) bool{
		func(e *domain.DocumentEntry) bool { return e.ID == ref },
		func(e *domain.DocumentEntry) bool { return e.RemoteID != "" && e.RemoteID == ref },
		func(e *domain.DocumentEntry) bool { return e.Name == ref },
	} {
		for i := range entries {
			if match(&entries[i]) {
				return &entries[i]
			}
		}
	}
	return nil
}

// mergeListing reconciles the cache with the authoritative remote listing.
// Cached entries keep their local ID, name and upload time; entries that
// never reached the remote service are kept; cached entries missing
// remotely are dropped.
func mergeListing(
	corpusID string,
	cached []domain.DocumentEntry,
	remote []domain.RemoteDocument,
	now func() time.Time,
) []domain.DocumentEntry {
	byRemoteID := make(map[string]domain.DocumentEntry, len(cached))
	for _, e := range cached {
		if e.RemoteID != "" {
			byRemoteID[e.RemoteID] = e
		}
	}

	merged := make([]domain.DocumentEntry, 0, len(remote)+len(cached))
	for _, rd := range remote {
		entry, ok := byRemoteID[rd.ID]
		if !ok {
			entry = domain.DocumentEntry{
				ID:         uuid.New().String(),
				CorpusID:   corpusID,
				Name:       rd.DisplayName,
				RemoteID:   rd.ID,
				UploadedAt: rd.CreatedAt,
			}
			if entry.Name == "" {
				entry.Name = rd.ID
			}
			if entry.UploadedAt.IsZero() {
				entry.UploadedAt = now().UTC()
			}
		}
		if rd.Status.IsValid() {
			entry.Status = rd.Status
		}
		if !entry.Status.IsValid() {
			entry.Status = domain.DocumentActive
		}
		if rd.Status != domain.DocumentFailed {
			entry.Error = ""
		}
		if rd.SizeBytes > 0 {
			entry.SizeBytes = rd.SizeBytes
		}
		if rd.MIMEType != "" {
			entry.MIMEType = rd.MIMEType
		}
		merged = append(merged, entry)
	}

	for _, e := range cached {
		if e.RemoteID == "" {
			merged = append(merged, e)
		}
	}

	domain.SortEntries(merged)
	return merged
}

// cleanFileName reduces a path to its base name.
func cleanFileName(fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
