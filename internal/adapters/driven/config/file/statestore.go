package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

const stateFileVersion = 1

// stateFile is the on-disk layout of store.toml.
type stateFile struct {
	Version int          `toml:"version"`
	Store   storeSection `toml:"store"`
}

type storeSection struct {
	CorpusID      string    `toml:"corpus_id"`
	DisplayName   string    `toml:"display_name"`
	CreatedAt     time.Time `toml:"created_at"`
	DocumentCount int       `toml:"document_count"`
}

// StateStore persists the active StoreRecord as store.toml.
// An absent file means no store is configured.
type StateStore struct {
	mu       sync.Mutex
	filePath string
}

// NewStateStore creates a state store in dir, creating dir if needed.
func NewStateStore(dir string) (*StateStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &StateStore{filePath: filepath.Join(dir, "store.toml")}, nil
}

// Path returns the state file path.
func (s *StateStore) Path() string {
	return s.filePath
}

// Load returns the persisted record or domain.ErrNotFound.
func (s *StateStore) Load() (*domain.StoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read store record: %w", err)
	}

	var f stateFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode store record %s: %w", s.filePath, err)
	}
	if f.Store.CorpusID == "" {
		return nil, domain.ErrNotFound
	}

	return &domain.StoreRecord{
		CorpusID:      f.Store.CorpusID,
		DisplayName:   f.Store.DisplayName,
		CreatedAt:     f.Store.CreatedAt,
		DocumentCount: f.Store.DocumentCount,
	}, nil
}

// Save atomically replaces the persisted record.
func (s *StateStore) Save(record *domain.StoreRecord) error {
	if record.IsZero() {
		return fmt.Errorf("save store record: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(stateFile{
		Version: stateFileVersion,
		Store: storeSection{
			CorpusID:      record.CorpusID,
			DisplayName:   record.DisplayName,
			CreatedAt:     record.CreatedAt.UTC(),
			DocumentCount: record.DocumentCount,
		},
	})
	if err != nil {
		return fmt.Errorf("encode store record: %w", err)
	}
	if err := writeFileAtomic(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("save store record: %w", err)
	}
	return nil
}

// Clear removes the state file.
func (s *StateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear store record: %w", err)
	}
	return nil
}
