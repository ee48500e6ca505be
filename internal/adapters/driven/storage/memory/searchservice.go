package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
)

// Ensure SearchService implements the interface.
var _ driven.SearchService = (*SearchService)(nil)

// Operation names accepted by FailNext.
const (
	OpCreateCorpus   = "CreateCorpus"
	OpDeleteCorpus   = "DeleteCorpus"
	OpGetCorpus      = "GetCorpus"
	OpUploadDocument = "UploadDocument"
	OpListDocuments  = "ListDocuments"
	OpDeleteDocument = "DeleteDocument"
	OpQuery          = "Query"
)

type fakeCorpus struct {
	info      domain.CorpusInfo
	documents map[string]domain.RemoteDocument
	order     []string
}

// SearchService is a scriptable in-memory fake of the remote search service.
type SearchService struct {
	mu       sync.Mutex
	corpora  map[string]*fakeCorpus
	seq      int
	failNext map[string]error
	rejected map[string]error
	calls    []string

	// Answer, when set, replaces the default query behaviour.
	Answer func(corpusID, question string) (*domain.QueryResult, error)
}

// NewSearchService creates an empty fake.
func NewSearchService() *SearchService {
	return &SearchService{
		corpora:  make(map[string]*fakeCorpus),
		failNext: make(map[string]error),
		rejected: make(map[string]error),
	}
}

// FailNext makes the next call of op return err.
func (s *SearchService) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[op] = err
}

// RejectUpload makes every upload of fileName fail with err.
func (s *SearchService) RejectUpload(fileName string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected[fileName] = err
}

// RemoveCorpus deletes a corpus behind the application's back.
func (s *SearchService) RemoveCorpus(corpusID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.corpora, corpusID)
}

// SetDocumentStatus changes the processing state of a stored document.
func (s *SearchService) SetDocumentStatus(corpusID, documentID string, status domain.DocumentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.corpora[corpusID]
	if !ok {
		return
	}
	if d, ok := c.documents[documentID]; ok {
		d.Status = status
		c.documents[documentID] = d
	}
}

// HasDocument reports whether a document is stored in the corpus.
func (s *SearchService) HasDocument(corpusID, documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.corpora[corpusID]
	if !ok {
		return false
	}
	_, ok = c.documents[documentID]
	return ok
}

// HasCorpus reports whether the corpus exists.
func (s *SearchService) HasCorpus(corpusID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.corpora[corpusID]
	return ok
}

// CorpusCount returns the number of existing corpora.
func (s *SearchService) CorpusCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.corpora)
}

// Calls returns the operations invoked so far.
func (s *SearchService) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.calls...)
}

// begin records the call and returns an injected failure, if any.
func (s *SearchService) begin(op string) error {
	s.calls = append(s.calls, op)
	if err, ok := s.failNext[op]; ok {
		delete(s.failNext, op)
		return err
	}
	return nil
}

func (s *SearchService) corpus(op, corpusID string) (*fakeCorpus, error) {
	c, ok := s.corpora[corpusID]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, corpusID, domain.ErrNotFound)
	}
	return c, nil
}

// CreateCorpus creates a new corpus.
func (s *SearchService) CreateCorpus(_ context.Context, displayName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpCreateCorpus); err != nil {
		return "", err
	}
	s.seq++
	id := fmt.Sprintf("fileSearchStores/fake-%d", s.seq)
	s.corpora[id] = &fakeCorpus{
		info: domain.CorpusInfo{
			ID:          id,
			DisplayName: displayName,
			CreatedAt:   time.Now().UTC(),
		},
		documents: make(map[string]domain.RemoteDocument),
	}
	return id, nil
}

// DeleteCorpus deletes a corpus and its documents.
func (s *SearchService) DeleteCorpus(_ context.Context, corpusID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpDeleteCorpus); err != nil {
		return err
	}
	if _, err := s.corpus(OpDeleteCorpus, corpusID); err != nil {
		return err
	}
	delete(s.corpora, corpusID)
	return nil
}

// GetCorpus returns the corpus with its document counts.
func (s *SearchService) GetCorpus(_ context.Context, corpusID string) (*domain.CorpusInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetCorpus); err != nil {
		return nil, err
	}
	c, err := s.corpus(OpGetCorpus, corpusID)
	if err != nil {
		return nil, err
	}
	info := c.info
	for _, d := range c.documents {
		info.SizeBytes += d.SizeBytes
		switch d.Status {
		case domain.DocumentPending:
			info.PendingCount++
		case domain.DocumentFailed:
			info.FailedCount++
		default:
			info.ActiveCount++
		}
	}
	return &info, nil
}

// UploadDocument stores a document as immediately active.
func (s *SearchService) UploadDocument(_ context.Context, corpusID string, content []byte, fileName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpUploadDocument); err != nil {
		return "", err
	}
	c, err := s.corpus(OpUploadDocument, corpusID)
	if err != nil {
		return "", err
	}
	if err, ok := s.rejected[fileName]; ok {
		return "", err
	}
	s.seq++
	id := fmt.Sprintf("%s/documents/doc-%d", corpusID, s.seq)
	c.documents[id] = domain.RemoteDocument{
		ID:          id,
		DisplayName: fileName,
		Status:      domain.DocumentActive,
		SizeBytes:   int64(len(content)),
		MIMEType:    "application/octet-stream",
		CreatedAt:   time.Now().UTC(),
	}
	c.order = append(c.order, id)
	return id, nil
}

// ListDocuments returns the documents in upload order.
func (s *SearchService) ListDocuments(_ context.Context, corpusID string) ([]domain.RemoteDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpListDocuments); err != nil {
		return nil, err
	}
	c, err := s.corpus(OpListDocuments, corpusID)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.RemoteDocument, 0, len(c.documents))
	for _, id := range c.order {
		if d, ok := c.documents[id]; ok {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

// DeleteDocument removes a document.
func (s *SearchService) DeleteDocument(_ context.Context, corpusID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpDeleteDocument); err != nil {
		return err
	}
	c, err := s.corpus(OpDeleteDocument, corpusID)
	if err != nil {
		return err
	}
	if _, ok := c.documents[documentID]; !ok {
		return fmt.Errorf("%s %s: %w", OpDeleteDocument, documentID, domain.ErrNotFound)
	}
	delete(c.documents, documentID)
	return nil
}

// Query answers with every document name in the corpus as a source,
// unless Answer is set.
func (s *SearchService) Query(_ context.Context, corpusID, question string) (*domain.QueryResult, error) {
	s.mu.Lock()
	if err := s.begin(OpQuery); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	c, err := s.corpus(OpQuery, corpusID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	sources := make([]string, 0, len(c.documents))
	for _, d := range c.documents {
		sources = append(sources, d.DisplayName)
	}
	answer := s.Answer
	s.mu.Unlock()

	if answer != nil {
		return answer(corpusID, question)
	}
	sort.Strings(sources)
	return &domain.QueryResult{
		Answer:  "answer: " + strings.TrimSpace(question),
		Sources: sources,
	}, nil
}
