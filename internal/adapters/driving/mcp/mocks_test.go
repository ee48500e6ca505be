package mcp

import (
	"context"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockQueryService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	listing *domain.DocumentListing
	err     error
}

func (m *mockDocumentService) Upload(_ context.Context, _ []byte, _ string) (*domain.DocumentEntry, error) {
	return nil, m.err
}

func (m *mockDocumentService) UploadBatch(
	_ context.Context,
	_ []domain.UploadFile,
	_ domain.ProgressFunc,
) []domain.UploadResult {
	return nil
}

func (m *mockDocumentService) List(_ context.Context) (*domain.DocumentListing, error) {
	return m.listing, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockStoreService is a mock implementation of driving.StoreService.
type mockStoreService struct {
	info *domain.StoreInfo
	err  error
}

func (m *mockStoreService) Ensure(_ context.Context) (*domain.StoreRecord, error) {
	return nil, m.err
}

func (m *mockStoreService) Create(_ context.Context, _ string) (*domain.StoreRecord, error) {
	return nil, m.err
}

func (m *mockStoreService) Delete(_ context.Context) error {
	return m.err
}

func (m *mockStoreService) Info(_ context.Context) (*domain.StoreInfo, error) {
	return m.info, m.err
}

func (m *mockStoreService) Current() (*domain.StoreRecord, error) {
	if m.info == nil {
		return nil, m.err
	}
	return &m.info.Record, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	exports map[domain.ExportFormat]string
	err     error
}

func (m *mockHistoryService) Record(
	_ context.Context, _, _ string, _ []string,
) (*domain.QueryLogEntry, error) {
	return nil, m.err
}

func (m *mockHistoryService) ExportAll(_ context.Context, format domain.ExportFormat) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.exports[format]), nil
}

func (m *mockHistoryService) Entries(_ context.Context) ([]domain.QueryLogEntry, error) {
	return nil, m.err
}

func (m *mockHistoryService) Count(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockHistoryService) Rate(_ context.Context, _ string, _ int, _ string) error {
	return m.err
}
