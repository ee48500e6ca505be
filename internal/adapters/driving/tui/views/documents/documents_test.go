package documents

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/messages"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/styles"
	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc func(ctx context.Context) (*domain.DocumentListing, error)
}

func (m *MockDocumentService) Upload(ctx context.Context, content []byte, fileName string) (*domain.DocumentEntry, error) {
	return nil, errors.New("not implemented")
}

func (m *MockDocumentService) UploadBatch(
	ctx context.Context,
	files []domain.UploadFile,
	progress domain.ProgressFunc,
) []domain.UploadResult {
	return nil
}

func (m *MockDocumentService) List(ctx context.Context) (*domain.DocumentListing, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return &domain.DocumentListing{}, nil
}

func (m *MockDocumentService) Delete(ctx context.Context, ref string) error {
	return nil
}

func testEntries() []domain.DocumentEntry {
	uploaded := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []domain.DocumentEntry{
		{ID: "1", Name: "policy.pdf", RemoteID: "r1", Status: domain.DocumentActive, UploadedAt: uploaded},
		{ID: "2", Name: "notes.txt", Status: domain.DocumentFailed, Error: "unsupported format", UploadedAt: uploaded},
		{ID: "3", Name: "faq.md", RemoteID: "r3", Status: domain.DocumentPending, UploadedAt: uploaded},
	}
}

func loadedView(t *testing.T, listing *domain.DocumentListing) *View {
	t.Helper()
	svc := &MockDocumentService{
		ListFunc: func(ctx context.Context) (*domain.DocumentListing, error) {
			return listing, nil
		},
	}
	v := NewView(styles.DefaultStyles(), nil, svc)
	v.SetDimensions(100, 30)
	cmd := v.Load()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.Empty(t, v.Documents())
	assert.Nil(t, v.Init())
	assert.Nil(t, v.SelectedDocument())
}

func TestView_Load(t *testing.T) {
	v := loadedView(t, &domain.DocumentListing{Entries: testEntries()})

	assert.False(t, v.Loading())
	assert.Len(t, v.Documents(), 3)
	assert.False(t, v.Stale())
	assert.NoError(t, v.Err())

	view := v.View()
	assert.Contains(t, view, "Documents (3)")
	assert.Contains(t, view, "policy.pdf")
	assert.Contains(t, view, "active")
	assert.Contains(t, view, "failed")
	assert.Contains(t, view, "pending")
}

func TestView_Load_ShowsLoading(t *testing.T) {
	v := NewView(nil, nil, &MockDocumentService{})

	v.Load()

	assert.True(t, v.Loading())
	assert.Contains(t, v.View(), "Loading documents...")
}

func TestView_Load_Error(t *testing.T) {
	svc := &MockDocumentService{
		ListFunc: func(ctx context.Context) (*domain.DocumentListing, error) {
			return nil, domain.ErrNoStoreConfigured
		},
	}
	v := NewView(nil, nil, svc)

	v.Update(v.Load()())

	assert.ErrorIs(t, v.Err(), domain.ErrNoStoreConfigured)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_Load_NoService(t *testing.T) {
	v := NewView(nil, nil, nil)

	msg := v.Load()().(messages.DocumentsLoaded)

	assert.ErrorIs(t, msg.Err, errNoDocumentService)
}

func TestView_Stale(t *testing.T) {
	v := loadedView(t, &domain.DocumentListing{
		Entries: testEntries(),
		Stale:   true,
		Cause:   fmt.Errorf("%w: connection refused", domain.ErrTransport),
	})

	assert.True(t, v.Stale())
	view := v.View()
	assert.Contains(t, view, "Offline: showing the last known list")
	assert.Contains(t, view, "connection refused")
}

func TestView_Empty(t *testing.T) {
	v := loadedView(t, &domain.DocumentListing{})

	assert.Contains(t, v.View(), "No documents uploaded yet.")
}

func TestView_Navigation(t *testing.T) {
	v := loadedView(t, &domain.DocumentListing{Entries: testEntries()})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.SelectedIndex())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, v.SelectedIndex())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.SelectedIndex())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_FailedDocumentShowsReason(t *testing.T) {
	v := loadedView(t, &domain.DocumentListing{Entries: testEntries()})

	assert.NotContains(t, v.View(), "Failed: unsupported format")

	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	require.NotNil(t, v.SelectedDocument())
	assert.Equal(t, "notes.txt", v.SelectedDocument().Name)
	assert.Contains(t, v.View(), "Failed: unsupported format")
}

func TestView_Refresh(t *testing.T) {
	calls := 0
	svc := &MockDocumentService{
		ListFunc: func(ctx context.Context) (*domain.DocumentListing, error) {
			calls++
			return &domain.DocumentListing{Entries: testEntries()}, nil
		},
	}
	v := NewView(nil, nil, svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())

	v.Update(cmd())
	assert.Equal(t, 1, calls)
	assert.Len(t, v.Documents(), 3)
}

func TestView_Back(t *testing.T) {
	v := NewView(nil, nil, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())
}

func TestView_ReloadResetsSelection(t *testing.T) {
	v := loadedView(t, &domain.DocumentListing{Entries: testEntries()})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	v.Update(messages.DocumentsLoaded{Listing: &domain.DocumentListing{Entries: testEntries()[:1]}})

	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_Scroll(t *testing.T) {
	entries := make([]domain.DocumentEntry, 30)
	for i := range entries {
		entries[i] = domain.DocumentEntry{ID: fmt.Sprint(i), Name: fmt.Sprintf("doc-%02d.txt", i), Status: domain.DocumentActive}
	}
	v := loadedView(t, &domain.DocumentListing{Entries: entries})
	v.SetDimensions(100, 15)

	for i := 0; i < 10; i++ {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	view := v.View()
	assert.Contains(t, view, "doc-10.txt")
	assert.NotContains(t, view, "doc-00.txt")
	assert.Contains(t, view, "of 30]")
}

func TestView_ErrorOccurred(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}
