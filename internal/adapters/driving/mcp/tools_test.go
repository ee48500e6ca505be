package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)

	t.Run("returns answer with sources", func(t *testing.T) {
		query := &mockQueryService{
			answer: &domain.Answer{
				Question:  "refund window?",
				Text:      "Thirty days.",
				Sources:   []string{"policy.pdf"},
				Timestamp: ts,
			},
		}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "refund window?"})

		require.NoError(t, err)
		assert.Equal(t, "refund window?", query.question)
		assert.Equal(t, "Thirty days.", output.Answer)
		assert.Equal(t, []string{"policy.pdf"}, output.Sources)
		assert.True(t, output.Found)
		assert.Equal(t, ts, output.Timestamp)
		assert.Empty(t, output.Warning)
	})

	t.Run("no sources is not found", func(t *testing.T) {
		query := &mockQueryService{answer: &domain.Answer{Text: "I don't know."}}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.NoError(t, err)
		assert.False(t, output.Found)
		assert.NotNil(t, output.Sources)
		assert.Empty(t, output.Sources)
	})

	t.Run("history warning is reported", func(t *testing.T) {
		query := &mockQueryService{answer: &domain.Answer{
			Text:    "yes",
			Warning: &domain.Warning{Op: "record query", Err: errors.New("disk full")},
		}}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.NoError(t, err)
		assert.Contains(t, output.Warning, "disk full")
	})

	t.Run("returns error on failure", func(t *testing.T) {
		query := &mockQueryService{err: domain.ErrNoStoreConfigured}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoStoreConfigured)
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("returns documents", func(t *testing.T) {
		docs := &mockDocumentService{listing: &domain.DocumentListing{
			Entries: []domain.DocumentEntry{
				{ID: "e1", Name: "a.pdf", Status: domain.DocumentActive},
				{ID: "e2", Name: "b.exe", Status: domain.DocumentFailed, Error: "unsupported"},
			},
		}}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Document: docs})
		require.NoError(t, err)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.False(t, output.Stale)
		assert.Equal(t, "a.pdf", output.Documents[0].Name)
		assert.Equal(t, "active", output.Documents[0].Status)
		assert.Equal(t, "failed", output.Documents[1].Status)
		assert.Equal(t, "unsupported", output.Documents[1].Error)
	})

	t.Run("stale listing is flagged", func(t *testing.T) {
		docs := &mockDocumentService{listing: &domain.DocumentListing{Stale: true}}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Document: docs})
		require.NoError(t, err)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.True(t, output.Stale)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNoStoreConfigured}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Document: docs})
		require.NoError(t, err)

		_, _, err = server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		assert.ErrorIs(t, err, domain.ErrNoStoreConfigured)
	})
}

func TestServer_handleStoreInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("reports store with remote counts", func(t *testing.T) {
		store := &mockStoreService{info: &domain.StoreInfo{
			Record: domain.StoreRecord{
				CorpusID:      "fileSearchStores/docs-1",
				DisplayName:   "Docs",
				DocumentCount: 2,
			},
			Remote: &domain.CorpusInfo{ActiveCount: 2, FailedCount: 1},
		}}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Store: store})
		require.NoError(t, err)

		_, output, err := server.handleStoreInfo(ctx, nil, StoreInfoInput{})

		require.NoError(t, err)
		assert.True(t, output.Configured)
		assert.Equal(t, "Docs", output.Name)
		assert.Equal(t, 2, output.DocumentCount)
		assert.Equal(t, int64(2), output.Active)
		assert.Equal(t, int64(1), output.Failed)
	})

	t.Run("no store is not an error", func(t *testing.T) {
		store := &mockStoreService{err: domain.NewOpError("store info", "", domain.ErrNoStoreConfigured, nil)}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Store: store})
		require.NoError(t, err)

		_, output, err := server.handleStoreInfo(ctx, nil, StoreInfoInput{})

		require.NoError(t, err)
		assert.False(t, output.Configured)
	})

	t.Run("remote failure is returned", func(t *testing.T) {
		store := &mockStoreService{err: domain.ErrTransport}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Store: store})
		require.NoError(t, err)

		_, _, err = server.handleStoreInfo(ctx, nil, StoreInfoInput{})

		assert.ErrorIs(t, err, domain.ErrTransport)
	})
}
