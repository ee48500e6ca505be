package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func testEntry(id, corpusID, name string, at time.Time) *domain.DocumentEntry {
	return &domain.DocumentEntry{
		ID:         id,
		CorpusID:   corpusID,
		Name:       name,
		UploadedAt: at,
		Status:     domain.DocumentPending,
		SizeBytes:  42,
		MIMEType:   "application/pdf",
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := setupTestStore(t)

	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.DocumentCache().Save(ctx, testEntry("e1", "c1", "a.pdf", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.DocumentCache().List(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	var versions int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestDocumentCache_SaveAndGet(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()
	ctx := context.Background()
	at := time.Date(2025, 2, 3, 4, 5, 6, 789, time.UTC)

	entry := testEntry("e1", "c1", "a.pdf", at)
	require.NoError(t, cache.Save(ctx, entry))

	got, err := cache.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, *entry, *got)
}

func TestDocumentCache_SaveUpdates(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()
	ctx := context.Background()
	entry := testEntry("e1", "c1", "a.pdf", time.Now().UTC())
	require.NoError(t, cache.Save(ctx, entry))

	entry.Status = domain.DocumentFailed
	entry.Error = "unsupported mime type"
	require.NoError(t, cache.Save(ctx, entry))

	got, err := cache.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentFailed, got.Status)
	assert.Equal(t, "unsupported mime type", got.Error)
}

func TestDocumentCache_GetNotFound(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()

	_, err := cache.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCache_ListOrdered(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Save(ctx, testEntry("3", "c1", "c.pdf", base.Add(time.Minute))))
	require.NoError(t, cache.Save(ctx, testEntry("2", "c1", "b.pdf", base)))
	require.NoError(t, cache.Save(ctx, testEntry("1", "c1", "a.pdf", base)))
	require.NoError(t, cache.Save(ctx, testEntry("x", "c2", "other.pdf", base)))

	entries, err := cache.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.pdf", entries[0].Name)
	assert.Equal(t, "b.pdf", entries[1].Name)
	assert.Equal(t, "c.pdf", entries[2].Name)
}

func TestDocumentCache_ListEmpty(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()

	entries, err := cache.List(context.Background(), "none")

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestDocumentCache_Delete(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()
	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, testEntry("e1", "c1", "a.pdf", time.Now())))

	require.NoError(t, cache.Delete(ctx, "e1"))
	require.NoError(t, cache.Delete(ctx, "e1"))

	_, err := cache.Get(ctx, "e1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCache_Replace(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, cache.Save(ctx, testEntry("old", "c1", "old.pdf", now)))
	require.NoError(t, cache.Save(ctx, testEntry("keep", "c2", "keep.pdf", now)))

	err := cache.Replace(ctx, "c1", []domain.DocumentEntry{
		*testEntry("n1", "", "n1.pdf", now),
		*testEntry("n2", "", "n2.pdf", now.Add(time.Second)),
	})
	require.NoError(t, err)

	entries, err := cache.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "n1", entries[0].ID)
	assert.Equal(t, "c1", entries[0].CorpusID)

	other, _ := cache.List(ctx, "c2")
	assert.Len(t, other, 1)
}

func TestDocumentCache_Purge(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()
	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, testEntry("e1", "c1", "a.pdf", time.Now())))
	require.NoError(t, cache.Save(ctx, testEntry("e2", "c2", "b.pdf", time.Now())))

	require.NoError(t, cache.Purge(ctx, "c1"))

	entries, _ := cache.List(ctx, "c1")
	assert.Empty(t, entries)
	entries, _ = cache.List(ctx, "c2")
	assert.Len(t, entries, 1)
}

func TestDocumentCache_InvalidStatusStoredAsPending(t *testing.T) {
	cache := setupTestStore(t).DocumentCache()
	ctx := context.Background()
	entry := testEntry("e1", "c1", "a.pdf", time.Now())
	entry.Status = ""

	require.NoError(t, cache.Save(ctx, entry))

	got, err := cache.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentPending, got.Status)
}
