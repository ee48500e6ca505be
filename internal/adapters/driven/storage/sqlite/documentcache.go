package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
)

// documentCache implements driven.DocumentCache.
type documentCache struct {
	store *Store
}

var _ driven.DocumentCache = (*documentCache)(nil)

const entryColumns = `id, corpus_id, name, remote_id, uploaded_at, status, error, size_bytes, mime_type`

const upsertEntry = `
	INSERT INTO document_entries (` + entryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		corpus_id = excluded.corpus_id,
		name = excluded.name,
		remote_id = excluded.remote_id,
		uploaded_at = excluded.uploaded_at,
		status = excluded.status,
		error = excluded.error,
		size_bytes = excluded.size_bytes,
		mime_type = excluded.mime_type
`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveEntry(ctx context.Context, db execer, entry *domain.DocumentEntry) error {
	status := entry.Status
	if !status.IsValid() {
		status = domain.DocumentPending
	}
	_, err := db.ExecContext(ctx, upsertEntry,
		entry.ID, entry.CorpusID, entry.Name, entry.RemoteID,
		entry.UploadedAt.UTC().UnixNano(), string(status), entry.Error,
		entry.SizeBytes, entry.MIMEType)
	if err != nil {
		return fmt.Errorf("saving document entry %s: %w", entry.ID, err)
	}
	return nil
}

// Save inserts or updates an entry.
func (c *documentCache) Save(ctx context.Context, entry *domain.DocumentEntry) error {
	return saveEntry(ctx, c.store.db, entry)
}

// Get retrieves an entry by ID.
func (c *documentCache) Get(ctx context.Context, id string) (*domain.DocumentEntry, error) {
	row := c.store.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM document_entries WHERE id = ?", id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the entries of a corpus ordered by upload time, then name.
func (c *documentCache) List(ctx context.Context, corpusID string) ([]domain.DocumentEntry, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM document_entries WHERE corpus_id = ?
		ORDER BY uploaded_at, name
	`, corpusID)
	if err != nil {
		return nil, fmt.Errorf("querying document entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.DocumentEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document entries: %w", err)
	}

	return entries, nil
}

// Delete removes an entry.
func (c *documentCache) Delete(ctx context.Context, id string) error {
	_, err := c.store.db.ExecContext(ctx, "DELETE FROM document_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document entry: %w", err)
	}
	return nil
}

// Replace swaps every entry of a corpus for the given set in one transaction.
func (c *documentCache) Replace(ctx context.Context, corpusID string, entries []domain.DocumentEntry) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_entries WHERE corpus_id = ?", corpusID); err != nil {
		return fmt.Errorf("clearing document entries: %w", err)
	}
	for i := range entries {
		entry := entries[i]
		entry.CorpusID = corpusID
		if err := saveEntry(ctx, tx, &entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document entries: %w", err)
	}
	return nil
}

// Purge removes every entry of a corpus.
func (c *documentCache) Purge(ctx context.Context, corpusID string) error {
	_, err := c.store.db.ExecContext(ctx, "DELETE FROM document_entries WHERE corpus_id = ?", corpusID)
	if err != nil {
		return fmt.Errorf("purging document entries: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*domain.DocumentEntry, error) {
	var entry domain.DocumentEntry
	var uploadedAt int64
	var status string

	if err := row.Scan(&entry.ID, &entry.CorpusID, &entry.Name, &entry.RemoteID,
		&uploadedAt, &status, &entry.Error, &entry.SizeBytes, &entry.MIMEType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document entry: %w", err)
	}

	entry.UploadedAt = time.Unix(0, uploadedAt).UTC()
	entry.Status = domain.DocumentStatus(status)
	return &entry, nil
}
