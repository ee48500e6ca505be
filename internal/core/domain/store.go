package domain

import "time"

// DefaultStoreName is the display name used when none is given.
const DefaultStoreName = "filerag_store"

// StoreRecord is the locally persisted reference to the remote corpus.
// At most one exists per installation.
type StoreRecord struct {
	// CorpusID is the opaque remote identifier. Empty means no store.
	CorpusID string

	// DisplayName is the human-readable name given at creation.
	DisplayName string

	// CreatedAt is when the corpus was created.
	CreatedAt time.Time

	// DocumentCount is the locally tracked number of active documents.
	// It is advisory; the remote listing is authoritative.
	DocumentCount int
}

// IsZero returns true if the record does not reference a corpus.
func (r *StoreRecord) IsZero() bool {
	return r == nil || r.CorpusID == ""
}

// CorpusInfo is the remote view of a corpus.
type CorpusInfo struct {
	ID           string
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ActiveCount  int64
	PendingCount int64
	FailedCount  int64
	SizeBytes    int64
}

// StoreInfo combines the local record with the remote view.
type StoreInfo struct {
	Record StoreRecord
	Remote *CorpusInfo
}
