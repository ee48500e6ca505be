package domain

import (
	"sort"
	"time"
)

// DocumentStatus is the lifecycle state of a document entry.
type DocumentStatus string

// Available document states.
const (
	// DocumentPending means the upload started but indexing is not confirmed.
	DocumentPending DocumentStatus = "pending"

	// DocumentActive means the remote service has indexed the document.
	DocumentActive DocumentStatus = "active"

	// DocumentFailed means the upload or indexing failed.
	DocumentFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentPending, DocumentActive, DocumentFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// DocumentEntry is the local record of one document in the corpus.
type DocumentEntry struct {
	// ID is a locally generated identifier. Failed uploads never receive
	// a remote identifier, so this is how they are addressed.
	ID string

	// CorpusID links to the owning StoreRecord.
	CorpusID string

	// Name is the original file name.
	Name string

	// RemoteID is the identifier assigned by the remote service.
	// Empty until the upload succeeds.
	RemoteID string

	// UploadedAt is when the upload started.
	UploadedAt time.Time

	// Status is the lifecycle state.
	Status DocumentStatus

	// Error holds the failure reason for failed entries.
	Error string

	// SizeBytes is the content size.
	SizeBytes int64

	// MIMEType is the detected content type.
	MIMEType string
}

// Matches reports whether ref names this entry by local ID, remote ID or name.
func (e *DocumentEntry) Matches(ref string) bool {
	if ref == "" {
		return false
	}
	return e.ID == ref || (e.RemoteID != "" && e.RemoteID == ref) || e.Name == ref
}

// RemoteDocument is a document as reported by the remote service.
type RemoteDocument struct {
	ID          string
	DisplayName string
	Status      DocumentStatus
	SizeBytes   int64
	MIMEType    string
	CreatedAt   time.Time
}

// DocumentListing is the result of listing documents.
// When the remote service could not be reached, Entries holds the last
// known local list and Stale is set.
type DocumentListing struct {
	Entries []DocumentEntry
	Stale   bool
	Cause   error
}

// UploadFile is one file of a batch upload.
type UploadFile struct {
	Name    string
	Content []byte
	// Err is set when the file could not be read. The upload is then
	// recorded as failed without contacting the remote service.
	Err error
}

// UploadResult is the outcome for one file of a batch upload.
type UploadResult struct {
	Name  string
	Entry *DocumentEntry
	Err   error
}

// ProgressFunc is called after each file of a batch upload.
type ProgressFunc func(done, total int, result UploadResult)

// SortEntries orders entries by upload time, then name.
func SortEntries(entries []DocumentEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].UploadedAt.Equal(entries[j].UploadedAt) {
			return entries[i].UploadedAt.Before(entries[j].UploadedAt)
		}
		return entries[i].Name < entries[j].Name
	})
}
