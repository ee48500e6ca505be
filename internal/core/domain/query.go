package domain

import "time"

// QueryResult is what the remote service returns for a question.
type QueryResult struct {
	// Answer is the generated answer text.
	Answer string

	// Sources are the titles of the documents the answer was grounded on.
	Sources []string
}

// Found reports whether the answer cites at least one source.
func (r *QueryResult) Found() bool {
	return r != nil && len(r.Sources) > 0
}

// Answer is the outcome of asking a question.
type Answer struct {
	Question  string
	Text      string
	Sources   []string
	Timestamp time.Time

	// Warning is set when the answer was produced but could not be
	// recorded in the query log.
	Warning error
}

// QueryLogEntry is one question/answer pair in the history.
// Entries are append-only and never modified.
type QueryLogEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Question  string    `json:"question" yaml:"question"`
	Answer    string    `json:"answer" yaml:"answer"`
	Sources   []string  `json:"sources" yaml:"sources"`
}

// Found reports whether the answer cited sources.
func (e QueryLogEntry) Found() bool {
	return len(e.Sources) > 0
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is user feedback on an answer. Ratings are kept apart from
// query entries and never modify them.
type Rating struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Question  string    `json:"question" yaml:"question"`
	Score     int       `json:"score" yaml:"score"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
}

// ExportFormat selects how the history is serialised.
type ExportFormat string

// Available export formats.
const (
	ExportText ExportFormat = "text"
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
)

// IsValid returns true if the format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportText, ExportJSON, ExportYAML:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for the format.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportJSON:
		return ".json"
	case ExportYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}
