// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// QuestionSubmitted is sent when the user presses enter on a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the result of a question back to the model.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// DocumentsLoaded carries the document listing.
type DocumentsLoaded struct {
	Listing *domain.DocumentListing
	Err     error
}

// StoreLoaded carries the active store description.
type StoreLoaded struct {
	Info *domain.StoreInfo
	Err  error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer view.
	ViewChat ViewType = iota
	// ViewDocuments lists the documents in the store.
	ViewDocuments
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
