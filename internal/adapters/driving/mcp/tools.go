package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the uploaded documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string    `json:"answer"`
	Sources   []string  `json:"sources"`
	Found     bool      `json:"found"`
	Timestamp time.Time `json:"timestamp"`
	Warning   string    `json:"warning,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
	Stale     bool             `json:"stale"`
}

// DocumentOutput represents a single document.
type DocumentOutput struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// StoreInfoInput is the input schema for the store_info tool.
type StoreInfoInput struct{}

// StoreInfoOutput is the output schema for the store_info tool.
type StoreInfoOutput struct {
	Configured    bool      `json:"configured"`
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	DocumentCount int       `json:"document_count"`
	Active        int64     `json:"active,omitempty"`
	Pending       int64     `json:"pending,omitempty"`
	Failed        int64     `json:"failed,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the documents in the FileRAG store",
	}, s.handleAsk)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the documents in the FileRAG store with their status",
		}, s.handleListDocuments)
	}

	if s.ports.Store != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "store_info",
			Description: "Describe the active FileRAG store",
		}, s.handleStoreInfo)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Query.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		Sources:   answer.Sources,
		Found:     len(answer.Sources) > 0,
		Timestamp: answer.Timestamp,
	}
	if output.Sources == nil {
		output.Sources = []string{}
	}
	if answer.Warning != nil {
		output.Warning = answer.Warning.Error()
	}
	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	listing, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(listing.Entries)),
		Count:     len(listing.Entries),
		Stale:     listing.Stale,
	}
	for i := range listing.Entries {
		e := &listing.Entries[i]
		output.Documents[i] = DocumentOutput{
			ID:         e.ID,
			Name:       e.Name,
			Status:     e.Status.String(),
			Error:      e.Error,
			UploadedAt: e.UploadedAt,
		}
	}
	return nil, output, nil
}

// handleStoreInfo handles the store_info tool invocation.
func (s *Server) handleStoreInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StoreInfoInput,
) (*mcp.CallToolResult, StoreInfoOutput, error) {
	info, err := s.ports.Store.Info(ctx)
	if errors.Is(err, domain.ErrNoStoreConfigured) {
		return nil, StoreInfoOutput{}, nil
	}
	if err != nil {
		return nil, StoreInfoOutput{}, err
	}

	output := StoreInfoOutput{
		Configured:    true,
		ID:            info.Record.CorpusID,
		Name:          info.Record.DisplayName,
		CreatedAt:     info.Record.CreatedAt,
		DocumentCount: info.Record.DocumentCount,
	}
	if info.Remote != nil {
		output.Active = info.Remote.ActiveCount
		output.Pending = info.Remote.PendingCount
		output.Failed = info.Remote.FailedCount
	}
	return nil, output, nil
}
