package mcp

import (
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Document lists documents in the store.
	Document driving.DocumentService

	// Store reports on the active store.
	Store driving.StoreService

	// History exposes the query history.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
