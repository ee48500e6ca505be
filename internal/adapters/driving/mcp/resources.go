package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for FileRAG resources.
	uriScheme = "filerag://"

	historyURI     = uriScheme + "history"
	historyJSONURI = uriScheme + "history.json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.History == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "history",
		Description: "Every question asked so far with its answer and sources",
		MIMEType:    "text/plain",
	}, s.handleHistoryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         historyJSONURI,
		Name:        "history-json",
		Description: "The query history as a JSON array",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleHistoryResource exports the query history.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	format, mimeType := domain.ExportText, "text/plain"
	switch req.Params.URI {
	case historyURI:
	case historyJSONURI:
		format, mimeType = domain.ExportJSON, "application/json"
	default:
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := s.ports.History.ExportAll(ctx, format)
	if err != nil {
		return nil, fmt.Errorf("exporting history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: mimeType,
			Text:     string(data),
		}},
	}, nil
}
