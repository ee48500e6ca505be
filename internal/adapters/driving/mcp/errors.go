// Package mcp provides an MCP (Model Context Protocol) server adapter for FileRAG.
// It lets AI assistants ask questions about the uploaded documents.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
