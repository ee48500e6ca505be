// Package tui provides an interactive terminal user interface for filerag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions against the store.
	Query driving.QueryService

	// Document lists the documents in the store.
	Document driving.DocumentService

	// Store describes the active store for the status bar.
	Store driving.StoreService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	query driving.QueryService,
	document driving.DocumentService,
	store driving.StoreService,
) *Ports {
	return &Ports{
		Query:    query,
		Document: document,
		Store:    store,
	}
}

// Validate ensures all required ports are set.
// Document and Store are optional.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
