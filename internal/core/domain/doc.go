// Package domain defines the core business entities for FileRAG.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StoreRecord: The single active remote corpus known locally
//   - DocumentEntry: A document uploaded (or being uploaded) to that corpus
//   - QueryLogEntry: One question/answer pair in the append-only history
//   - OpError: An operation failure carrying its kind and cause
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
