// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SearchService: The remote managed search service (corpus, documents, query)
//   - StateStore: Persistence of the single active StoreRecord
//   - DocumentCache: Last known document entries of the active corpus
//   - QueryLog: Append-only question/answer history
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
