// Package memory provides in-memory implementations of the driven ports.
//
// These adapters back the service and driving adapter tests. The
// SearchService here is a scriptable fake of the remote search service
// with failure injection per operation.
package memory
